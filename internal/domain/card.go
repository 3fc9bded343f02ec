package domain

import "time"

// Scheduling defaults applied when a card has never been reviewed.
const (
	DefaultEfactor     = 2.5
	DefaultRepetitions = 0
)

// Card represents a single front/back flashcard belonging to one deck.
//
// The scheduling fields are nil until the card's first review: a freshly
// created card carries no scheduling state, and readers default Efactor to
// 2.5 and Repetitions to 0.
type Card struct {
	ID          string
	DeckID      string
	Front       string
	Back        string
	Efactor     *float64
	Repetitions *int
	NextReview  *time.Time
	LastStudied *time.Time
	UpdatedAt   *time.Time

	// ImportHash is set on cards created by the deck importer and is used
	// to reconcile re-imports. Empty for hand-created cards.
	ImportHash string
}

// SchedulingState returns the card's efactor and repetition count,
// applying the new-card defaults when the fields are unset.
func (c *Card) SchedulingState() (efactor float64, repetitions int) {
	efactor = DefaultEfactor
	if c.Efactor != nil {
		efactor = *c.Efactor
	}
	repetitions = DefaultRepetitions
	if c.Repetitions != nil {
		repetitions = *c.Repetitions
	}
	return efactor, repetitions
}

// IsDue reports whether the card should be offered for study at the given
// time. A card that has never been scheduled is always due.
func (c *Card) IsDue(now time.Time) bool {
	return c.NextReview == nil || !c.NextReview.After(now)
}
