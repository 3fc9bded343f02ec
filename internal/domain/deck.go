package domain

import "time"

// Deck is a named collection of cards owned by one user.
type Deck struct {
	ID          string
	UserID      string
	Name        string
	Description string
	UpdatedAt   *time.Time

	// SourcePath is set on decks created by the importer and records the
	// source the deck was reconciled from. Empty for hand-created decks.
	SourcePath string
}

// DeckSummary is a deck decorated with the per-deck counters shown on the
// deck list: total cards, cards due now, most recent study time, and the
// earliest future review.
type DeckSummary struct {
	Deck
	CardCount    int
	DueCount     int
	LastStudied  *time.Time
	NextReviewAt *time.Time
}
