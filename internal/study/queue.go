// Package study selects and orders the cards for a study session.
package study

import (
	"sort"
	"time"

	"github.com/recallbox/recallbox/internal/domain"
)

// DueCards returns the cards due at the given time, ordered for study:
// scheduled cards ascending by next review (most overdue first), then all
// never-scheduled cards. Overdue reviews deliberately outrank brand-new
// cards.
func DueCards(cards []domain.Card, now time.Time) []domain.Card {
	var due []domain.Card
	for _, c := range cards {
		if c.IsDue(now) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i].NextReview, due[j].NextReview
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return due
}

// Queue is a frozen snapshot of the due set, built once at session start
// and consumed by index. Reviews recorded mid-session change the underlying
// cards, so re-querying would reshuffle the order and resurface cards that
// were just studied; the queue never re-reads.
type Queue struct {
	cards []domain.Card
	pos   int
}

// NewQueue snapshots the due set of the given cards at the given time.
func NewQueue(cards []domain.Card, now time.Time) *Queue {
	return &Queue{cards: DueCards(cards, now)}
}

// Next returns the next card in the frozen order, or false when the
// session's cards are exhausted.
func (q *Queue) Next() (domain.Card, bool) {
	if q.pos >= len(q.cards) {
		return domain.Card{}, false
	}
	c := q.cards[q.pos]
	q.pos++
	return c, true
}

// Len returns the total number of cards in the session.
func (q *Queue) Len() int {
	return len(q.cards)
}

// Remaining returns how many cards have not yet been served.
func (q *Queue) Remaining() int {
	return len(q.cards) - q.pos
}

// Cards returns the frozen study order.
func (q *Queue) Cards() []domain.Card {
	return q.cards
}
