// Package review coordinates one review: map the user's confidence to an
// SM-2 quality, compute the card's next schedule, and persist the result
// atomically alongside the session bookkeeping.
package review

import (
	"fmt"
	"time"

	"github.com/recallbox/recallbox/internal/domain"
	"github.com/recallbox/recallbox/internal/srs"
	"github.com/recallbox/recallbox/internal/study"
)

// Store is the slice of the storage layer the recorder needs. The card
// update and the deck touch inside RecordReview are a single transaction;
// the recorder relies on that rather than compensating itself.
type Store interface {
	GetCard(userID, cardID string) (*domain.Card, error)
	ListCardsByDeck(userID, deckID string) ([]domain.Card, error)
	RecordReview(userID, cardID string, efactor float64, repetitions int, nextReview, now time.Time) error
	InsertSession(userID, deckID string, startedAt time.Time) (string, error)
	GetSession(userID, sessionID string) (*domain.StudySession, error)
	CompleteSession(userID, sessionID string, completedAt time.Time) error
	AddSessionResult(userID, sessionID string, correct bool) error
	InsertEvent(event domain.StudyEvent) (string, error)
}

// Recorder applies reviews and runs the session lifecycle.
type Recorder struct {
	store Store
	now   func() time.Time
}

// NewRecorder creates a recorder using the wall clock.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// NewRecorderWithClock creates a recorder with an injected time source.
func NewRecorderWithClock(store Store, now func() time.Time) *Recorder {
	return &Recorder{store: store, now: now}
}

// RecordReview records one review of a card. sessionID may be empty for a
// review outside a session; otherwise the session's counters are bumped and
// a study event is logged. Returns the card's new schedule.
func (r *Recorder) RecordReview(userID, cardID, sessionID string, confidence srs.Confidence) (srs.Schedule, error) {
	quality, err := srs.QualityFromConfidence(confidence)
	if err != nil {
		return srs.Schedule{}, err
	}

	card, err := r.store.GetCard(userID, cardID)
	if err != nil {
		return srs.Schedule{}, err
	}

	now := r.now()
	efactor, repetitions := card.SchedulingState()
	schedule := srs.ComputeNextReview(efactor, repetitions, quality, now)

	if err := r.store.RecordReview(userID, cardID, schedule.Efactor, schedule.Repetitions, schedule.NextReview, now); err != nil {
		return srs.Schedule{}, err
	}

	if sessionID != "" {
		if err := r.store.AddSessionResult(userID, sessionID, quality >= 3); err != nil {
			return srs.Schedule{}, fmt.Errorf("failed to update session: %w", err)
		}
		_, err := r.store.InsertEvent(domain.StudyEvent{
			UserID:    userID,
			SessionID: sessionID,
			CardID:    cardID,
			DeckID:    card.DeckID,
			Quality:   quality,
			Timestamp: now,
		})
		if err != nil {
			return srs.Schedule{}, fmt.Errorf("failed to log study event: %w", err)
		}
	}

	return schedule, nil
}

// Session is a started study session with its frozen card order.
type Session struct {
	ID    string
	Queue *study.Queue
}

// StartSession opens a session over a deck and freezes the due-card order.
// The queue is the session's snapshot: reviews recorded while studying do
// not reshuffle it or resurface finished cards.
func (r *Recorder) StartSession(userID, deckID string) (*Session, error) {
	cards, err := r.store.ListCardsByDeck(userID, deckID)
	if err != nil {
		return nil, err
	}

	now := r.now()
	sessionID, err := r.store.InsertSession(userID, deckID, now)
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:    sessionID,
		Queue: study.NewQueue(cards, now),
	}, nil
}

// CompleteSession stamps the session's completion time. Only completed
// sessions count toward streak, accuracy, and the heatmap.
func (r *Recorder) CompleteSession(userID, sessionID string) error {
	return r.store.CompleteSession(userID, sessionID, r.now())
}
