package review

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/recallbox/recallbox/internal/domain"
	"github.com/recallbox/recallbox/internal/srs"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	deckOwner map[string]string            // deckID -> userID
	cards     map[string]*domain.Card      // cardID -> card
	sessions  map[string]*domain.StudySession
	events    []domain.StudyEvent

	nextSessionID string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		deckOwner:     map[string]string{"deck-1": "alice"},
		cards:         map[string]*domain.Card{},
		sessions:      map[string]*domain.StudySession{},
		nextSessionID: "session-1",
	}
}

func (f *fakeStore) owns(userID, deckID string) bool {
	return f.deckOwner[deckID] == userID
}

func (f *fakeStore) GetCard(userID, cardID string) (*domain.Card, error) {
	card, ok := f.cards[cardID]
	if !ok || !f.owns(userID, card.DeckID) {
		return nil, domain.ErrNotFound
	}
	clone := *card
	return &clone, nil
}

func (f *fakeStore) ListCardsByDeck(userID, deckID string) ([]domain.Card, error) {
	if !f.owns(userID, deckID) {
		return nil, domain.ErrNotFound
	}
	var cards []domain.Card
	for _, c := range f.cards {
		if c.DeckID == deckID {
			cards = append(cards, *c)
		}
	}
	return cards, nil
}

func (f *fakeStore) RecordReview(userID, cardID string, efactor float64, repetitions int, nextReview, now time.Time) error {
	card, ok := f.cards[cardID]
	if !ok || !f.owns(userID, card.DeckID) {
		return domain.ErrNotFound
	}
	card.Efactor = &efactor
	card.Repetitions = &repetitions
	card.NextReview = &nextReview
	card.LastStudied = &now
	card.UpdatedAt = &now
	return nil
}

func (f *fakeStore) InsertSession(userID, deckID string, startedAt time.Time) (string, error) {
	if !f.owns(userID, deckID) {
		return "", domain.ErrNotFound
	}
	id := f.nextSessionID
	f.sessions[id] = &domain.StudySession{ID: id, UserID: userID, DeckID: deckID, StartedAt: startedAt}
	return id, nil
}

func (f *fakeStore) GetSession(userID, sessionID string) (*domain.StudySession, error) {
	s, ok := f.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) CompleteSession(userID, sessionID string, completedAt time.Time) error {
	s, err := f.GetSession(userID, sessionID)
	if err != nil {
		return err
	}
	s.CompletedAt = &completedAt
	return nil
}

func (f *fakeStore) AddSessionResult(userID, sessionID string, correct bool) error {
	s, err := f.GetSession(userID, sessionID)
	if err != nil {
		return err
	}
	s.CardsStudied++
	if correct {
		s.CardsCorrect++
	} else {
		s.CardsIncorrect++
	}
	return nil
}

func (f *fakeStore) InsertEvent(event domain.StudyEvent) (string, error) {
	f.events = append(f.events, event)
	return "event-1", nil
}

func fixedClock() time.Time { return testNow }

func TestRecordReviewFreshCard(t *testing.T) {
	store := newFakeStore()
	store.cards["card-1"] = &domain.Card{ID: "card-1", DeckID: "deck-1", Front: "hola", Back: "hello"}
	r := NewRecorderWithClock(store, fixedClock)

	schedule, err := r.RecordReview("alice", "card-1", "", srs.Easy)
	if err != nil {
		t.Fatalf("RecordReview: %v", err)
	}

	if math.Abs(schedule.Efactor-2.6) > 1e-9 {
		t.Errorf("Efactor = %v, want 2.6", schedule.Efactor)
	}
	if schedule.Repetitions != 1 {
		t.Errorf("Repetitions = %d, want 1", schedule.Repetitions)
	}
	if !schedule.NextReview.Equal(testNow.Add(24 * time.Hour)) {
		t.Errorf("NextReview = %v, want now+1d", schedule.NextReview)
	}

	card := store.cards["card-1"]
	if card.LastStudied == nil || !card.LastStudied.Equal(testNow) {
		t.Errorf("LastStudied = %v, want %v", card.LastStudied, testNow)
	}
	if card.Efactor == nil || math.Abs(*card.Efactor-2.6) > 1e-9 {
		t.Errorf("persisted Efactor = %v, want 2.6", card.Efactor)
	}
}

func TestRecordReviewLapse(t *testing.T) {
	store := newFakeStore()
	ef, reps := 2.5, 4
	store.cards["card-1"] = &domain.Card{ID: "card-1", DeckID: "deck-1", Efactor: &ef, Repetitions: &reps}
	r := NewRecorderWithClock(store, fixedClock)

	schedule, err := r.RecordReview("alice", "card-1", "", srs.Wrong)
	if err != nil {
		t.Fatalf("RecordReview: %v", err)
	}
	if schedule.Repetitions != 0 {
		t.Errorf("Repetitions = %d, want 0 after lapse", schedule.Repetitions)
	}
	if math.Abs(schedule.Efactor-1.7) > 1e-9 {
		t.Errorf("Efactor = %v, want 1.7", schedule.Efactor)
	}
}

func TestRecordReviewWithinSession(t *testing.T) {
	store := newFakeStore()
	store.cards["card-1"] = &domain.Card{ID: "card-1", DeckID: "deck-1"}
	store.cards["card-2"] = &domain.Card{ID: "card-2", DeckID: "deck-1"}
	r := NewRecorderWithClock(store, fixedClock)

	session, err := r.StartSession("alice", "deck-1")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if _, err := r.RecordReview("alice", "card-1", session.ID, srs.Hard); err != nil {
		t.Fatalf("RecordReview: %v", err)
	}
	if _, err := r.RecordReview("alice", "card-2", session.ID, srs.Close); err != nil {
		t.Fatalf("RecordReview: %v", err)
	}

	s := store.sessions[session.ID]
	if s.CardsStudied != 2 || s.CardsCorrect != 1 || s.CardsIncorrect != 1 {
		t.Errorf("counters = %d/%d/%d, want 2/1/1", s.CardsStudied, s.CardsCorrect, s.CardsIncorrect)
	}

	if len(store.events) != 2 {
		t.Fatalf("got %d events, want 2", len(store.events))
	}
	if store.events[0].Quality != 3 || store.events[1].Quality != 2 {
		t.Errorf("event qualities = %d, %d, want 3, 2", store.events[0].Quality, store.events[1].Quality)
	}

	if err := r.CompleteSession("alice", session.ID); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	if !s.Completed() {
		t.Error("session should be completed")
	}
}

func TestRecordReviewErrors(t *testing.T) {
	store := newFakeStore()
	store.cards["card-1"] = &domain.Card{ID: "card-1", DeckID: "deck-1"}
	r := NewRecorderWithClock(store, fixedClock)

	t.Run("invalid confidence", func(t *testing.T) {
		if _, err := r.RecordReview("alice", "card-1", "", srs.Confidence("sorta")); err == nil {
			t.Error("expected error for invalid confidence")
		}
		if store.cards["card-1"].Efactor != nil {
			t.Error("card must not be touched on invalid confidence")
		}
	})

	t.Run("missing card", func(t *testing.T) {
		if _, err := r.RecordReview("alice", "card-404", "", srs.Easy); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("foreign card", func(t *testing.T) {
		if _, err := r.RecordReview("bob", "card-1", "", srs.Easy); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestStartSessionFreezesQueue(t *testing.T) {
	store := newFakeStore()
	overdue := testNow.Add(-24 * time.Hour)
	store.cards["card-due"] = &domain.Card{ID: "card-due", DeckID: "deck-1", NextReview: &overdue}
	store.cards["card-new"] = &domain.Card{ID: "card-new", DeckID: "deck-1"}
	future := testNow.Add(24 * time.Hour)
	store.cards["card-later"] = &domain.Card{ID: "card-later", DeckID: "deck-1", NextReview: &future}
	r := NewRecorderWithClock(store, fixedClock)

	session, err := r.StartSession("alice", "deck-1")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if session.Queue.Len() != 2 {
		t.Fatalf("queue has %d cards, want 2", session.Queue.Len())
	}

	first, _ := session.Queue.Next()
	if first.ID != "card-due" {
		t.Errorf("first card = %s, want card-due", first.ID)
	}

	// A review recorded mid-session must not change the frozen order.
	if _, err := r.RecordReview("alice", "card-new", session.ID, srs.Easy); err != nil {
		t.Fatalf("RecordReview: %v", err)
	}
	second, ok := session.Queue.Next()
	if !ok || second.ID != "card-new" {
		t.Errorf("second card = %v, want card-new", second.ID)
	}
	if _, ok := session.Queue.Next(); ok {
		t.Error("queue should be exhausted")
	}
}
