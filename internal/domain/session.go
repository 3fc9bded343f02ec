package domain

import "time"

// StudySession records one study run over a deck. CompletedAt is nil while
// the session is in progress; only completed sessions feed the streak,
// accuracy, and heatmap aggregations.
type StudySession struct {
	ID             string
	UserID         string
	DeckID         string
	StartedAt      time.Time
	CompletedAt    *time.Time
	CardsStudied   int
	CardsCorrect   int
	CardsIncorrect int
}

// Completed reports whether the session has been finished.
func (s *StudySession) Completed() bool {
	return s.CompletedAt != nil
}

// StudyEvent is the per-card review log entry within a session. It is
// informational: scheduling correctness does not depend on it.
type StudyEvent struct {
	ID        string
	UserID    string
	SessionID string
	CardID    string
	DeckID    string
	Quality   int
	Timestamp time.Time
}
