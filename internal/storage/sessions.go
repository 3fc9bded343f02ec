package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recallbox/recallbox/internal/domain"
)

// InsertSession opens a study session over one of the user's decks and
// returns the generated session ID.
func (db *DB) InsertSession(userID, deckID string, startedAt time.Time) (string, error) {
	if _, err := db.GetDeck(userID, deckID); err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err := db.conn.Exec(`
		INSERT INTO study_sessions (id, user_id, deck_id, started_at)
		VALUES (?, ?, ?, ?)
	`, id, userID, deckID, startedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert study session: %w", err)
	}
	return id, nil
}

// GetSession retrieves one of the user's study sessions.
func (db *DB) GetSession(userID, sessionID string) (*domain.StudySession, error) {
	row := db.conn.QueryRow(`
		SELECT id, user_id, deck_id, started_at, completed_at,
			cards_studied, cards_correct, cards_incorrect
		FROM study_sessions WHERE id = ? AND user_id = ?
	`, sessionID, userID)

	s, err := scanSession(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	return s, nil
}

// CompleteSession stamps the session's completion time. Completing an
// already-completed session is an error.
func (db *DB) CompleteSession(userID, sessionID string, completedAt time.Time) error {
	session, err := db.GetSession(userID, sessionID)
	if err != nil {
		return err
	}
	if session.Completed() {
		return fmt.Errorf("session %s is already completed", sessionID)
	}

	_, err = db.conn.Exec(`
		UPDATE study_sessions SET completed_at = ? WHERE id = ?
	`, completedAt, sessionID)
	if err != nil {
		return fmt.Errorf("failed to complete session %s: %w", sessionID, err)
	}
	return nil
}

// AddSessionResult bumps the session's studied counter and the correct or
// incorrect counter for one recorded review.
func (db *DB) AddSessionResult(userID, sessionID string, correct bool) error {
	if _, err := db.GetSession(userID, sessionID); err != nil {
		return err
	}

	column := "cards_incorrect"
	if correct {
		column = "cards_correct"
	}
	_, err := db.conn.Exec(`
		UPDATE study_sessions
		SET cards_studied = cards_studied + 1, `+column+` = `+column+` + 1
		WHERE id = ?
	`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session counters for %s: %w", sessionID, err)
	}
	return nil
}

// ListSessionsSince returns the user's sessions started at or after the
// given instant, completed or not.
func (db *DB) ListSessionsSince(userID string, since time.Time) ([]domain.StudySession, error) {
	rows, err := db.conn.Query(`
		SELECT id, user_id, deck_id, started_at, completed_at,
			cards_studied, cards_correct, cards_incorrect
		FROM study_sessions
		WHERE user_id = ? AND started_at >= ?
		ORDER BY started_at
	`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.StudySession
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	return sessions, nil
}

func scanSession(scan func(dest ...any) error) (*domain.StudySession, error) {
	var s domain.StudySession
	var completedAt sql.NullTime
	err := scan(
		&s.ID,
		&s.UserID,
		&s.DeckID,
		&s.StartedAt,
		&completedAt,
		&s.CardsStudied,
		&s.CardsCorrect,
		&s.CardsIncorrect,
	)
	if err != nil {
		return nil, err
	}
	s.CompletedAt = timePtr(completedAt)
	return &s, nil
}

// InsertEvent appends one review event to the study log.
func (db *DB) InsertEvent(event domain.StudyEvent) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(`
		INSERT INTO study_events (id, user_id, session_id, card_id, deck_id, quality, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, event.UserID, event.SessionID, event.CardID, event.DeckID, event.Quality, event.Timestamp)
	if err != nil {
		return "", fmt.Errorf("failed to insert study event: %w", err)
	}
	return id, nil
}

// ListEventsBySession returns the review log for one of the user's sessions.
func (db *DB) ListEventsBySession(userID, sessionID string) ([]domain.StudyEvent, error) {
	if _, err := db.GetSession(userID, sessionID); err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(`
		SELECT id, user_id, session_id, card_id, deck_id, quality, timestamp
		FROM study_events
		WHERE session_id = ?
		ORDER BY timestamp
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var events []domain.StudyEvent
	for rows.Next() {
		var e domain.StudyEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.SessionID, &e.CardID, &e.DeckID, &e.Quality, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event rows: %w", err)
	}
	return events, nil
}
