package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recallbox/recallbox/internal/domain"
)

// InsertDeck creates a new deck and returns its generated ID.
func (db *DB) InsertDeck(userID, name, description string) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(`
		INSERT INTO decks (id, user_id, name, description)
		VALUES (?, ?, ?, ?)
	`, id, userID, name, description)
	if err != nil {
		return "", fmt.Errorf("failed to insert deck: %w", err)
	}
	return id, nil
}

// InsertSourceDeck creates a deck bound to an import source.
func (db *DB) InsertSourceDeck(userID, name, sourcePath string) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(`
		INSERT INTO decks (id, user_id, name, source_path)
		VALUES (?, ?, ?, ?)
	`, id, userID, name, sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to insert source deck: %w", err)
	}
	return id, nil
}

// GetDeck retrieves one of the user's decks by ID.
func (db *DB) GetDeck(userID, deckID string) (*domain.Deck, error) {
	row := db.conn.QueryRow(`
		SELECT id, user_id, name, description, updated_at, source_path
		FROM decks WHERE id = ? AND user_id = ?
	`, deckID, userID)
	return scanDeck(row)
}

// FindDeckBySource retrieves the user's deck bound to the given import
// source path, or ErrNotFound when the source has never been imported.
func (db *DB) FindDeckBySource(userID, sourcePath string) (*domain.Deck, error) {
	row := db.conn.QueryRow(`
		SELECT id, user_id, name, description, updated_at, source_path
		FROM decks WHERE user_id = ? AND source_path = ?
	`, userID, sourcePath)
	return scanDeck(row)
}

func scanDeck(row *sql.Row) (*domain.Deck, error) {
	var d domain.Deck
	var updatedAt sql.NullTime
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &updatedAt, &d.SourcePath)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan deck: %w", err)
	}
	d.UpdatedAt = timePtr(updatedAt)
	return &d, nil
}

// ListDecks returns all of the user's decks decorated with card counts, due
// counts, last-studied time, and the earliest upcoming review.
func (db *DB) ListDecks(userID string, now time.Time) ([]domain.DeckSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, user_id, name, description, updated_at, source_path
		FROM decks WHERE user_id = ?
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var summaries []domain.DeckSummary
	for rows.Next() {
		var d domain.Deck
		var updatedAt sql.NullTime
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &updatedAt, &d.SourcePath); err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		d.UpdatedAt = timePtr(updatedAt)
		summaries = append(summaries, domain.DeckSummary{Deck: d})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deck rows: %w", err)
	}

	for i := range summaries {
		cards, err := db.ListCardsByDeck(userID, summaries[i].ID)
		if err != nil {
			return nil, err
		}
		summaries[i].CardCount = len(cards)
		for _, c := range cards {
			if c.IsDue(now) {
				summaries[i].DueCount++
			}
			if c.LastStudied != nil && (summaries[i].LastStudied == nil || c.LastStudied.After(*summaries[i].LastStudied)) {
				summaries[i].LastStudied = c.LastStudied
			}
			if c.NextReview != nil && c.NextReview.After(now) &&
				(summaries[i].NextReviewAt == nil || c.NextReview.Before(*summaries[i].NextReviewAt)) {
				summaries[i].NextReviewAt = c.NextReview
			}
		}
	}
	return summaries, nil
}

// PatchDeck updates the deck's name and/or description. Nil fields are left
// untouched; updated_at is always stamped.
func (db *DB) PatchDeck(userID, deckID string, name, description *string, now time.Time) error {
	if _, err := db.GetDeck(userID, deckID); err != nil {
		return err
	}

	if name != nil {
		if _, err := db.conn.Exec(`UPDATE decks SET name = ? WHERE id = ?`, *name, deckID); err != nil {
			return fmt.Errorf("failed to update deck name: %w", err)
		}
	}
	if description != nil {
		if _, err := db.conn.Exec(`UPDATE decks SET description = ? WHERE id = ?`, *description, deckID); err != nil {
			return fmt.Errorf("failed to update deck description: %w", err)
		}
	}
	if _, err := db.conn.Exec(`UPDATE decks SET updated_at = ? WHERE id = ?`, now, deckID); err != nil {
		return fmt.Errorf("failed to touch deck: %w", err)
	}
	return nil
}

// DeleteDeck removes a deck and all of its cards in one transaction.
func (db *DB) DeleteDeck(userID, deckID string) error {
	if _, err := db.GetDeck(userID, deckID); err != nil {
		return err
	}

	return db.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM cards WHERE deck_id = ?`, deckID); err != nil {
			return fmt.Errorf("failed to delete deck cards: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM decks WHERE id = ?`, deckID); err != nil {
			return fmt.Errorf("failed to delete deck: %w", err)
		}
		return nil
	})
}

func touchDeck(tx *sql.Tx, deckID string, now time.Time) error {
	if _, err := tx.Exec(`UPDATE decks SET updated_at = ? WHERE id = ?`, now, deckID); err != nil {
		return fmt.Errorf("failed to touch deck: %w", err)
	}
	return nil
}
