package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recallbox/recallbox/internal/domain"
)

const cardColumns = `c.id, c.deck_id, c.front, c.back, c.efactor, c.repetitions,
	c.next_review, c.last_studied, c.updated_at, c.import_hash`

// InsertCard creates a card in one of the user's decks and touches the
// deck's updated_at. Returns the generated card ID.
func (db *DB) InsertCard(userID, deckID, front, back string, now time.Time) (string, error) {
	return db.insertCard(userID, deckID, front, back, "", now)
}

// InsertImportedCard creates a card carrying the importer's content hash.
func (db *DB) InsertImportedCard(userID, deckID, front, back, importHash string, now time.Time) (string, error) {
	return db.insertCard(userID, deckID, front, back, importHash, now)
}

func (db *DB) insertCard(userID, deckID, front, back, importHash string, now time.Time) (string, error) {
	if _, err := db.GetDeck(userID, deckID); err != nil {
		return "", err
	}

	id := uuid.NewString()
	err := db.inTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO cards (id, deck_id, front, back, import_hash)
			VALUES (?, ?, ?, ?, ?)
		`, id, deckID, front, back, importHash)
		if err != nil {
			return fmt.Errorf("failed to insert card: %w", err)
		}
		return touchDeck(tx, deckID, now)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetCard retrieves a card, verifying ownership through its deck.
func (db *DB) GetCard(userID, cardID string) (*domain.Card, error) {
	row := db.conn.QueryRow(`
		SELECT `+cardColumns+`
		FROM cards c
		JOIN decks d ON d.id = c.deck_id
		WHERE c.id = ? AND d.user_id = ?
	`, cardID, userID)

	card, err := scanCard(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card %s: %w", cardID, err)
	}
	return card, nil
}

// ListCardsByDeck returns all cards in one of the user's decks.
func (db *DB) ListCardsByDeck(userID, deckID string) ([]domain.Card, error) {
	if _, err := db.GetDeck(userID, deckID); err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(`
		SELECT `+cardColumns+`
		FROM cards c
		WHERE c.deck_id = ?
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards for deck %s: %w", deckID, err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card rows: %w", err)
	}
	return cards, nil
}

// ListCardsByOwner returns every card across all of the user's decks.
func (db *DB) ListCardsByOwner(userID string) ([]domain.Card, error) {
	rows, err := db.conn.Query(`
		SELECT `+cardColumns+`
		FROM cards c
		JOIN decks d ON d.id = c.deck_id
		WHERE d.user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards for user: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card rows: %w", err)
	}
	return cards, nil
}

func scanCard(scan func(dest ...any) error) (*domain.Card, error) {
	var c domain.Card
	var efactor sql.NullFloat64
	var repetitions sql.NullInt64
	var nextReview, lastStudied, updatedAt sql.NullTime

	err := scan(
		&c.ID,
		&c.DeckID,
		&c.Front,
		&c.Back,
		&efactor,
		&repetitions,
		&nextReview,
		&lastStudied,
		&updatedAt,
		&c.ImportHash,
	)
	if err != nil {
		return nil, err
	}

	c.Efactor = floatPtr(efactor)
	c.Repetitions = intPtr(repetitions)
	c.NextReview = timePtr(nextReview)
	c.LastStudied = timePtr(lastStudied)
	c.UpdatedAt = timePtr(updatedAt)
	return &c, nil
}

// PatchCard updates a card's front and/or back text. Nil fields are left
// untouched. Both the card and its deck get updated_at stamped.
func (db *DB) PatchCard(userID, cardID string, front, back *string, now time.Time) error {
	card, err := db.GetCard(userID, cardID)
	if err != nil {
		return err
	}

	return db.inTx(func(tx *sql.Tx) error {
		if front != nil {
			if _, err := tx.Exec(`UPDATE cards SET front = ? WHERE id = ?`, *front, cardID); err != nil {
				return fmt.Errorf("failed to update card front: %w", err)
			}
		}
		if back != nil {
			if _, err := tx.Exec(`UPDATE cards SET back = ? WHERE id = ?`, *back, cardID); err != nil {
				return fmt.Errorf("failed to update card back: %w", err)
			}
		}
		if _, err := tx.Exec(`UPDATE cards SET updated_at = ? WHERE id = ?`, now, cardID); err != nil {
			return fmt.Errorf("failed to touch card: %w", err)
		}
		return touchDeck(tx, card.DeckID, now)
	})
}

// DeleteCard removes a card and touches its deck.
func (db *DB) DeleteCard(userID, cardID string, now time.Time) error {
	card, err := db.GetCard(userID, cardID)
	if err != nil {
		return err
	}

	return db.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM cards WHERE id = ?`, cardID); err != nil {
			return fmt.Errorf("failed to delete card %s: %w", cardID, err)
		}
		return touchDeck(tx, card.DeckID, now)
	})
}

// RecordReview persists the scheduling state produced by one review. The
// card's efactor, repetitions, next_review, last_studied, and updated_at
// change together with the deck's updated_at in a single transaction:
// either the whole review lands or none of it does.
func (db *DB) RecordReview(userID, cardID string, efactor float64, repetitions int, nextReview, now time.Time) error {
	card, err := db.GetCard(userID, cardID)
	if err != nil {
		return err
	}

	return db.inTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE cards
			SET efactor = ?, repetitions = ?, next_review = ?, last_studied = ?, updated_at = ?
			WHERE id = ?
		`, efactor, repetitions, nextReview, now, now, cardID)
		if err != nil {
			return fmt.Errorf("failed to record review for card %s: %w", cardID, err)
		}
		return touchDeck(tx, card.DeckID, now)
	})
}
