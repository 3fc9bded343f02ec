package web

import (
	"net/http"
	"time"

	"github.com/recallbox/recallbox/internal/domain"
	"github.com/recallbox/recallbox/internal/study"
)

type cardJSON struct {
	ID          string     `json:"id"`
	DeckID      string     `json:"deckId"`
	Front       string     `json:"front"`
	Back        string     `json:"back"`
	Efactor     *float64   `json:"efactor,omitempty"`
	Repetitions *int       `json:"repetitions,omitempty"`
	NextReview  *time.Time `json:"nextReview,omitempty"`
	LastStudied *time.Time `json:"lastStudied,omitempty"`
}

func toCardJSON(c domain.Card) cardJSON {
	return cardJSON{
		ID:          c.ID,
		DeckID:      c.DeckID,
		Front:       c.Front,
		Back:        c.Back,
		Efactor:     c.Efactor,
		Repetitions: c.Repetitions,
		NextReview:  c.NextReview,
		LastStudied: c.LastStudied,
	}
}

func toCardListJSON(cards []domain.Card) []cardJSON {
	out := make([]cardJSON, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCardJSON(c))
	}
	return out
}

func (s *Server) handleListCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		cards, err := s.db.ListCardsByDeck(userID, r.PathValue("id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, toCardListJSON(cards))
	}
}

// handleDueCards returns the deck's current due set in study order. The
// study endpoint is the one that freezes an order; this one is a live view.
func (s *Server) handleDueCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		cards, err := s.db.ListCardsByDeck(userID, r.PathValue("id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, toCardListJSON(study.DueCards(cards, s.now())))
	}
}

func (s *Server) handleCreateCard() http.HandlerFunc {
	type request struct {
		Front string `json:"front" validate:"required"`
		Back  string `json:"back" validate:"required"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		var req request
		if !s.decode(w, r, &req) {
			return
		}
		id, err := s.db.InsertCard(userID, r.PathValue("id"), req.Front, req.Back, s.now())
		if err != nil {
			s.fail(w, err)
			return
		}
		card, err := s.db.GetCard(userID, id)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusCreated, toCardJSON(*card))
	}
}

func (s *Server) handleGetCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		card, err := s.db.GetCard(userID, r.PathValue("id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, toCardJSON(*card))
	}
}

func (s *Server) handlePatchCard() http.HandlerFunc {
	type request struct {
		Front *string `json:"front" validate:"omitempty,min=1"`
		Back  *string `json:"back" validate:"omitempty,min=1"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		var req request
		if !s.decode(w, r, &req) {
			return
		}
		if err := s.db.PatchCard(userID, r.PathValue("id"), req.Front, req.Back, s.now()); err != nil {
			s.fail(w, err)
			return
		}
		card, err := s.db.GetCard(userID, r.PathValue("id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, toCardJSON(*card))
	}
}

func (s *Server) handleDeleteCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		if err := s.db.DeleteCard(userID, r.PathValue("id"), s.now()); err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusNoContent, nil)
	}
}
