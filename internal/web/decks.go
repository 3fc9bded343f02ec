package web

import (
	"net/http"
	"time"

	"github.com/recallbox/recallbox/internal/domain"
)

type deckJSON struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	SourcePath  string     `json:"sourcePath,omitempty"`
}

type deckSummaryJSON struct {
	deckJSON
	CardCount    int        `json:"cardCount"`
	DueCount     int        `json:"dueCount"`
	LastStudied  *time.Time `json:"lastStudied,omitempty"`
	NextReviewAt *time.Time `json:"nextReviewAt,omitempty"`
}

func toDeckJSON(d domain.Deck) deckJSON {
	return deckJSON{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		UpdatedAt:   d.UpdatedAt,
		SourcePath:  d.SourcePath,
	}
}

func (s *Server) handleListDecks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		summaries, err := s.db.ListDecks(userID, s.now())
		if err != nil {
			s.fail(w, err)
			return
		}
		out := make([]deckSummaryJSON, 0, len(summaries))
		for _, sum := range summaries {
			out = append(out, deckSummaryJSON{
				deckJSON:     toDeckJSON(sum.Deck),
				CardCount:    sum.CardCount,
				DueCount:     sum.DueCount,
				LastStudied:  sum.LastStudied,
				NextReviewAt: sum.NextReviewAt,
			})
		}
		s.respond(w, http.StatusOK, out)
	}
}

func (s *Server) handleCreateDeck() http.HandlerFunc {
	type request struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
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
		id, err := s.db.InsertDeck(userID, req.Name, req.Description)
		if err != nil {
			s.fail(w, err)
			return
		}
		deck, err := s.db.GetDeck(userID, id)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusCreated, toDeckJSON(*deck))
	}
}

func (s *Server) handleGetDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		deck, err := s.db.GetDeck(userID, r.PathValue("id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, toDeckJSON(*deck))
	}
}

func (s *Server) handlePatchDeck() http.HandlerFunc {
	type request struct {
		Name        *string `json:"name" validate:"omitempty,min=1"`
		Description *string `json:"description"`
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
		if err := s.db.PatchDeck(userID, r.PathValue("id"), req.Name, req.Description, s.now()); err != nil {
			s.fail(w, err)
			return
		}
		deck, err := s.db.GetDeck(userID, r.PathValue("id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, toDeckJSON(*deck))
	}
}

func (s *Server) handleDeleteDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		if err := s.db.DeleteDeck(userID, r.PathValue("id")); err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusNoContent, nil)
	}
}
