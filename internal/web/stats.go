package web

import (
	"net/http"

	"github.com/recallbox/recallbox/internal/stats"
)

func (s *Server) handleOverviewStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		loc, ok := s.location(w, r)
		if !ok {
			return
		}
		cards, err := s.db.ListCardsByOwner(userID)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, stats.Overview(cards, loc, s.now()))
	}
}

func (s *Server) handleDeckStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		loc, ok := s.location(w, r)
		if !ok {
			return
		}
		cards, err := s.db.ListCardsByDeck(userID, r.PathValue("id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, stats.Overview(cards, loc, s.now()))
	}
}

func (s *Server) handleGamificationStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		loc, ok := s.location(w, r)
		if !ok {
			return
		}
		now := s.now()
		sessions, err := s.db.ListSessionsSince(userID, now.AddDate(0, 0, -stats.WindowDays))
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, stats.Gamification(sessions, loc, now))
	}
}

func (s *Server) handleActivityHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		loc, ok := s.location(w, r)
		if !ok {
			return
		}
		now := s.now()
		sessions, err := s.db.ListSessionsSince(userID, now.AddDate(0, 0, -stats.WindowDays))
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, stats.ActivityHistory(sessions, loc, now))
	}
}

// handleImport reconciles the given deck sources synchronously. Per-source
// failures are logged and skipped inside the importer, so the endpoint
// reports acceptance, not per-deck results.
func (s *Server) handleImport() http.HandlerFunc {
	type request struct {
		Sources []string `json:"sources" validate:"min=1,dive,required"`
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
		s.importer.Run(userID, req.Sources)
		s.respond(w, http.StatusNoContent, nil)
	}
}
