package web

import (
	"net/http"
	"time"

	"github.com/recallbox/recallbox/internal/srs"
)

type scheduleJSON struct {
	Efactor     float64   `json:"efactor"`
	Repetitions int       `json:"repetitions"`
	NextReview  time.Time `json:"nextReview"`
}

// handleStartSession opens a study session over a deck and returns the
// frozen card order. The client works through the returned list; the server
// does not re-derive it mid-session.
func (s *Server) handleStartSession() http.HandlerFunc {
	type response struct {
		SessionID string     `json:"sessionId"`
		Cards     []cardJSON `json:"cards"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		session, err := s.recorder.StartSession(userID, r.PathValue("id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusCreated, response{
			SessionID: session.ID,
			Cards:     toCardListJSON(session.Queue.Cards()),
		})
	}
}

func (s *Server) handleRecordReview() http.HandlerFunc {
	type request struct {
		CardID     string `json:"cardId" validate:"required"`
		Confidence string `json:"confidence" validate:"required,oneof=wrong close hard easy"`
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
		schedule, err := s.recorder.RecordReview(userID, req.CardID, r.PathValue("id"), srs.Confidence(req.Confidence))
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, scheduleJSON{
			Efactor:     schedule.Efactor,
			Repetitions: schedule.Repetitions,
			NextReview:  schedule.NextReview,
		})
	}
}

func (s *Server) handleCompleteSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.userID(w, r)
		if !ok {
			return
		}
		if err := s.recorder.CompleteSession(userID, r.PathValue("id")); err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusNoContent, nil)
	}
}
