// Package web exposes the JSON API. The UI shell is a separate application;
// this layer owns request decoding, the user-ownership precondition, and
// the mapping of core errors onto HTTP statuses.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/recallbox/recallbox/internal/deckimport"
	"github.com/recallbox/recallbox/internal/domain"
	"github.com/recallbox/recallbox/internal/review"
	"github.com/recallbox/recallbox/internal/storage"
	"github.com/recallbox/recallbox/internal/timezone"
)

// userHeader carries the acting user's ID. The authenticating reverse
// proxy in front of the service sets it; the handlers trust it and enforce
// ownership against it.
const userHeader = "X-User-ID"

// Server holds the dependencies for the HTTP server.
type Server struct {
	db        *storage.DB
	recorder  *review.Recorder
	importer  *deckimport.Importer
	router    *http.ServeMux
	validate  *validator.Validate
	defaultTZ string
	now       func() time.Time
}

// NewServer creates and configures a new server. defaultTZ is the IANA zone
// used for stats when a request does not pass ?tz=.
func NewServer(db *storage.DB, importer *deckimport.Importer, defaultTZ string) *Server {
	return NewServerWithClock(db, importer, defaultTZ, time.Now)
}

// NewServerWithClock creates a server with an injected time source.
func NewServerWithClock(db *storage.DB, importer *deckimport.Importer, defaultTZ string, now func() time.Time) *Server {
	s := &Server{
		db:        db,
		recorder:  review.NewRecorderWithClock(db, now),
		importer:  importer,
		router:    http.NewServeMux(),
		validate:  validator.New(),
		defaultTZ: defaultTZ,
		now:       now,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.HandleFunc("GET /api/decks", s.handleListDecks())
	s.router.HandleFunc("POST /api/decks", s.handleCreateDeck())
	s.router.HandleFunc("GET /api/decks/{id}", s.handleGetDeck())
	s.router.HandleFunc("PATCH /api/decks/{id}", s.handlePatchDeck())
	s.router.HandleFunc("DELETE /api/decks/{id}", s.handleDeleteDeck())

	s.router.HandleFunc("GET /api/decks/{id}/cards", s.handleListCards())
	s.router.HandleFunc("POST /api/decks/{id}/cards", s.handleCreateCard())
	s.router.HandleFunc("GET /api/decks/{id}/due", s.handleDueCards())
	s.router.HandleFunc("GET /api/cards/{id}", s.handleGetCard())
	s.router.HandleFunc("PATCH /api/cards/{id}", s.handlePatchCard())
	s.router.HandleFunc("DELETE /api/cards/{id}", s.handleDeleteCard())

	s.router.HandleFunc("POST /api/decks/{id}/study", s.handleStartSession())
	s.router.HandleFunc("POST /api/sessions/{id}/reviews", s.handleRecordReview())
	s.router.HandleFunc("POST /api/sessions/{id}/complete", s.handleCompleteSession())

	s.router.HandleFunc("GET /api/stats/overview", s.handleOverviewStats())
	s.router.HandleFunc("GET /api/stats/decks/{id}", s.handleDeckStats())
	s.router.HandleFunc("GET /api/stats/gamification", s.handleGamificationStats())
	s.router.HandleFunc("GET /api/stats/activity", s.handleActivityHistory())

	s.router.HandleFunc("POST /api/import", s.handleImport())
}

// userID extracts the acting user from the request, writing a 401 and
// returning false when the header is missing.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(userHeader)
	if id == "" {
		s.respondError(w, http.StatusUnauthorized, "missing "+userHeader+" header")
		return "", false
	}
	return id, true
}

// location resolves the request's ?tz= parameter, falling back to the
// configured default zone.
func (s *Server) location(w http.ResponseWriter, r *http.Request) (*time.Location, bool) {
	tz := r.URL.Query().Get("tz")
	if tz == "" {
		tz = s.defaultTZ
	}
	loc, err := timezone.Parse(tz)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return loc, true
}

// decode reads and validates a JSON request body.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respond(w, status, map[string]string{"error": message})
}

// fail maps a core error to an HTTP response. Not-found and not-owned are
// the same 404.
func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "not found")
		return
	}
	slog.Error("request failed", "error", err)
	s.respondError(w, http.StatusInternalServerError, "internal error")
}
