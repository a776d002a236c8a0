package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pruvi/pruvi/internal/scheduler"
	"github.com/pruvi/pruvi/internal/storage"
)

// userHeader carries the caller identity. Real authentication lives in
// front of this service; the header is a development stand-in.
const (
	userHeader  = "X-User-Id"
	defaultUser = "dev-user"
)

// Server holds the dependencies for the HTTP API.
type Server struct {
	engine   *scheduler.Service
	db       *storage.DB
	router   *http.ServeMux
	validate *validator.Validate
	logger   *slog.Logger
	reposDir string
	count    int
}

// NewServer creates and configures a new server. count is the default
// session size used when a start request names none.
func NewServer(engine *scheduler.Service, db *storage.DB, reposDir string, count int, logger *slog.Logger) *Server {
	s := &Server{
		engine:   engine,
		db:       db,
		router:   http.NewServeMux(),
		validate: validator.New(),
		logger:   logger,
		reposDir: reposDir,
		count:    count,
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
	s.router.HandleFunc("POST /api/sessions/start", s.handleStartSession)
	s.router.HandleFunc("POST /api/sessions/{id}/complete", s.handleCompleteSession)
	s.router.HandleFunc("GET /api/sessions/today", s.handleTodaySession)
	s.router.HandleFunc("GET /api/sessions/stats", s.handleSessionStats)
	s.router.HandleFunc("POST /api/questions/{id}/answer", s.handleAnswer)
	s.router.HandleFunc("GET /api/subjects", s.handleSubjects)
	s.router.HandleFunc("POST /api/sync", s.handleSync)
}

func userID(r *http.Request) string {
	if id := r.Header.Get(userHeader); id != "" {
		return id
	}
	return defaultUser
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{Error: message, Code: code})
}

// respondEngineError translates the scheduling engine's error taxonomy
// to HTTP statuses.
func (s *Server) respondEngineError(w http.ResponseWriter, err error) {
	var (
		notFound   *scheduler.NotFoundError
		forbidden  *scheduler.ForbiddenError
		conflict   *scheduler.ConflictError
		validation *scheduler.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", notFound.Error())
	case errors.As(err, &forbidden):
		s.respondError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden")
	case errors.As(err, &conflict):
		s.respondError(w, http.StatusConflict, "CONFLICT", conflict.Error())
	case errors.As(err, &validation):
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", validation.Error())
	default:
		s.logger.Error("request failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Internal Server Error")
	}
}
