package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/pruvi/pruvi/internal/domain"
	"github.com/pruvi/pruvi/internal/sync"
)

type startSessionRequest struct {
	Count int `json:"count" validate:"omitempty,min=1,max=50"`
}

type completeSessionRequest struct {
	QuestionsAnswered int `json:"questionsAnswered" validate:"min=0"`
	QuestionsCorrect  int `json:"questionsCorrect" validate:"min=0,ltefield=QuestionsAnswered"`
}

type answerRequest struct {
	// Pointer so a missing field is distinguishable from option 0.
	SelectedOptionIndex *int `json:"selectedOptionIndex" validate:"required,min=0"`
}

// decodeValid decodes a JSON body into v and runs validation. An empty
// body is accepted when allowEmpty is set, leaving v zeroed.
func (s *Server) decodeValid(r *http.Request, v any, allowEmpty bool) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if allowEmpty && (errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)) {
			return nil
		}
		return errors.New("invalid request body")
	}
	if err := s.validate.Struct(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := s.decodeValid(r, &req, true); err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	count := req.Count
	if count == 0 {
		count = s.count
	}

	result, err := s.engine.StartSession(r.Context(), userID(r), count)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid session id")
		return
	}

	var req completeSessionRequest
	if err := s.decodeValid(r, &req, false); err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	session, err := s.engine.CompleteSession(r.Context(), sessionID, userID(r), req.QuestionsAnswered, req.QuestionsCorrect)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleTodaySession(w http.ResponseWriter, r *http.Request) {
	session, err := s.engine.TodaySession(r.Context(), userID(r))
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	if session == nil {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "No session today")
		return
	}
	s.respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.SessionStats(r.Context(), userID(r))
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid question id")
		return
	}

	var req answerRequest
	if err := s.decodeValid(r, &req, false); err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := s.engine.RecordAnswer(r.Context(), userID(r), questionID, *req.SelectedOptionIndex)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.db.SubjectsWithCount(r.Context())
	if err != nil {
		s.logger.Error("failed to list subjects", "error", err)
		s.respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Internal Server Error")
		return
	}
	if subjects == nil {
		subjects = []domain.SubjectWithCount{}
	}
	s.respondJSON(w, http.StatusOK, subjects)
}

// handleSync runs a source sync in the foreground so the caller sees
// the outcome.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if err := sync.RunSync(r.Context(), s.db, s.reposDir); err != nil {
		s.logger.Error("sync failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Sync failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
