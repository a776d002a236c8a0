package scheduler

import (
	"context"

	"github.com/pruvi/pruvi/internal/domain"
)

// StartSessionResult pairs a session with its question selection.
type StartSessionResult struct {
	Session   domain.DailySession     `json:"session"`
	Questions []domain.PublicQuestion `json:"questions"`
}

// StartSession returns today's session for the user, creating it on the
// first call of the day. Repeat calls resume the same session, so the
// returned id is stable within a day; the question selection is
// recomputed fresh on every call.
func (s *Service) StartSession(ctx context.Context, userID string, count int) (StartSessionResult, error) {
	existing, err := s.store.FindSessionByUserAndDate(ctx, userID, s.today())
	if err != nil {
		return StartSessionResult{}, &StorageError{Err: err}
	}

	session := existing
	if session == nil {
		created, err := s.store.CreateSession(ctx, userID, s.today())
		if err != nil {
			return StartSessionResult{}, &StorageError{Err: err}
		}
		session = &created
	}

	questions, err := s.SelectQuestions(ctx, userID, count)
	if err != nil {
		return StartSessionResult{}, err
	}
	return StartSessionResult{Session: *session, Questions: questions}, nil
}

// CompleteSession records the outcome of a finished session. Existence
// is checked before ownership so an unauthorized caller learns only
// what a 404 would reveal anyway; completion itself is a conditional
// update, so a concurrent duplicate request loses and gets a conflict.
// On success a generate-next-session job is enqueued best-effort: a
// failed enqueue is logged and swallowed.
func (s *Service) CompleteSession(ctx context.Context, sessionID int64, userID string, answered, correct int) (domain.DailySession, error) {
	if answered < 0 || correct < 0 || correct > answered {
		return domain.DailySession{}, &ValidationError{Message: "invalid answered/correct counts"}
	}

	session, err := s.store.FindSessionByID(ctx, sessionID)
	if err != nil {
		return domain.DailySession{}, &StorageError{Err: err}
	}
	if session == nil {
		return domain.DailySession{}, &NotFoundError{Resource: "session", ID: sessionID}
	}
	if session.UserID != userID {
		return domain.DailySession{}, &ForbiddenError{}
	}
	if session.Completed() {
		return domain.DailySession{}, &ConflictError{Message: "session already completed"}
	}

	completedAt := s.now().UTC()
	won, err := s.store.CompleteSession(ctx, sessionID, answered, correct, completedAt)
	if err != nil {
		return domain.DailySession{}, &StorageError{Err: err}
	}
	if !won {
		// Lost the conditional update to a concurrent completion.
		return domain.DailySession{}, &ConflictError{Message: "session already completed"}
	}

	if s.queue != nil {
		if err := s.queue.Enqueue(Job{Kind: JobGenerateNextSession, UserID: userID}); err != nil {
			s.logger.Warn("failed to enqueue next-session prep", "user_id", userID, "error", err)
		}
	}

	session.QuestionsAnswered = answered
	session.QuestionsCorrect = correct
	session.CompletedAt = &completedAt
	return *session, nil
}

// TodaySession returns today's session for the user, or nil if none
// exists yet.
func (s *Service) TodaySession(ctx context.Context, userID string) (*domain.DailySession, error) {
	session, err := s.store.FindSessionByUserAndDate(ctx, userID, s.today())
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return session, nil
}
