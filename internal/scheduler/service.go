// Package scheduler is the review-scheduling engine: it decides which
// questions a user sees next, owns the daily-session lifecycle, and
// records answers through the SM-2 calculator. Persistence and job
// delivery are collaborators behind the interfaces below.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/pruvi/pruvi/internal/domain"
)

// QuestionStore is the catalog read surface the engine needs.
type QuestionStore interface {
	FindQuestionByID(ctx context.Context, id int64) (*domain.Question, error)
	QuestionsByIDs(ctx context.Context, ids []int64, limit int) ([]domain.Question, error)
	QuestionsExcluding(ctx context.Context, excluded []int64, limit int) ([]domain.Question, error)
}

// ReviewStore is the append-only review history. RecordReview must read
// the pair's latest log and append the advanced one atomically.
type ReviewStore interface {
	ReviewLogsByUser(ctx context.Context, userID string) ([]domain.ReviewLog, error)
	RecordReview(ctx context.Context, userID string, questionID int64, advance func(prior *domain.ReviewLog) domain.ReviewLog) (domain.ReviewLog, error)
}

// SessionStore persists daily sessions. CompleteSession must be a
// conditional update that reports whether it won the transition.
type SessionStore interface {
	CreateSession(ctx context.Context, userID, date string) (domain.DailySession, error)
	FindSessionByUserAndDate(ctx context.Context, userID, date string) (*domain.DailySession, error)
	FindSessionByID(ctx context.Context, id int64) (*domain.DailySession, error)
	CompleteSession(ctx context.Context, id int64, answered, correct int, completedAt time.Time) (bool, error)
	CompletedSessionDates(ctx context.Context, userID string) ([]string, error)
}

// Store is the full persistence surface, satisfied by *storage.DB.
type Store interface {
	QuestionStore
	ReviewStore
	SessionStore
}

// JobGenerateNextSession asks the prep worker to pre-compute a user's
// next selection.
const JobGenerateNextSession = "generate-next-session"

// Job is an outbound fire-and-forget message.
type Job struct {
	Kind   string
	UserID string
}

// Enqueuer hands jobs to the background queue. Enqueue failures are
// best-effort from the engine's point of view and are never propagated
// to callers.
type Enqueuer interface {
	Enqueue(job Job) error
}

// Service is the scheduling engine.
type Service struct {
	store  Store
	queue  Enqueuer
	logger *slog.Logger
	now    func() time.Time
}

// New builds a Service over its collaborators.
func New(store Store, queue Enqueuer, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		queue:  queue,
		logger: logger,
		now:    time.Now,
	}
}

// SetQueue wires the job queue after construction. The prep worker
// selects questions through the Service, so the two reference each
// other and one side has to be attached late.
func (s *Service) SetQueue(queue Enqueuer) {
	s.queue = queue
}

func (s *Service) today() string {
	return s.now().UTC().Format(domain.SessionDateLayout)
}
