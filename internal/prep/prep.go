// Package prep pre-generates question selections in the background.
// Session completion enqueues a generate-next-session job; the worker
// computes tomorrow's selection for the user and caches it for external
// consumers. Delivery is at-most-once: a full queue drops the job.
package prep

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pruvi/pruvi/internal/domain"
	"github.com/pruvi/pruvi/internal/scheduler"
)

// ErrQueueFull is returned when a job is dropped because the queue has
// no capacity left. Callers treat enqueueing as best-effort.
var ErrQueueFull = errors.New("prep queue full")

// Selector computes a question selection for a user.
type Selector interface {
	SelectQuestions(ctx context.Context, userID string, count int) ([]domain.PublicQuestion, error)
}

// Store persists prepared selections.
type Store interface {
	SavePreparedSession(ctx context.Context, userID, date string, questionIDs []int64) error
	FindPreparedSession(ctx context.Context, userID, date string) ([]int64, error)
}

// Worker consumes prep jobs from an in-process queue. It implements
// scheduler.Enqueuer.
type Worker struct {
	jobs     chan scheduler.Job
	selector Selector
	store    Store
	count    int
	logger   *slog.Logger
	now      func() time.Time
}

// NewWorker builds a worker with the given queue capacity and selection
// size.
func NewWorker(selector Selector, store Store, queueSize, count int, logger *slog.Logger) *Worker {
	return &Worker{
		jobs:     make(chan scheduler.Job, queueSize),
		selector: selector,
		store:    store,
		count:    count,
		logger:   logger,
		now:      time.Now,
	}
}

// Enqueue hands a job to the worker without blocking. A full queue
// drops the job and reports ErrQueueFull.
func (w *Worker) Enqueue(job scheduler.Job) error {
	select {
	case w.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run consumes jobs until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-w.jobs:
			if err := w.process(ctx, job); err != nil {
				w.logger.Warn("prep job failed", "kind", job.Kind, "user_id", job.UserID, "error", err)
			}
		}
	}
}

func (w *Worker) process(ctx context.Context, job scheduler.Job) error {
	if job.Kind != scheduler.JobGenerateNextSession {
		w.logger.Warn("ignoring unknown job kind", "kind", job.Kind)
		return nil
	}

	tomorrow := w.now().UTC().Add(24 * time.Hour).Format(domain.SessionDateLayout)

	// A selection already prepared for that day wins; recomputing would
	// only churn the cache.
	existing, err := w.store.FindPreparedSession(ctx, job.UserID, tomorrow)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	selection, err := w.selector.SelectQuestions(ctx, job.UserID, w.count)
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(selection))
	for _, q := range selection {
		ids = append(ids, q.ID)
	}
	if err := w.store.SavePreparedSession(ctx, job.UserID, tomorrow, ids); err != nil {
		return err
	}

	w.logger.Info("prepared next session", "user_id", job.UserID, "date", tomorrow, "questions", len(ids))
	return nil
}
