package scheduler

import (
	"context"

	"github.com/pruvi/pruvi/internal/domain"
)

// SelectQuestions assembles up to count questions for a user: every due
// question first (latest review's next-review instant has passed), then
// never-reviewed questions in catalog order as filler. Questions that
// were reviewed but are not yet due are never used as filler, so a
// partially learned item cannot resurface early. The result hides each
// question's correct option and may be shorter than count when the
// catalog runs out.
func (s *Service) SelectQuestions(ctx context.Context, userID string, count int) ([]domain.PublicQuestion, error) {
	if count <= 0 {
		return nil, nil
	}

	logs, err := s.store.ReviewLogsByUser(ctx, userID)
	if err != nil {
		return nil, &StorageError{Err: err}
	}

	// Logs arrive newest first; the first log seen per question is that
	// question's current state.
	latest := make(map[int64]domain.ReviewLog)
	for _, log := range logs {
		if _, seen := latest[log.QuestionID]; !seen {
			latest[log.QuestionID] = log
		}
	}

	now := s.now()
	var dueIDs, reviewedIDs []int64
	for id, log := range latest {
		reviewedIDs = append(reviewedIDs, id)
		if !log.NextReviewAt.After(now) {
			dueIDs = append(dueIDs, id)
		}
	}

	var due []domain.Question
	if len(dueIDs) > 0 {
		due, err = s.store.QuestionsByIDs(ctx, dueIDs, count)
		if err != nil {
			return nil, &StorageError{Err: err}
		}
	}

	var fresh []domain.Question
	if remaining := count - len(due); remaining > 0 {
		fresh, err = s.store.QuestionsExcluding(ctx, reviewedIDs, remaining)
		if err != nil {
			return nil, &StorageError{Err: err}
		}
	}

	selection := make([]domain.PublicQuestion, 0, len(due)+len(fresh))
	for _, q := range due {
		selection = append(selection, q.Public())
	}
	for _, q := range fresh {
		selection = append(selection, q.Public())
	}
	return selection, nil
}
