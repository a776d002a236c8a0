package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/pruvi/pruvi/internal/domain"
)

// fakeStore is an in-memory Store mirroring the storage layer's query
// semantics: catalog order is id order, review logs come back newest
// first, and session completion is a compare-and-set on completed_at.
type fakeStore struct {
	questions map[int64]domain.Question
	logs      []domain.ReviewLog
	sessions  map[int64]*domain.DailySession
	nextSess  int64
	nextLog   int64
	failWith  error

	// staleReads makes session lookups hide completed_at, simulating a
	// concurrent completion landing between a read and the conditional
	// update.
	staleReads bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		questions: make(map[int64]domain.Question),
		sessions:  make(map[int64]*domain.DailySession),
	}
}

func (f *fakeStore) addQuestions(n int, correctOption int) {
	for i := 0; i < n; i++ {
		id := int64(len(f.questions) + 1)
		f.questions[id] = domain.Question{
			ID:            id,
			Body:          fmt.Sprintf("Question %d?", id),
			Options:       []string{"A", "B", "C", "D"},
			CorrectOption: correctOption,
			Difficulty:    1,
			SubjectID:     1,
		}
	}
}

func (f *fakeStore) sortedIDs() []int64 {
	ids := make([]int64, 0, len(f.questions))
	for id := range f.questions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fakeStore) FindQuestionByID(_ context.Context, id int64) (*domain.Question, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	q, ok := f.questions[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (f *fakeStore) QuestionsByIDs(_ context.Context, ids []int64, limit int) ([]domain.Question, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Question
	for _, id := range f.sortedIDs() {
		if want[id] && len(out) < limit {
			out = append(out, f.questions[id])
		}
	}
	return out, nil
}

func (f *fakeStore) QuestionsExcluding(_ context.Context, excluded []int64, limit int) ([]domain.Question, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	skip := make(map[int64]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	var out []domain.Question
	for _, id := range f.sortedIDs() {
		if !skip[id] && len(out) < limit {
			out = append(out, f.questions[id])
		}
	}
	return out, nil
}

func (f *fakeStore) ReviewLogsByUser(_ context.Context, userID string) ([]domain.ReviewLog, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []domain.ReviewLog
	for i := len(f.logs) - 1; i >= 0; i-- {
		if f.logs[i].UserID == userID {
			out = append(out, f.logs[i])
		}
	}
	return out, nil
}

func (f *fakeStore) RecordReview(_ context.Context, userID string, questionID int64, advance func(prior *domain.ReviewLog) domain.ReviewLog) (domain.ReviewLog, error) {
	if f.failWith != nil {
		return domain.ReviewLog{}, f.failWith
	}
	var prior *domain.ReviewLog
	for i := len(f.logs) - 1; i >= 0; i-- {
		if f.logs[i].UserID == userID && f.logs[i].QuestionID == questionID {
			prior = &f.logs[i]
			break
		}
	}
	log := advance(prior)
	f.nextLog++
	log.ID = f.nextLog
	log.UserID = userID
	log.QuestionID = questionID
	log.CreatedAt = time.Now().UTC()
	f.logs = append(f.logs, log)
	return log, nil
}

func (f *fakeStore) CreateSession(_ context.Context, userID, date string) (domain.DailySession, error) {
	if f.failWith != nil {
		return domain.DailySession{}, f.failWith
	}
	f.nextSess++
	s := &domain.DailySession{
		ID:        f.nextSess,
		UserID:    userID,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}
	f.sessions[s.ID] = s
	return *s, nil
}

func (f *fakeStore) FindSessionByUserAndDate(_ context.Context, userID, date string) (*domain.DailySession, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, s := range f.sessions {
		if s.UserID == userID && s.Date == date {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindSessionByID(_ context.Context, id int64) (*domain.DailySession, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	if f.staleReads {
		copied.CompletedAt = nil
	}
	return &copied, nil
}

func (f *fakeStore) CompleteSession(_ context.Context, id int64, answered, correct int, completedAt time.Time) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	s, ok := f.sessions[id]
	if !ok || s.CompletedAt != nil {
		return false, nil
	}
	s.QuestionsAnswered = answered
	s.QuestionsCorrect = correct
	s.CompletedAt = &completedAt
	return true, nil
}

func (f *fakeStore) CompletedSessionDates(_ context.Context, userID string) ([]string, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var dates []string
	for _, s := range f.sessions {
		if s.UserID == userID && s.CompletedAt != nil {
			dates = append(dates, s.Date)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

type fakeQueue struct {
	jobs    []Job
	failErr error
}

func (q *fakeQueue) Enqueue(job Job) error {
	if q.failErr != nil {
		return q.failErr
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func newTestService(store *fakeStore, queue *fakeQueue, now time.Time) *Service {
	svc := New(store, queue, slog.New(slog.DiscardHandler))
	svc.now = func() time.Time { return now }
	return svc
}
