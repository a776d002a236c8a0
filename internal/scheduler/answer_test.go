package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecordAnswerFirstCorrect(t *testing.T) {
	store := newFakeStore()
	store.addQuestions(1, 2)
	svc := newTestService(store, &fakeQueue{}, time.Now())

	result, err := svc.RecordAnswer(context.Background(), "user-1", 1, 2)
	if err != nil {
		t.Fatalf("RecordAnswer returned error: %v", err)
	}
	if !result.Correct {
		t.Error("Expected answer to be graded correct")
	}
	if result.CorrectOption != 2 {
		t.Errorf("Expected revealed correct option 2, got %d", result.CorrectOption)
	}
	if result.ReviewLog.Repetitions != 1 || result.ReviewLog.Interval != 1 {
		t.Errorf("Expected repetitions=1 interval=1 for first pass, got %d/%d",
			result.ReviewLog.Repetitions, result.ReviewLog.Interval)
	}
	if result.ReviewLog.EaseFactor <= 2.5 {
		t.Errorf("Expected ease above default 2.5 after a perfect answer, got %.4f", result.ReviewLog.EaseFactor)
	}
	if len(store.logs) != 1 {
		t.Errorf("Expected exactly one review log appended, got %d", len(store.logs))
	}
}

func TestRecordAnswerFirstWrong(t *testing.T) {
	store := newFakeStore()
	store.addQuestions(1, 2)
	svc := newTestService(store, &fakeQueue{}, time.Now())

	result, err := svc.RecordAnswer(context.Background(), "user-1", 1, 0)
	if err != nil {
		t.Fatalf("RecordAnswer returned error: %v", err)
	}
	if result.Correct {
		t.Error("Expected answer to be graded wrong")
	}
	if result.ReviewLog.Repetitions != 0 || result.ReviewLog.Interval != 1 {
		t.Errorf("Expected repetitions=0 interval=1 after failure, got %d/%d",
			result.ReviewLog.Repetitions, result.ReviewLog.Interval)
	}
}

func TestRecordAnswerTwiceCorrectAdvancesLadder(t *testing.T) {
	store := newFakeStore()
	store.addQuestions(1, 0)
	svc := newTestService(store, &fakeQueue{}, time.Now())
	ctx := context.Background()

	if _, err := svc.RecordAnswer(ctx, "user-1", 1, 0); err != nil {
		t.Fatalf("First answer failed: %v", err)
	}
	second, err := svc.RecordAnswer(ctx, "user-1", 1, 0)
	if err != nil {
		t.Fatalf("Second answer failed: %v", err)
	}
	if second.ReviewLog.Repetitions != 2 || second.ReviewLog.Interval != 6 {
		t.Errorf("Expected repetitions=2 interval=6 on second pass, got %d/%d",
			second.ReviewLog.Repetitions, second.ReviewLog.Interval)
	}
	if len(store.logs) != 2 {
		t.Errorf("Expected two appended logs, got %d", len(store.logs))
	}
}

func TestRecordAnswerUsersAreIndependent(t *testing.T) {
	store := newFakeStore()
	store.addQuestions(1, 0)
	svc := newTestService(store, &fakeQueue{}, time.Now())
	ctx := context.Background()

	// User A builds up history on the question.
	for i := 0; i < 3; i++ {
		if _, err := svc.RecordAnswer(ctx, "user-a", 1, 0); err != nil {
			t.Fatalf("User A answer %d failed: %v", i, err)
		}
	}

	// User B's first answer still starts from the default state.
	result, err := svc.RecordAnswer(ctx, "user-b", 1, 0)
	if err != nil {
		t.Fatalf("User B answer failed: %v", err)
	}
	if result.ReviewLog.Repetitions != 1 || result.ReviewLog.Interval != 1 {
		t.Errorf("Expected user B to start fresh (1/1), got %d/%d",
			result.ReviewLog.Repetitions, result.ReviewLog.Interval)
	}
}

func TestRecordAnswerUnknownQuestion(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeQueue{}, time.Now())

	_, err := svc.RecordAnswer(context.Background(), "user-1", 42, 0)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}

func TestRecordAnswerOptionOutOfRange(t *testing.T) {
	store := newFakeStore()
	store.addQuestions(1, 0)
	svc := newTestService(store, &fakeQueue{}, time.Now())

	for _, idx := range []int{-1, 4, 10} {
		_, err := svc.RecordAnswer(context.Background(), "user-1", 1, idx)
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("index %d: expected ValidationError, got %v", idx, err)
		}
	}
	if len(store.logs) != 0 {
		t.Errorf("Rejected answers must not append logs, got %d", len(store.logs))
	}
}

func TestRecordAnswerNextReviewInFuture(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	store.addQuestions(1, 0)
	svc := newTestService(store, &fakeQueue{}, now)

	result, err := svc.RecordAnswer(context.Background(), "user-1", 1, 0)
	if err != nil {
		t.Fatalf("RecordAnswer returned error: %v", err)
	}
	if !result.ReviewLog.NextReviewAt.After(now) {
		t.Errorf("Expected next review %v after now %v", result.ReviewLog.NextReviewAt, now)
	}
}
