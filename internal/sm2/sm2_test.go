package sm2

import (
	"math"
	"testing"
	"time"
)

func TestAdvanceFirstCorrectAnswer(t *testing.T) {
	now := time.Now()
	out := Advance(DefaultState(), 3, now)

	if out.Interval != 1 {
		t.Errorf("Expected interval 1 for first pass, got %d", out.Interval)
	}
	if out.Repetitions != 1 {
		t.Errorf("Expected repetitions 1 for first pass, got %d", out.Repetitions)
	}
}

func TestAdvanceSecondCorrectAnswer(t *testing.T) {
	now := time.Now()
	first := Advance(DefaultState(), 4, now)
	second := Advance(first.State, 4, now)

	if second.Interval != 6 {
		t.Errorf("Expected interval 6 for second pass, got %d", second.Interval)
	}
	if second.Repetitions != 2 {
		t.Errorf("Expected repetitions 2 for second pass, got %d", second.Repetitions)
	}
}

func TestAdvanceThirdCorrectAnswerMultipliesInterval(t *testing.T) {
	now := time.Now()
	first := Advance(DefaultState(), 4, now)
	second := Advance(first.State, 4, now)
	third := Advance(second.State, 4, now)

	expected := int(math.Round(6 * second.EaseFactor))
	if third.Interval != expected {
		t.Errorf("Expected interval round(6 * %.2f) = %d, got %d", second.EaseFactor, expected, third.Interval)
	}
	if third.Repetitions != 3 {
		t.Errorf("Expected repetitions 3, got %d", third.Repetitions)
	}
}

func TestAdvanceFailureResetsProgress(t *testing.T) {
	now := time.Now()
	progressed := Advance(DefaultState(), QualityCorrect, now)

	for _, quality := range []int{0, 1, 2} {
		out := Advance(progressed.State, quality, now)
		if out.Repetitions != 0 {
			t.Errorf("quality %d: expected repetitions reset to 0, got %d", quality, out.Repetitions)
		}
		if out.Interval != 1 {
			t.Errorf("quality %d: expected interval reset to 1, got %d", quality, out.Interval)
		}
		if out.EaseFactor != progressed.EaseFactor {
			t.Errorf("quality %d: expected ease unchanged at %.2f, got %.2f", quality, progressed.EaseFactor, out.EaseFactor)
		}
	}
}

func TestAdvanceEaseFloorHoldsUnderIteration(t *testing.T) {
	now := time.Now()
	state := DefaultState()

	// Alternate passes at minimum passing quality, which is what
	// actually pulls ease down; failures leave it untouched.
	for i := 0; i < 20; i++ {
		state = Advance(state, passingQuality, now).State
		if state.EaseFactor < MinEaseFactor {
			t.Fatalf("iteration %d: ease %.4f dropped below floor %.2f", i, state.EaseFactor, MinEaseFactor)
		}
		state = Advance(state, QualityWrong, now).State
		if state.EaseFactor < MinEaseFactor {
			t.Fatalf("iteration %d: ease %.4f dropped below floor %.2f after failure", i, state.EaseFactor, MinEaseFactor)
		}
	}
}

func TestAdvanceEaseGrowsOnPerfectAnswers(t *testing.T) {
	now := time.Now()
	state := DefaultState()
	prevEase := state.EaseFactor

	for i := 0; i < 4; i++ {
		state = Advance(state, QualityCorrect, now).State
		if state.EaseFactor <= prevEase {
			t.Fatalf("step %d: expected ease to grow past %.4f, got %.4f", i, prevEase, state.EaseFactor)
		}
		prevEase = state.EaseFactor
	}
}

func TestAdvancePerfectBeatsBarelyPassing(t *testing.T) {
	now := time.Now()
	q5 := Advance(DefaultState(), 5, now)
	q3 := Advance(DefaultState(), 3, now)

	if q5.EaseFactor <= q3.EaseFactor {
		t.Errorf("Expected quality 5 ease %.4f to exceed quality 3 ease %.4f", q5.EaseFactor, q3.EaseFactor)
	}
}

func TestAdvanceQuality5LeavesEaseExactly(t *testing.T) {
	now := time.Now()
	out := Advance(State{Repetitions: 2, EaseFactor: 2.5, Interval: 6}, 5, now)

	// (5-q) penalty vanishes at q=5, so ease moves by exactly +0.1.
	if math.Abs(out.EaseFactor-2.6) > 1e-9 {
		t.Errorf("Expected ease 2.6 after a perfect answer, got %.6f", out.EaseFactor)
	}
	if out.Interval != 15 {
		t.Errorf("Expected interval round(6*2.5)=15, got %d", out.Interval)
	}
}

func TestAdvanceNextReviewAtIsInTheFuture(t *testing.T) {
	now := time.Now()
	out := Advance(DefaultState(), 3, now)

	if out.Interval <= 0 {
		t.Fatalf("Expected positive interval, got %d", out.Interval)
	}
	if !out.NextReviewAt.After(now) {
		t.Errorf("Expected next review %v to be after %v", out.NextReviewAt, now)
	}
	expected := now.Add(time.Duration(out.Interval) * 24 * time.Hour)
	if !out.NextReviewAt.Equal(expected) {
		t.Errorf("Expected next review at %v, got %v", expected, out.NextReviewAt)
	}
}

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	if s.Repetitions != 0 || s.Interval != 0 {
		t.Errorf("Expected fresh state to be due now, got %+v", s)
	}
	if s.EaseFactor != DefaultEaseFactor {
		t.Errorf("Expected default ease %.2f, got %.2f", DefaultEaseFactor, s.EaseFactor)
	}
}
