package sm2

import (
	"math"
	"time"
)

// Quality grades for the binary call sites. Advance accepts the full
// 0-5 SM-2 scale; the answer recorder only ever supplies these two.
const (
	QualityWrong   = 0
	QualityCorrect = 5
)

const (
	// MinEaseFactor is the floor below which ease never drops.
	MinEaseFactor = 1.3
	// DefaultEaseFactor is the ease assigned to a never-reviewed question.
	DefaultEaseFactor = 2.5

	passingQuality = 3
)

// State is the mastery state of one (user, question) pair.
type State struct {
	Repetitions int
	EaseFactor  float64
	Interval    int
}

// DefaultState is the implicit state of a pair with no review history:
// zero repetitions, default ease, due immediately.
func DefaultState() State {
	return State{Repetitions: 0, EaseFactor: DefaultEaseFactor, Interval: 0}
}

// Outcome is the result of advancing a state through one review.
type Outcome struct {
	State
	NextReviewAt time.Time
}

// Advance applies one review of the given quality to the prior state.
//
// A failing review (quality < 3) resets repetitions and schedules the
// question for tomorrow, leaving ease untouched: unlike textbook SM-2,
// a wrong answer never makes future intervals grow slower. A passing
// review advances the interval ladder (1 day, 6 days, then
// round(interval * ease)) and nudges ease by the quality penalty,
// floored at MinEaseFactor.
//
// Advance is pure and total: any quality in [0, 5] and any prior state
// with Repetitions >= 0, Interval >= 0, EaseFactor >= MinEaseFactor
// produces a valid outcome.
func Advance(prior State, quality int, now time.Time) Outcome {
	next := State{EaseFactor: prior.EaseFactor}

	if quality < passingQuality {
		next.Repetitions = 0
		next.Interval = 1
	} else {
		switch prior.Repetitions {
		case 0:
			next.Interval = 1
		case 1:
			next.Interval = 6
		default:
			next.Interval = int(math.Round(float64(prior.Interval) * prior.EaseFactor))
		}
		next.Repetitions = prior.Repetitions + 1

		penalty := float64(5 - quality)
		next.EaseFactor = prior.EaseFactor + 0.1 - penalty*(0.08+penalty*0.02)
		if next.EaseFactor < MinEaseFactor {
			next.EaseFactor = MinEaseFactor
		}
	}

	return Outcome{
		State:        next,
		NextReviewAt: now.Add(time.Duration(next.Interval) * 24 * time.Hour),
	}
}
