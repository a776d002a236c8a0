package scheduler

import (
	"context"
	"fmt"

	"github.com/pruvi/pruvi/internal/domain"
	"github.com/pruvi/pruvi/internal/sm2"
)

// AnswerResult reveals the authoritative correct option together with
// the pair's new mastery state.
type AnswerResult struct {
	Correct       bool             `json:"correct"`
	CorrectOption int              `json:"correctOptionIndex"`
	ReviewLog     domain.ReviewLog `json:"reviewLog"`
}

// RecordAnswer grades a submitted answer against the stored correct
// option, advances the (user, question) mastery state through SM-2 with
// a binary quality (5 correct, 0 wrong), and appends exactly one review
// log. The prior state is the pair's latest log, or the SM-2 default
// for a never-reviewed pair; the latest-state read and the append share
// a storage transaction.
func (s *Service) RecordAnswer(ctx context.Context, userID string, questionID int64, selectedOption int) (AnswerResult, error) {
	question, err := s.store.FindQuestionByID(ctx, questionID)
	if err != nil {
		return AnswerResult{}, &StorageError{Err: err}
	}
	if question == nil {
		return AnswerResult{}, &NotFoundError{Resource: "question", ID: questionID}
	}
	if selectedOption < 0 || selectedOption >= len(question.Options) {
		return AnswerResult{}, &ValidationError{
			Message: fmt.Sprintf("selected option %d out of range [0, %d)", selectedOption, len(question.Options)),
		}
	}

	correct := selectedOption == question.CorrectOption
	quality := sm2.QualityWrong
	if correct {
		quality = sm2.QualityCorrect
	}

	log, err := s.store.RecordReview(ctx, userID, questionID, func(prior *domain.ReviewLog) domain.ReviewLog {
		state := sm2.DefaultState()
		if prior != nil {
			state = sm2.State{
				Repetitions: prior.Repetitions,
				EaseFactor:  prior.EaseFactor,
				Interval:    prior.Interval,
			}
		}
		out := sm2.Advance(state, quality, s.now())
		return domain.ReviewLog{
			Quality:      quality,
			EaseFactor:   out.EaseFactor,
			Interval:     out.Interval,
			Repetitions:  out.Repetitions,
			NextReviewAt: out.NextReviewAt,
		}
	})
	if err != nil {
		return AnswerResult{}, &StorageError{Err: err}
	}

	return AnswerResult{
		Correct:       correct,
		CorrectOption: question.CorrectOption,
		ReviewLog:     log,
	}, nil
}
