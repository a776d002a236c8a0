package scheduler

import (
	"context"
	"time"

	"github.com/pruvi/pruvi/internal/domain"
)

// SessionStats summarizes a user's completed sessions: total count,
// longest run of consecutive days, and the current run. The current
// streak counts back from today, or from yesterday when today's session
// is still open, so it does not reset mid-day.
func (s *Service) SessionStats(ctx context.Context, userID string) (domain.SessionStats, error) {
	dates, err := s.store.CompletedSessionDates(ctx, userID)
	if err != nil {
		return domain.SessionStats{}, &StorageError{Err: err}
	}

	stats := domain.SessionStats{TotalSessions: len(dates)}
	if len(dates) == 0 {
		return stats, nil
	}

	// Dates arrive newest first as YYYY-MM-DD strings.
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day, err := time.Parse(domain.SessionDateLayout, d)
		if err != nil {
			return domain.SessionStats{}, &StorageError{Err: err}
		}
		days = append(days, day)
	}

	run := 1
	longest := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	stats.LongestStreak = longest

	today := s.now().UTC().Truncate(24 * time.Hour)
	gap := today.Sub(days[0])
	if gap == 0 || gap == 24*time.Hour {
		current := 1
		for i := 1; i < len(days); i++ {
			if days[i-1].Sub(days[i]) != 24*time.Hour {
				break
			}
			current++
		}
		stats.CurrentStreak = current
	}
	return stats, nil
}
