package domain

import "time"

// SessionDateLayout is the calendar-date format a DailySession is keyed by.
const SessionDateLayout = "2006-01-02"

// DailySession is the bounded practice unit for one user on one UTC
// calendar date. At most one exists per (user, date); completion is a
// one-way transition.
type DailySession struct {
	ID                int64      `json:"id"`
	UserID            string     `json:"userId"`
	Date              string     `json:"date"`
	QuestionsAnswered int        `json:"questionsAnswered"`
	QuestionsCorrect  int        `json:"questionsCorrect"`
	CompletedAt       *time.Time `json:"completedAt"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// Completed reports whether the session has reached its terminal state.
func (s DailySession) Completed() bool {
	return s.CompletedAt != nil
}

// SessionStats summarizes a user's completed sessions.
type SessionStats struct {
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
	TotalSessions int `json:"totalSessions"`
}
