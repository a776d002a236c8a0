package domain

import "time"

// ReviewLog records a single review outcome for a (user, question) pair.
// Logs are append-only: the newest log for a pair is that pair's current
// mastery state, and no log is ever updated or deleted.
type ReviewLog struct {
	ID           int64     `json:"-"`
	UserID       string    `json:"-"`
	QuestionID   int64     `json:"-"`
	Quality      int       `json:"-"`
	EaseFactor   float64   `json:"easeFactor"`
	Interval     int       `json:"interval"`
	Repetitions  int       `json:"repetitions"`
	NextReviewAt time.Time `json:"nextReviewAt"`
	CreatedAt    time.Time `json:"-"`
}
