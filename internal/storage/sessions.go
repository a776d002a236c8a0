package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pruvi/pruvi/internal/domain"
)

const sessionColumns = `id, user_id, date, questions_answered, questions_correct, completed_at, created_at`

// CreateSession inserts a new in-progress session for (user, date).
// The UNIQUE(user_id, date) index rejects a second row for the same day.
func (db *DB) CreateSession(ctx context.Context, userID, date string) (domain.DailySession, error) {
	now := time.Now().UTC()
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO daily_session (user_id, date, questions_answered, questions_correct, created_at)
		VALUES (?, ?, 0, 0, ?)
	`, userID, date, now)
	if err != nil {
		return domain.DailySession{}, fmt.Errorf("failed to create session for user %s on %s: %w", userID, date, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.DailySession{}, fmt.Errorf("failed to get created session id: %w", err)
	}
	return domain.DailySession{
		ID:        id,
		UserID:    userID,
		Date:      date,
		CreatedAt: now,
	}, nil
}

// FindSessionByUserAndDate returns the session for (user, date), or nil
// if none exists.
func (db *DB) FindSessionByUserAndDate(ctx context.Context, userID, date string) (*domain.DailySession, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM daily_session
		WHERE user_id = ? AND date = ?
	`, userID, date)
	s, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No session that day
		}
		return nil, fmt.Errorf("failed to find session for user %s on %s: %w", userID, date, err)
	}
	return s, nil
}

// FindSessionByID returns a session by id, or nil if it does not exist.
func (db *DB) FindSessionByID(ctx context.Context, id int64) (*domain.DailySession, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM daily_session WHERE id = ?
	`, id)
	s, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session %d: %w", id, err)
	}
	return s, nil
}

// CompleteSession sets the completion fields iff the session is still in
// progress. The completed_at guard makes the transition one-way under
// concurrent completion attempts; the returned bool reports whether this
// call won the update.
func (db *DB) CompleteSession(ctx context.Context, id int64, answered, correct int, completedAt time.Time) (bool, error) {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE daily_session
		SET questions_answered = ?, questions_correct = ?, completed_at = ?
		WHERE id = ? AND completed_at IS NULL
	`, answered, correct, completedAt, id)
	if err != nil {
		return false, fmt.Errorf("failed to complete session %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read completion result for session %d: %w", id, err)
	}
	return n == 1, nil
}

// CompletedSessionDates returns the dates of a user's completed sessions,
// newest first.
func (db *DB) CompletedSessionDates(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT date FROM daily_session
		WHERE user_id = ? AND completed_at IS NOT NULL
		ORDER BY date DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed sessions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan session date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// SavePreparedSession stores a pre-generated selection for (user, date).
// A selection already stored for that day wins; the new one is dropped,
// keeping the prep worker idempotent.
func (db *DB) SavePreparedSession(ctx context.Context, userID, date string, questionIDs []int64) error {
	ids, err := json.Marshal(questionIDs)
	if err != nil {
		return fmt.Errorf("failed to encode prepared question ids: %w", err)
	}
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO prepared_session (user_id, date, question_ids, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO NOTHING
	`, userID, date, string(ids), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save prepared session for user %s on %s: %w", userID, date, err)
	}
	return nil
}

// FindPreparedSession returns the pre-generated question ids for
// (user, date), or nil if none were prepared.
func (db *DB) FindPreparedSession(ctx context.Context, userID, date string) ([]int64, error) {
	var ids string
	row := db.conn.QueryRowContext(ctx, `
		SELECT question_ids FROM prepared_session
		WHERE user_id = ? AND date = ?
	`, userID, date)
	if err := row.Scan(&ids); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find prepared session for user %s on %s: %w", userID, date, err)
	}

	var questionIDs []int64
	if err := json.Unmarshal([]byte(ids), &questionIDs); err != nil {
		return nil, fmt.Errorf("corrupt prepared session for user %s on %s: %w", userID, date, err)
	}
	return questionIDs, nil
}

func scanSession(row rowScanner) (*domain.DailySession, error) {
	var (
		s           domain.DailySession
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Date,
		&s.QuestionsAnswered,
		&s.QuestionsCorrect,
		&completedAt,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		s.CompletedAt = &t
	}
	return &s, nil
}
