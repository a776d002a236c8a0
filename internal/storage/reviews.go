package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pruvi/pruvi/internal/domain"
)

const reviewColumns = `id, user_id, question_id, quality, ease_factor, interval, repetitions, next_review_at, created_at`

// LatestReviewLog returns the newest review log for a (user, question)
// pair, or nil if the pair has never been reviewed.
func (db *DB) LatestReviewLog(ctx context.Context, userID string, questionID int64) (*domain.ReviewLog, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+reviewColumns+`
		FROM review_log
		WHERE user_id = ? AND question_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID, questionID)

	log, err := scanReviewLog(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Pair never reviewed
		}
		return nil, fmt.Errorf("failed to find latest review for user %s question %d: %w", userID, questionID, err)
	}
	return log, nil
}

// ReviewLogsByUser returns all of a user's review logs, newest first.
// Callers derive per-question state by keeping the first log they see
// for each question id.
func (db *DB) ReviewLogsByUser(ctx context.Context, userID string) ([]domain.ReviewLog, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+reviewColumns+`
		FROM review_log
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for user %s: %w", userID, err)
	}
	defer rows.Close()

	var logs []domain.ReviewLog
	for rows.Next() {
		log, err := scanReviewLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		logs = append(logs, *log)
	}
	return logs, rows.Err()
}

// RecordReview appends one review log computed from the pair's latest
// state. The latest-state read and the insert share a transaction, so
// two concurrent answers for the same pair cannot both advance from the
// same stale state: sqlite admits a single writer and the second caller
// re-reads after the first commits.
func (db *DB) RecordReview(ctx context.Context, userID string, questionID int64, advance func(prior *domain.ReviewLog) domain.ReviewLog) (domain.ReviewLog, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return domain.ReviewLog{}, fmt.Errorf("failed to begin review transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+reviewColumns+`
		FROM review_log
		WHERE user_id = ? AND question_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID, questionID)

	prior, err := scanReviewLog(row)
	if err != nil && err != sql.ErrNoRows {
		return domain.ReviewLog{}, fmt.Errorf("failed to read prior review in transaction: %w", err)
	}

	log := advance(prior)
	log.UserID = userID
	log.QuestionID = questionID
	log.CreatedAt = time.Now().UTC()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO review_log (user_id, question_id, quality, ease_factor, interval, repetitions, next_review_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		log.UserID,
		log.QuestionID,
		log.Quality,
		log.EaseFactor,
		log.Interval,
		log.Repetitions,
		log.NextReviewAt,
		log.CreatedAt,
	)
	if err != nil {
		return domain.ReviewLog{}, fmt.Errorf("failed to insert review log: %w", err)
	}
	if log.ID, err = res.LastInsertId(); err != nil {
		return domain.ReviewLog{}, fmt.Errorf("failed to get inserted review id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.ReviewLog{}, fmt.Errorf("failed to commit review: %w", err)
	}
	return log, nil
}

func scanReviewLog(row rowScanner) (*domain.ReviewLog, error) {
	var log domain.ReviewLog
	if err := row.Scan(
		&log.ID,
		&log.UserID,
		&log.QuestionID,
		&log.Quality,
		&log.EaseFactor,
		&log.Interval,
		&log.Repetitions,
		&log.NextReviewAt,
		&log.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &log, nil
}
