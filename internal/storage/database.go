package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pruvi/pruvi/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB wraps the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// UpsertSubject inserts a subject if its slug is new and returns the
// stored row either way.
func (db *DB) UpsertSubject(ctx context.Context, name, slug string) (domain.Subject, error) {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO subject (name, slug, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(slug) DO NOTHING
	`, name, slug, time.Now().UTC())
	if err != nil {
		return domain.Subject{}, fmt.Errorf("failed to upsert subject %s: %w", slug, err)
	}

	var s domain.Subject
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, name, slug FROM subject WHERE slug = ?
	`, slug)
	if err := row.Scan(&s.ID, &s.Name, &s.Slug); err != nil {
		return domain.Subject{}, fmt.Errorf("failed to read subject %s: %w", slug, err)
	}
	return s, nil
}

// SubjectsWithCount returns every subject with its catalog size, ordered
// by name.
func (db *DB) SubjectsWithCount(ctx context.Context) ([]domain.SubjectWithCount, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT s.id, s.name, s.slug, COUNT(q.id)
		FROM subject s
		LEFT JOIN question q ON q.subject_id = s.id
		GROUP BY s.id, s.name, s.slug
		ORDER BY s.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []domain.SubjectWithCount
	for rows.Next() {
		var s domain.SubjectWithCount
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.QuestionCount); err != nil {
			return nil, fmt.Errorf("failed to scan subject row: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// InsertQuestion adds a seeded question to the catalog and returns its id.
func (db *DB) InsertQuestion(ctx context.Context, seed domain.QuestionSeed, subjectID int64, hash string) (int64, error) {
	options, err := json.Marshal(seed.Options)
	if err != nil {
		return 0, fmt.Errorf("failed to encode options for %s: %w", hash, err)
	}

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO question (body, options, correct_option, difficulty, source, subject_id, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		seed.Body,
		string(options),
		seed.CorrectOption,
		seed.Difficulty,
		nullString(seed.Source),
		subjectID,
		hash,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert question %s: %w", hash, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted question id for %s: %w", hash, err)
	}
	return id, nil
}

const questionColumns = `id, body, options, correct_option, difficulty, source, subject_id, content_hash, created_at`

// FindQuestionByID retrieves a question by id, or nil if it does not exist.
func (db *DB) FindQuestionByID(ctx context.Context, id int64) (*domain.Question, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+questionColumns+` FROM question WHERE id = ?
	`, id)
	q, err := scanQuestion(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Question not found
		}
		return nil, fmt.Errorf("failed to find question %d: %w", id, err)
	}
	return q, nil
}

// FindQuestionByHash retrieves a question by content hash, or nil if the
// hash is unknown.
func (db *DB) FindQuestionByHash(ctx context.Context, hash string) (*domain.Question, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+questionColumns+` FROM question WHERE content_hash = ?
	`, hash)
	q, err := scanQuestion(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find question by hash %s: %w", hash, err)
	}
	return q, nil
}

// QuestionsByIDs returns up to limit questions among the given ids, in
// catalog (id) order.
func (db *DB) QuestionsByIDs(ctx context.Context, ids []int64, limit int) ([]domain.Question, error) {
	if len(ids) == 0 || limit <= 0 {
		return nil, nil
	}

	query := `SELECT ` + questionColumns + ` FROM question WHERE id IN (` +
		placeholders(len(ids)) + `) ORDER BY id LIMIT ?`
	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, limit)

	return db.queryQuestions(ctx, query, args...)
}

// QuestionsExcluding returns up to limit questions whose ids are not in
// the excluded set, in catalog (id) order. An empty excluded set returns
// the head of the catalog.
func (db *DB) QuestionsExcluding(ctx context.Context, excluded []int64, limit int) ([]domain.Question, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `SELECT ` + questionColumns + ` FROM question`
	args := make([]any, 0, len(excluded)+1)
	if len(excluded) > 0 {
		query += ` WHERE id NOT IN (` + placeholders(len(excluded)) + `)`
		for _, id := range excluded {
			args = append(args, id)
		}
	}
	query += ` ORDER BY id LIMIT ?`
	args = append(args, limit)

	return db.queryQuestions(ctx, query, args...)
}

// QuestionHashesBySubject returns the content hashes of every question
// belonging to a subject.
func (db *DB) QuestionHashesBySubject(ctx context.Context, subjectID int64) (map[string]bool, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT content_hash FROM question WHERE subject_id = ?
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hashes for subject %d: %w", subjectID, err)
	}
	defer rows.Close()

	hashes := make(map[string]bool)
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("failed to scan hash row: %w", err)
		}
		hashes[h] = true
	}
	return hashes, rows.Err()
}

func (db *DB) queryQuestions(ctx context.Context, query string, args ...any) ([]domain.Question, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*domain.Question, error) {
	var (
		q       domain.Question
		options string
		source  sql.NullString
	)
	if err := row.Scan(
		&q.ID,
		&q.Body,
		&options,
		&q.CorrectOption,
		&q.Difficulty,
		&source,
		&q.SubjectID,
		&q.Hash,
		&q.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return nil, fmt.Errorf("corrupt options for question %d: %w", q.ID, err)
	}
	q.Source = source.String
	return &q, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
