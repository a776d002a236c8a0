package storage

const schema = `
-- Subjects group questions by topic. Slug comes from the question-pack
-- file name.
CREATE TABLE IF NOT EXISTS subject (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    slug TEXT NOT NULL UNIQUE,
    created_at DATETIME NOT NULL
);

-- The question catalog. Rows are immutable once seeded; content_hash is
-- the normalized body+options digest used for sync deduplication.
CREATE TABLE IF NOT EXISTS question (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    body TEXT NOT NULL,
    options TEXT NOT NULL,              -- JSON array of option strings
    correct_option INTEGER NOT NULL,
    difficulty INTEGER NOT NULL DEFAULT 1,
    source TEXT,
    subject_id INTEGER NOT NULL,
    content_hash TEXT NOT NULL UNIQUE,
    created_at DATETIME NOT NULL,

    FOREIGN KEY(subject_id) REFERENCES subject(id)
);

-- Append-only review history. The newest row per (user_id, question_id)
-- is that pair's current mastery state; rows are never updated or deleted.
CREATE TABLE IF NOT EXISTS review_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    question_id INTEGER NOT NULL,
    quality INTEGER NOT NULL,
    ease_factor REAL NOT NULL,
    interval INTEGER NOT NULL,
    repetitions INTEGER NOT NULL,
    next_review_at DATETIME NOT NULL,
    created_at DATETIME NOT NULL,

    FOREIGN KEY(question_id) REFERENCES question(id)
);

CREATE INDEX IF NOT EXISTS idx_review_log_user
    ON review_log(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_review_log_user_question
    ON review_log(user_id, question_id, created_at DESC);

-- One practice session per user per UTC calendar date. completed_at is
-- set at most once, guarded by the conditional update in CompleteSession.
CREATE TABLE IF NOT EXISTS daily_session (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    date TEXT NOT NULL,
    questions_answered INTEGER NOT NULL DEFAULT 0,
    questions_correct INTEGER NOT NULL DEFAULT 0,
    completed_at DATETIME,
    created_at DATETIME NOT NULL,

    UNIQUE(user_id, date)
);

-- Pre-generated question selections written by the prep worker after a
-- session completes. Read by external consumers (UI preview).
CREATE TABLE IF NOT EXISTS prepared_session (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    date TEXT NOT NULL,
    question_ids TEXT NOT NULL,         -- JSON array of question ids
    created_at DATETIME NOT NULL,

    UNIQUE(user_id, date)
);

-- Question-pack sources, either a local directory or a git URL.
CREATE TABLE IF NOT EXISTS source (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL DEFAULT 'local',
    last_scanned DATETIME
);
`
