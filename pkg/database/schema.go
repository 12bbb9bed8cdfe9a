package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema creates every table used by the API. Statements are idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    external_auth_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    role TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS classes (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    teacher_id BIGINT NOT NULL REFERENCES users(id)
)`,
	`CREATE TABLE IF NOT EXISTS exams (
    id BIGSERIAL PRIMARY KEY,
    teacher_id BIGINT NOT NULL REFERENCES users(id),
    class_id BIGINT NOT NULL REFERENCES classes(id),
    title TEXT NOT NULL,
    description TEXT,
    status TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS questions (
    id BIGSERIAL PRIMARY KEY,
    exam_id BIGINT NOT NULL REFERENCES exams(id),
    category TEXT NOT NULL,
    question_type TEXT NOT NULL,
    content TEXT NOT NULL,
    marks INTEGER NOT NULL CHECK (marks > 0),
    options JSONB,
    answer TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_exam ON questions (exam_id)`,
	`CREATE TABLE IF NOT EXISTS student_responses (
    id BIGSERIAL PRIMARY KEY,
    student_id BIGINT NOT NULL REFERENCES users(id),
    exam_id BIGINT NOT NULL REFERENCES exams(id),
    question_id BIGINT NOT NULL REFERENCES questions(id),
    response TEXT NOT NULL,
    marks_obtained DOUBLE PRECISION,
    feedback TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS idx_student_responses_pair ON student_responses (exam_id, student_id)`,
	`CREATE TABLE IF NOT EXISTS marks (
    id BIGSERIAL PRIMARY KEY,
    student_id BIGINT NOT NULL REFERENCES users(id),
    exam_id BIGINT NOT NULL REFERENCES exams(id),
    total_marks DOUBLE PRECISION NOT NULL,
    max_marks INTEGER NOT NULL,
    results JSONB NOT NULL DEFAULT '[]'::jsonb,
    graded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (student_id, exam_id)
)`,
	`CREATE TABLE IF NOT EXISTS exam_sessions (
    token TEXT PRIMARY KEY,
    exam_id BIGINT NOT NULL REFERENCES exams(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS lesson_plans (
    id BIGSERIAL PRIMARY KEY,
    teacher_id BIGINT NOT NULL REFERENCES users(id),
    topic TEXT NOT NULL,
    duration_hours INTEGER NOT NULL,
    plan JSONB NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS announcements (
    id BIGSERIAL PRIMARY KEY,
    teacher_id BIGINT NOT NULL REFERENCES users(id),
    class_id BIGINT NOT NULL REFERENCES classes(id),
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
}

// Migrate applies Schema inside a single transaction.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for _, stmt := range Schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
