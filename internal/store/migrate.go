package store

import (
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		sequence INTEGER NOT NULL,
		lesson_title TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP NOT NULL,
		total_questions INTEGER NOT NULL,
		correct_first_try INTEGER NOT NULL,
		correct_total INTEGER NOT NULL,
		total_time_ms INTEGER NOT NULL,
		hints_used INTEGER NOT NULL,
		score INTEGER NOT NULL,
		passing_score INTEGER NOT NULL,
		has_passed BOOLEAN NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sessions_completed_at ON sessions (completed_at)`,
	`CREATE TABLE IF NOT EXISTS answer_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		question_id TEXT NOT NULL,
		given_answer TEXT NOT NULL,
		is_correct BOOLEAN NOT NULL,
		time_ms INTEGER NOT NULL,
		hint_used BOOLEAN NOT NULL,
		attempt_number INTEGER NOT NULL,
		activity_index INTEGER NOT NULL,
		question_index INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS answer_events_session ON answer_events (session_id, position)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		timestamp TIMESTAMP NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms INTEGER NOT NULL,
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
}

// migrate creates any missing tables. Statements are idempotent.
func migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema: %w", err)
		}
	}
	return nil
}
