package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// sessionRepo implements SessionRepo with raw SQL and the global sequence
// counter.
type sessionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

const sessionColumns = `id, sequence, lesson_title, started_at, completed_at,
	total_questions, correct_first_try, correct_total, total_time_ms,
	hints_used, score, passing_score, has_passed`

func (r *sessionRepo) SaveSession(ctx context.Context, rec SessionRecord) error {
	if rec.ID == "" {
		return errors.New("save session: empty id")
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, seqNum, rec.LessonTitle, rec.StartedAt.UTC(), rec.CompletedAt.UTC(),
		rec.TotalQuestions, rec.CorrectFirstTry, rec.CorrectTotal, rec.TotalTimeMs,
		rec.HintsUsed, rec.Score, rec.PassingScore, rec.HasPassed,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO answer_events (
		session_id, position, question_id, given_answer, is_correct, time_ms,
		hint_used, attempt_number, activity_index, question_index
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare answer insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range rec.Answers {
		_, err := stmt.ExecContext(ctx,
			rec.ID, i, a.QuestionID, a.GivenAnswer, a.IsCorrect, a.TimeMs,
			a.HintUsed, a.AttemptNumber, a.ActivityIndex, a.QuestionIndex,
		)
		if err != nil {
			return fmt.Errorf("insert answer %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (r *sessionRepo) GetSession(ctx context.Context, id string) (*SessionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	rec, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query session: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT question_id, given_answer, is_correct,
		time_ms, hint_used, attempt_number, activity_index, question_index
		FROM answer_events WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a AnswerRecord
		if err := rows.Scan(&a.QuestionID, &a.GivenAnswer, &a.IsCorrect, &a.TimeMs,
			&a.HintUsed, &a.AttemptNumber, &a.ActivityIndex, &a.QuestionIndex); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		rec.Answers = append(rec.Answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return rec, nil
}

func (r *sessionRepo) RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error) {
	where, args := filter(opts, "sequence", "completed_at")
	rows, err := r.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (r *sessionRepo) DeleteAllSessions(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"answer_events", "sessions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(s scanner) (*SessionRecord, error) {
	var rec SessionRecord
	err := s.Scan(&rec.ID, &rec.Sequence, &rec.LessonTitle, &rec.StartedAt, &rec.CompletedAt,
		&rec.TotalQuestions, &rec.CorrectFirstTry, &rec.CorrectTotal, &rec.TotalTimeMs,
		&rec.HintsUsed, &rec.Score, &rec.PassingScore, &rec.HasPassed)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
