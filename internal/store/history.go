package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// historyRepo implements HistoryRepo.
type historyRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *historyRepo) RecordSession(ctx context.Context, rec SessionRecord) (err error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, sequence, deck_id, mode, started_at, completed_at, total, correct, incorrect,
			score, time_taken_ms, submitted, submit_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		seqNum,
		rec.DeckID,
		rec.Mode,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.CompletedAt.UTC().Format(time.RFC3339Nano),
		rec.Total,
		rec.Correct,
		rec.Incorrect,
		rec.Score,
		rec.TimeTakenMs,
		rec.Submitted,
		rec.SubmitError,
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", rec.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO session_outcomes (session_id, position, item_id, prompt, answer, response, is_correct, time_taken_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range rec.Outcomes {
		if _, err = stmt.ExecContext(ctx, rec.ID, o.Position, o.ItemID, o.Prompt, o.Answer, o.Response, o.IsCorrect, o.TimeTakenMs); err != nil {
			return fmt.Errorf("save outcome %d: %w", o.Position, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *historyRepo) MarkSubmitted(ctx context.Context, sessionID, submitErr string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET submitted = ?, submit_error = ? WHERE id = ?`,
		submitErr == "", submitErr, sessionID)
	if err != nil {
		return fmt.Errorf("mark session %s submitted: %w", sessionID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mark session %s submitted: not found", sessionID)
	}
	return nil
}

const sessionColumns = `id, sequence, deck_id, mode, started_at, completed_at, total, correct, incorrect,
	score, time_taken_ms, submitted, submit_error`

func (r *historyRepo) RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY sequence DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *historyRepo) Session(ctx context.Context, id string) (*SessionRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT position, item_id, prompt, answer, response, is_correct, time_taken_ms
		 FROM session_outcomes WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o OutcomeRecord
		if err := rows.Scan(&o.Position, &o.ItemID, &o.Prompt, &o.Answer, &o.Response, &o.IsCorrect, &o.TimeTakenMs); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		rec.Outcomes = append(rec.Outcomes, o)
	}
	return rec, rows.Err()
}

func (r *historyRepo) Clear(ctx context.Context) error {
	for _, stmt := range []string{
		`DELETE FROM session_outcomes`,
		`DELETE FROM sessions`,
		`DELETE FROM request_events`,
	} {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(s scanner) (*SessionRecord, error) {
	var (
		rec                SessionRecord
		started, completed string
	)
	err := s.Scan(&rec.ID, &rec.Sequence, &rec.DeckID, &rec.Mode, &started, &completed,
		&rec.Total, &rec.Correct, &rec.Incorrect, &rec.Score, &rec.TimeTakenMs, &rec.Submitted, &rec.SubmitError)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if rec.CompletedAt, err = time.Parse(time.RFC3339Nano, completed); err != nil {
		return nil, fmt.Errorf("parse completed_at: %w", err)
	}
	return &rec, nil
}
