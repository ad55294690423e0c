package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// eventRepo implements EventRepo with the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendRequest(ctx context.Context, data RequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO request_events (sequence, timestamp, source, operation, target, model, purpose,
			input_tokens, output_tokens, latency_ms, success, status_code, error_message, request_body, response_body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum,
		time.Now().UTC().Format(time.RFC3339Nano),
		data.Source,
		data.Operation,
		data.Target,
		data.Model,
		data.Purpose,
		data.InputTokens,
		data.OutputTokens,
		data.LatencyMs,
		data.Success,
		data.StatusCode,
		data.ErrorMessage,
		data.RequestBody,
		data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentRequests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error) {
	clauses := []string{"sequence > ?"}
	args := []any{opts.After}
	if opts.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, opts.Source)
	}
	query := `SELECT ` + requestColumns + ` FROM request_events WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY sequence DESC`
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var out []RequestEvent
	for rows.Next() {
		ev, err := scanRequestEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	return out, rows.Err()
}

func (r *eventRepo) Request(ctx context.Context, seq int64) (*RequestEvent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM request_events WHERE sequence = ?`, seq)
	ev, err := scanRequestEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ev, err
}

func (r *eventRepo) UsageByModel(ctx context.Context) ([]ModelUsage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT model, COUNT(*), SUM(CASE WHEN success THEN 0 ELSE 1 END),
			SUM(input_tokens), SUM(output_tokens), SUM(latency_ms)
		 FROM request_events WHERE source = ?
		 GROUP BY model ORDER BY model`, SourceLLM)
	if err != nil {
		return nil, fmt.Errorf("query model usage: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Requests, &u.Failures, &u.InputTokens, &u.OutputTokens, &u.LatencyMs); err != nil {
			return nil, fmt.Errorf("scan model usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

const requestColumns = `sequence, timestamp, source, operation, target, model, purpose,
	input_tokens, output_tokens, latency_ms, success, status_code, error_message, request_body, response_body`

func scanRequestEvent(s scanner) (*RequestEvent, error) {
	var (
		ev RequestEvent
		ts string
	)
	err := s.Scan(&ev.Sequence, &ts, &ev.Source, &ev.Operation, &ev.Target, &ev.Model, &ev.Purpose,
		&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &ev.Success, &ev.StatusCode,
		&ev.ErrorMessage, &ev.RequestBody, &ev.ResponseBody)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan request event: %w", err)
	}
	if ev.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	return &ev, nil
}
