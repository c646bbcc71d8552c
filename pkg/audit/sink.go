package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
)

// SlogSink writes each event as a structured log line. Details are not
// logged since they may carry PHI.
type SlogSink struct {
	Logger *slog.Logger
}

func (s SlogSink) Write(ctx context.Context, events []Event) error {
	lg := s.Logger
	if lg == nil {
		lg = slog.Default()
	}
	for _, ev := range events {
		lg.LogAttrs(ctx, slog.LevelInfo, "audit",
			slog.String("id", ev.ID),
			slog.String("event_type", string(ev.EventType)),
			slog.String("session_id", ev.SessionID),
			slog.String("resource", ev.Resource),
			slog.String("action", ev.Action),
			slog.Bool("success", ev.Success),
		)
	}
	return nil
}

// SQLSink inserts events into the audit_event table in one transaction.
type SQLSink struct {
	DB *sql.DB
}

func (s SQLSink) Write(ctx context.Context, events []Event) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin audit tx: %w", err)
	}
	defer tx.Rollback()

	for _, ev := range events {
		details := []byte("{}")
		if len(ev.Details) > 0 {
			if details, err = json.Marshal(ev.Details); err != nil {
				return fmt.Errorf("marshal audit details: %w", err)
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO audit_event (id, event_type, session_id, resource, action, details, success, error_message, ip_address, user_agent, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 ON CONFLICT (id) DO NOTHING`,
			ev.ID, string(ev.EventType), ev.SessionID, ev.Resource, ev.Action, string(details),
			ev.Success, ev.ErrorMessage, ev.IPAddress, ev.UserAgent, ev.Timestamp.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("insert audit_event: %w", err)
		}
	}
	return tx.Commit()
}

// MultiSink writes to every sink and returns the first error.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, events []Event) error {
	var first error
	for _, s := range m {
		if err := s.Write(ctx, events); err != nil && first == nil {
			first = err
		}
	}
	return first
}
