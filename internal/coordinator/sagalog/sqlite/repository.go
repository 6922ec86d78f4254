// Package sqlite stores the checkout saga log in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/jcmexdev/ecommerce-storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/ecommerce-storefront/internal/pkg/telemetry"

	// pure-Go driver, no CGO
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no entry exists for a saga id.
var ErrNotFound = errors.New("sqlite: saga not found")

// The table is append-only; the newest row per saga_id is its current state.
const schema = `
CREATE TABLE IF NOT EXISTS saga_logs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    saga_id         TEXT        NOT NULL,
    status          TEXT        NOT NULL,
    current_step    TEXT        NOT NULL DEFAULT '',
    payload         TEXT,
    error_messages  TEXT        NOT NULL DEFAULT '[]',
    visitor_id      TEXT        NOT NULL DEFAULT '',
    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',
    updated_at      TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_saga_logs_saga_id ON saga_logs(saga_id, updated_at);
CREATE INDEX IF NOT EXISTS idx_saga_logs_trace_id ON saga_logs(trace_id);
CREATE INDEX IF NOT EXISTS idx_saga_logs_visitor_id ON saga_logs(visitor_id);
`

const (
	timeLayout = "2006-01-02T15:04:05.999999999Z"
	columns    = `saga_id, status, current_step, COALESCE(payload,''), error_messages,
		visitor_id, trace_id, span_id, updated_at`
)

var (
	_ sagalog.Repository = (*Repository)(nil)
	_ sagalog.Reader     = (*Repository)(nil)
)

// Repository is the SQLite implementation of sagalog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/checkout.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := telemetry.OpenDB("sqlite", dsn, semconv.DBSystemSqlite)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new saga log entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *sagalog.SagaLog) error {
	const q = `
		INSERT INTO saga_logs
			(saga_id, status, current_step, payload, error_messages, visitor_id, trace_id, span_id, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.SagaID,
		string(entry.Status),
		entry.CurrentStep,
		nullableString(entry.Payload),
		entry.ErrorMessages,
		entry.VisitorID,
		entry.TraceID,
		entry.SpanID,
		entry.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save saga log for %q: %w", entry.SagaID, err)
	}
	return nil
}

// GetLatest returns the most recent log entry for a given saga ID.
func (r *Repository) GetLatest(ctx context.Context, sagaID string) (*sagalog.SagaLog, error) {
	entries, err := r.query(ctx, `
		SELECT `+columns+`
		FROM   saga_logs
		WHERE  saga_id = ?
		ORDER  BY id DESC
		LIMIT  1`, sagaID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, sagaID)
	}
	return &entries[0], nil
}

// History returns every entry for a saga in the order it was written.
func (r *Repository) History(ctx context.Context, sagaID string) ([]sagalog.SagaLog, error) {
	return r.query(ctx, `
		SELECT `+columns+`
		FROM   saga_logs
		WHERE  saga_id = ?
		ORDER  BY id`, sagaID)
}

// Visitor returns the current state of every checkout a visitor ran, newest first.
func (r *Repository) Visitor(ctx context.Context, visitorID string) ([]sagalog.SagaLog, error) {
	return r.query(ctx, `
		SELECT `+columns+`
		FROM   saga_logs
		WHERE  id IN (SELECT MAX(id) FROM saga_logs WHERE visitor_id = ? GROUP BY saga_id)
		ORDER  BY id DESC`, visitorID)
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]sagalog.SagaLog, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query saga logs: %w", err)
	}
	defer rows.Close()

	var out []sagalog.SagaLog
	for rows.Next() {
		var entry sagalog.SagaLog
		var updatedAt string
		if err := rows.Scan(
			&entry.SagaID,
			&entry.Status,
			&entry.CurrentStep,
			&entry.Payload,
			&entry.ErrorMessages,
			&entry.VisitorID,
			&entry.TraceID,
			&entry.SpanID,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan saga log: %w", err)
		}
		if entry.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: parse time %q: %w", updatedAt, err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate saga logs: %w", err)
	}
	return out, nil
}

// nullableString stores NULL instead of empty payloads on non-STARTED rows.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
