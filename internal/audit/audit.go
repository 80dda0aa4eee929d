// Package audit owns the append-only logs table. It is the only writer to
// it; every other component records events through Append.
package audit

import (
	"context"
	"database/sql"
	"log"
	"sync"

	"github.com/bl4ckarch/assetguard/internal/models"
)

// Log persists audit entries. Writes are serialized by a mutex so concurrent
// callers never interleave entries and timestamps stay non-decreasing in
// insertion order.
type Log struct {
	db *sql.DB
	mu sync.Mutex

	// fatalf is called when an audit write fails. Audit completeness is a
	// correctness requirement, so the default terminates the process.
	// Overridable for tests.
	fatalf func(format string, args ...any)
}

// New returns a Log writing to the given database.
func New(db *sql.DB) *Log {
	return &Log{db: db, fatalf: log.Fatalf}
}

// Append records one event. It never reports failure to the caller: a
// persistence error here means the audit trail is no longer trustworthy and
// the whole process is brought down.
func (l *Log) Append(ctx context.Context, eventName, eventDetails string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO logs (event_name, event_details) VALUES (?, ?)`,
		eventName, eventDetails,
	)
	if err != nil {
		l.fatalf("audit: append %q failed: %v", eventName, err)
	}
}

// Clear truncates the whole log. Selective deletion is deliberately not
// offered.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx, `DELETE FROM logs`)
	return err
}

// Count returns the total number of log entries.
func (l *Log) Count(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM logs`).Scan(&n)
	return n, err
}

// List returns entries newest first. limit/offset for pagination.
func (l *Log) List(ctx context.Context, limit, offset int) ([]models.LogEntry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT event_name, event_details, timestamp FROM logs ORDER BY timestamp DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.EventName, &e.EventDetails, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
