// Package sqlite keeps a history of finished steps in a SQLite database.
//
// The history is an audit log for the host. The scheduler writes to it through
// walker.Monitoring and never reads it back: walks are not resumed from it.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/osmike/walker/internal/domain"
	errs "github.com/osmike/walker/internal/error"
)

const schema = `
CREATE TABLE IF NOT EXISTS steps (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	walk_id     TEXT    NOT NULL,
	seq         INTEGER NOT NULL,
	started_at  INTEGER NOT NULL,
	ended_at    INTEGER NOT NULL,
	duration_ns INTEGER NOT NULL,
	status      TEXT    NOT NULL,
	error       TEXT
);
CREATE INDEX IF NOT EXISTS steps_walk_id ON steps (walk_id);
`

// Record is one row of the step history.
type Record struct {
	WalkID   string
	Seq      int
	StartAt  time.Time
	EndAt    time.Time
	Duration time.Duration
	Status   domain.StepStatus
	Error    string
}

// History stores StepState values in the steps table.
type History struct {
	db  *sql.DB
	log *zap.Logger

	mu   sync.Mutex
	stmt *sql.Stmt
}

// Open opens (creating if needed) the database at path and prepares the schema.
//
// Parameters:
//   - path: File path or SQLite DSN (":memory:" works for tests).
//   - log: Logger for write failures; SaveMetrics cannot return errors. Nop if nil.
func Open(path string, log *zap.Logger) (*History, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errs.New(errs.ErrHistoryOpen, fmt.Sprintf("path: %s, error: %v", path, err))
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errs.New(errs.ErrHistoryOpen, fmt.Sprintf("create schema: %v", err))
	}

	stmt, err := db.Prepare(`
		INSERT INTO steps (walk_id, seq, started_at, ended_at, duration_ns, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, errs.New(errs.ErrHistoryOpen, fmt.Sprintf("prepare insert: %v", err))
	}

	return &History{db: db, log: log, stmt: stmt}, nil
}

// SaveMetrics appends state to the history. Failures are logged, not returned.
func (h *History) SaveMetrics(state domain.StepState) {
	if err := h.Save(state); err != nil {
		h.log.Error("failed to save step", zap.String("walk_id", state.WalkID), zap.Error(err))
	}
}

// Save appends state to the history.
func (h *History) Save(state domain.StepState) error {
	var errText sql.NullString
	if state.Error != nil {
		errText = sql.NullString{String: state.Error.Error(), Valid: true}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.stmt.Exec(
		state.WalkID,
		state.Seq,
		state.StartAt.UnixNano(),
		state.EndAt.UnixNano(),
		int64(state.Duration),
		string(state.Status),
		errText,
	)
	if err != nil {
		return errs.New(errs.ErrHistoryWrite, fmt.Sprintf("walk id: %s, error: %v", state.WalkID, err))
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (h *History) Recent(limit int) ([]Record, error) {
	rows, err := h.db.Query(`
		SELECT walk_id, seq, started_at, ended_at, duration_ns, status, error
		FROM steps
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errs.New(errs.ErrHistoryRead, err.Error())
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r              Record
			start, end, ns int64
			status         string
			errText        sql.NullString
		)
		if err := rows.Scan(&r.WalkID, &r.Seq, &start, &end, &ns, &status, &errText); err != nil {
			return nil, errs.New(errs.ErrHistoryRead, fmt.Sprintf("scan: %v", err))
		}
		r.StartAt = time.Unix(0, start)
		r.EndAt = time.Unix(0, end)
		r.Duration = time.Duration(ns)
		r.Status = domain.StepStatus(status)
		r.Error = errText.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.New(errs.ErrHistoryRead, err.Error())
	}
	return out, nil
}

// Close releases the prepared statement and the database.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.stmt.Close(); err != nil {
		h.db.Close()
		return err
	}
	return h.db.Close()
}
