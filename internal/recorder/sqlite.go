package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists session history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the monitor writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session_transitions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			exchange    TEXT NOT NULL,
			status      TEXT NOT NULL,
			prev_status TEXT,
			local_time  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_ts ON session_transitions(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_session_exchange ON session_transitions(exchange, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSessionTransition(evt *SessionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := evt.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO session_transitions
		(timestamp, exchange, status, prev_status, local_time)
		VALUES (?,?,?,?,?)`,
		at.Unix(), evt.Exchange, evt.Status, evt.PrevStatus, evt.LocalTime,
	)
	return err
}

// Transitions returns the most recent events, newest first.
func (r *SQLiteRecorder) Transitions(limit int) ([]SessionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, exchange, status, COALESCE(prev_status, ''), COALESCE(local_time, '')
		FROM session_transitions ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var (
			ts  int64
			evt SessionEvent
		)
		if err := rows.Scan(&ts, &evt.Exchange, &evt.Status, &evt.PrevStatus, &evt.LocalTime); err != nil {
			return nil, err
		}
		evt.At = time.Unix(ts, 0)
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
