package watchlist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists watchlists in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// single writer keeps UNIQUE checks and inserts serialized
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS watchlist (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		session  TEXT NOT NULL,
		symbol   TEXT NOT NULL,
		added_at INTEGER NOT NULL,
		UNIQUE(session, symbol)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite watchlist opened")
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) List(ctx context.Context, session string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol FROM watchlist WHERE session = ? ORDER BY id`, sessionOrDefault(session))
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Add(ctx context.Context, session, symbol string) (string, error) {
	sym, err := Normalize(symbol)
	if err != nil {
		return "", err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO watchlist (session, symbol, added_at) VALUES (?,?,?)`,
		sessionOrDefault(session), sym, time.Now().Unix())
	if err != nil {
		return sym, fmt.Errorf("add to watchlist: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sym, ErrDuplicate
	}
	return sym, nil
}

func (s *SQLiteStore) Remove(ctx context.Context, session, symbol string) (string, error) {
	sym, err := Normalize(symbol)
	if err != nil {
		return "", err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM watchlist WHERE session = ? AND symbol = ?`, sessionOrDefault(session), sym)
	if err != nil {
		return sym, fmt.Errorf("remove from watchlist: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sym, ErrNotFound
	}
	return sym, nil
}

func (s *SQLiteStore) Close() error {
	log.Info().Msg("closing sqlite watchlist")
	return s.db.Close()
}
