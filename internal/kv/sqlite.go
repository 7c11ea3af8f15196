package kv

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLite is a Store backed by a single-table SQLite database, giving the
// key-value layout durability across restarts.
type SQLite struct {
	conn *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database at dsn and ensures the kv table
// exists.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	if _, err := conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		return nil, fmt.Errorf("ensure kv table: %w", err)
	}

	return &SQLite{conn: conn}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key)

	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}

		return "", false, err
	}

	return v, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (s *SQLite) Clear(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM kv`)
	return err
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}
