package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS saves (
	slot     TEXT PRIMARY KEY,
	data     BLOB NOT NULL,
	saved_at INTEGER NOT NULL
)`

// SQLiteStore keeps snapshots in a SQLite database, one row per slot.
type SQLiteStore struct {
	sqlDB *sql.DB
	slot  string
}

// OpenSQLite opens (creating if needed) the database at path and binds the
// store to slot.
func OpenSQLite(path, slot string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if strings.TrimSpace(slot) == "" {
		return nil, fmt.Errorf("save slot is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}

	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create saves table: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB, slot: slot}, nil
}

// Close releases the underlying SQLite connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Write upserts the snapshot of the bound slot.
func (s *SQLiteStore) Write(ctx context.Context, data []byte) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO saves (slot, data, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		s.slot, data, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write save slot %q: %w", s.slot, err)
	}
	return nil
}

func (s *SQLiteStore) Read(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM saves WHERE slot = ?`, s.slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("read save slot %q: %w", s.slot, err)
	}
	return data, nil
}

func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	var n int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(1) FROM saves WHERE slot = ?`, s.slot).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check save slot %q: %w", s.slot, err)
	}
	return n > 0, nil
}

// Slots lists the stored slot names, most recent first.
func (s *SQLiteStore) Slots(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT slot FROM saves ORDER BY saved_at DESC, slot`)
	if err != nil {
		return nil, fmt.Errorf("list save slots: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("list save slots: %w", err)
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}
