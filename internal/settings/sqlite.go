package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

const settingsKey = "settings"

// SQLiteStore persists documents in a namespaced key/value table, so one
// database file can also hold future state beyond settings.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the settings database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS kv_state (
			namespace TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_utc TEXT NOT NULL,
			PRIMARY KEY (namespace, key)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate settings db: %w", err)
		}
	}
	return nil
}

// Load reads the settings document from the cardstable namespace.
func (s *SQLiteStore) Load(ctx context.Context) ([]byte, bool, error) {
	var value string
	row := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv_state WHERE namespace = ? AND key = ?`,
		types.SettingsNamespace, settingsKey,
	)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read settings: %w", err)
	}
	return []byte(value), true, nil
}

// Save upserts the settings document into the cardstable namespace.
func (s *SQLiteStore) Save(ctx context.Context, doc []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_state (namespace, key, value, updated_utc)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value=excluded.value, updated_utc=excluded.updated_utc
	`, types.SettingsNamespace, settingsKey, string(doc), now); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
