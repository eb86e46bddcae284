package config

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the Config record in a one-row SQLite table. SQLite is
// overkill for a single record but gives atomic writes on SD-card media for
// free, which EEPROM-style raw files do not.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS config (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	timeout_ms INTEGER NOT NULL,
	debounce_ms INTEGER NOT NULL,
	btn_debounce_ms INTEGER NOT NULL,
	max_persons INTEGER NOT NULL,
	emergency_override INTEGER NOT NULL
)`

// OpenSQLite opens (creating if needed) the store at the given path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config store path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open config store: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping config store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create config table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads the record. found is false when the table is empty (first run).
func (s *SQLiteStore) Load() (Config, bool, error) {
	row := s.db.QueryRow(`SELECT timeout_ms, debounce_ms, btn_debounce_ms, max_persons, emergency_override FROM config WHERE id = 1`)

	var timeoutMs, debounceMs, btnDebounceMs, maxPersons int64
	var override int64
	err := row.Scan(&timeoutMs, &debounceMs, &btnDebounceMs, &maxPersons, &override)
	if err == sql.ErrNoRows {
		return Config{}, false, nil
	}
	if err != nil {
		return Config{}, false, fmt.Errorf("load config: %w", err)
	}

	cfg := Config{
		Timeout:           time.Duration(timeoutMs) * time.Millisecond,
		DebounceDelay:     time.Duration(debounceMs) * time.Millisecond,
		ButtonDebounce:    time.Duration(btnDebounceMs) * time.Millisecond,
		MaxPersons:        int(maxPersons),
		EmergencyOverride: override != 0,
	}
	return cfg.Clamp(), true, nil
}

// Save upserts the record, clamped.
func (s *SQLiteStore) Save(cfg Config) error {
	cfg = cfg.Clamp()

	override := 0
	if cfg.EmergencyOverride {
		override = 1
	}

	_, err := s.db.Exec(`
INSERT INTO config (id, timeout_ms, debounce_ms, btn_debounce_ms, max_persons, emergency_override)
VALUES (1, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	timeout_ms = excluded.timeout_ms,
	debounce_ms = excluded.debounce_ms,
	btn_debounce_ms = excluded.btn_debounce_ms,
	max_persons = excluded.max_persons,
	emergency_override = excluded.emergency_override`,
		cfg.Timeout.Milliseconds(), cfg.DebounceDelay.Milliseconds(),
		cfg.ButtonDebounce.Milliseconds(), cfg.MaxPersons, override)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
