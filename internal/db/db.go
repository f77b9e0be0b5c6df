package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var errNotInitialized = errors.New("database not initialized")

// DB wraps a database connection
type DB struct {
	*sql.DB
}

// NewDB opens the database named by DB_PATH, falling back to wthr.db
func NewDB() (*DB, error) {
	return Open(getEnvOrDefault("DB_PATH", "wthr.db"))
}

// Open opens (or creates) the sqlite database at path and applies the schema
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS slots (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

// Get returns the value stored under key. ok is false when the slot is empty.
func (d *DB) Get(key string) (string, bool, error) {
	if d == nil || d.DB == nil {
		return "", false, errNotInitialized
	}

	var value string
	err := d.QueryRow("SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return value, true, nil
}

// Set overwrites the value stored under key
func (d *DB) Set(key, value string) error {
	if d == nil || d.DB == nil {
		return errNotInitialized
	}

	_, err := d.Exec(
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
