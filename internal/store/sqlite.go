package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists token records in an embedded SQLite database.
// SQLite serializes writers itself, so no extra locking is needed here.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tokens (
	client_id     TEXT PRIMARY KEY,
	access_token  TEXT NOT NULL,
	refresh_token TEXT,
	expires_at    INTEGER,
	raw           TEXT,
	updated_at    INTEGER NOT NULL
);`

// NewSQLiteStore opens (and if needed creates) a SQLite token store at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening token db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing token db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get returns the record for id, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*TokenRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token, expires_at, raw, updated_at FROM tokens WHERE client_id = ?`, id)

	var (
		rec       TokenRecord
		refresh   sql.NullString
		expiresAt sql.NullInt64
		raw       sql.NullString
		updatedAt int64
	)
	err := row.Scan(&rec.AccessToken, &refresh, &expiresAt, &raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading token record: %w", err)
	}

	rec.RefreshToken = refresh.String
	if expiresAt.Valid && expiresAt.Int64 > 0 {
		rec.ExpiresAt = time.Unix(expiresAt.Int64, 0)
	}
	if raw.Valid {
		rec.Raw = json.RawMessage(raw.String)
	}
	rec.UpdatedAt = time.Unix(updatedAt, 0)
	return &rec, nil
}

// Put stores or replaces the record for id.
func (s *SQLiteStore) Put(ctx context.Context, id string, rec *TokenRecord) error {
	var expiresAt int64
	if !rec.ExpiresAt.IsZero() {
		expiresAt = rec.ExpiresAt.Unix()
	}
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tokens (client_id, access_token, refresh_token, expires_at, raw, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			raw = excluded.raw,
			updated_at = excluded.updated_at`,
		id, rec.AccessToken, rec.RefreshToken, expiresAt, string(rec.Raw), updatedAt.Unix())
	if err != nil {
		return fmt.Errorf("writing token record: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
