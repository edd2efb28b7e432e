package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"budgets/internal/core"

	_ "modernc.org/sqlite"
)

// Item keys with a fixed meaning. Other callers may store their own keys
// (the local-auth passcode hash, for one); DeleteAll wipes them all.
const (
	credentialsRow = 1
)

// Store is the device-local persistent key-value store backing the session
// layer: the credential bundle, the pending challenge key, and the local
// passcode hash all live here.
type Store struct {
	db *sql.DB
}

// NewStore opens (and migrates) the sqlite database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetItem returns the stored value for key, or "" when absent.
func (s *Store) GetItem(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM items WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get item %s: %w", key, err)
	}
	return value, nil
}

// SetItem stores or replaces the value for key.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set item %s: %w", key, err)
	}
	return nil
}

// DeleteItem removes a key. Missing keys are not an error.
func (s *Store) DeleteItem(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete item %s: %w", key, err)
	}
	return nil
}

// DeleteAll wipes every stored item and the credential bundle in one
// transaction. Called on logout; safe to call repeatedly.
func (s *Store) DeleteAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete-all: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return tx.Commit()
}

// SaveCredentials replaces the credential bundle in a single transaction
// so a concurrent reader never observes a partial bundle.
func (s *Store) SaveCredentials(ctx context.Context, creds core.Credentials) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save credentials: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO credentials (id, access_token, refresh_token, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   access_token = excluded.access_token,
		   refresh_token = excluded.refresh_token,
		   expires_at = excluded.expires_at`,
		credentialsRow, creds.AccessToken, creds.RefreshToken, creds.ExpiresAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return tx.Commit()
}

// LoadCredentials returns the stored bundle, or nil when none is held.
func (s *Store) LoadCredentials(ctx context.Context) (*core.Credentials, error) {
	var (
		access, refreshTok, expires string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token, expires_at FROM credentials WHERE id = ?`,
		credentialsRow).Scan(&access, &refreshTok, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, expires)
	if err != nil {
		return nil, fmt.Errorf("parse credential expiry: %w", err)
	}
	return &core.Credentials{
		AccessToken:  access,
		RefreshToken: refreshTok,
		ExpiresAt:    expiresAt,
	}, nil
}
