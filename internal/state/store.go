package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"cookierisk/internal/config"
)

const (
	settingAPIURL = "saved_api_url"

	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Value is one extracted cookie as persisted.
type Value struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// State is everything the store remembers between runs.
type State struct {
	SavedAPIURL string    `json:"saved_api_url"`
	Values      []Value   `json:"values"`
	SourceURL   string    `json:"source_url,omitempty"`
	ExtractedAt time.Time `json:"extracted_at,omitzero"`
}

// Store manages state persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the state database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.StatePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load reads the saved endpoint and the last extraction.
func (s *Store) Load(ctx context.Context) (State, error) {
	ctx = ensureContext(ctx)
	var st State

	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", settingAPIURL).Scan(&st.SavedAPIURL)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return State{}, fmt.Errorf("load api url: %w", err)
	}

	var (
		sourceURL   sql.NullString
		extractedAt string
	)
	err = s.db.QueryRowContext(ctx, "SELECT source_url, extracted_at FROM extraction WHERE id = 1").Scan(&sourceURL, &extractedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return State{}, fmt.Errorf("load extraction: %w", err)
	default:
		st.SourceURL = sourceURL.String
		if parsed, parseErr := time.Parse(time.RFC3339Nano, extractedAt); parseErr == nil {
			st.ExtractedAt = parsed
		}
	}

	rows, err := s.db.QueryContext(ctx, "SELECT name, value FROM cookie_values ORDER BY position")
	if err != nil {
		return State{}, fmt.Errorf("load values: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v Value
		if err := rows.Scan(&v.Name, &v.Value); err != nil {
			return State{}, fmt.Errorf("scan value: %w", err)
		}
		st.Values = append(st.Values, v)
	}
	if err := rows.Err(); err != nil {
		return State{}, fmt.Errorf("iterate values: %w", err)
	}
	return st, nil
}

// SaveEndpoint stores the scoring endpoint URL.
func (s *Store) SaveEndpoint(ctx context.Context, url string) error {
	ctx = ensureContext(ctx)
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			settingAPIURL, strings.TrimSpace(url))
		return err
	})
	if err != nil {
		return fmt.Errorf("save api url: %w", err)
	}
	return nil
}

// SaveValues replaces the stored extraction with values in one transaction.
func (s *Store) SaveValues(ctx context.Context, sourceURL string, values []Value) error {
	ctx = ensureContext(ctx)
	err := retryOnBusy(ctx, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, "DELETE FROM cookie_values"); err != nil {
				return fmt.Errorf("delete values: %w", err)
			}
			stmt, err := tx.PrepareContext(ctx, "INSERT INTO cookie_values (position, name, value) VALUES (?, ?, ?)")
			if err != nil {
				return fmt.Errorf("prepare insert: %w", err)
			}
			defer stmt.Close()
			for i, v := range values {
				if _, err := stmt.ExecContext(ctx, i, v.Name, v.Value); err != nil {
					return fmt.Errorf("insert value %q: %w", v.Name, err)
				}
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO extraction (id, source_url, extracted_at) VALUES (1, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET source_url = excluded.source_url, extracted_at = excluded.extracted_at`,
				nullableString(sourceURL), time.Now().UTC().Format(time.RFC3339Nano))
			if err != nil {
				return fmt.Errorf("record extraction: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("save values: %w", err)
	}
	return nil
}

// ClearValues removes the stored extraction and keeps the saved endpoint.
func (s *Store) ClearValues(ctx context.Context) error {
	ctx = ensureContext(ctx)
	err := retryOnBusy(ctx, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, "DELETE FROM cookie_values"); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, "DELETE FROM extraction")
			return err
		})
	})
	if err != nil {
		return fmt.Errorf("clear values: %w", err)
	}
	return nil
}

// Clear removes everything, including the saved endpoint.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.ClearValues(ctx); err != nil {
		return err
	}
	ctx = ensureContext(ctx)
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, "DELETE FROM settings")
		return err
	})
	if err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
