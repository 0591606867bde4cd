package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-roleconnections/pkg/oauth"
)

// migrations are applied in order; each inner slice runs in one transaction.
var migrations = [][]string{
	{
		`CREATE TABLE oauth_tokens (
			user_id       TEXT PRIMARY KEY,
			access_token  TEXT NOT NULL,
			refresh_token TEXT NOT NULL DEFAULT '',
			token_type    TEXT NOT NULL DEFAULT '',
			scope         TEXT NOT NULL DEFAULT '',
			expires_at    TEXT NOT NULL,
			updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	},
}

// OpenSQLite opens a SQLite database configured for a single writer: WAL
// mode and a 5s busy timeout.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("tokenstore: open database: %w", err)
	}

	// Single connection for SQLite to avoid locking issues; it also keeps
	// ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("tokenstore: exec %q: %w", p, err)
		}
	}
	return db, nil
}

// Migrate applies pending migrations, tracked by version in
// schema_migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("tokenstore: create schema_migrations: %w", err)
	}

	for i, stmts := range migrations {
		version := i + 1

		var exists int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("tokenstore: check migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("tokenstore: begin migration %d: %w", version, err)
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("tokenstore: migration %d: %w", version, err)
			}
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("tokenstore: record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("tokenstore: commit migration %d: %w", version, err)
		}
	}
	return nil
}

// SQLite is a Store backed by a database/sql handle on the sqlite driver.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// NewSQLite wraps db. Call Migrate first.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Get(ctx context.Context, userID string) (oauth.Token, error) {
	var (
		token     oauth.Token
		expiresAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token, token_type, scope, expires_at FROM oauth_tokens WHERE user_id = ?`,
		userID,
	).Scan(&token.AccessToken, &token.RefreshToken, &token.TokenType, &token.Scope, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return oauth.Token{}, ErrNotFound
	}
	if err != nil {
		return oauth.Token{}, fmt.Errorf("tokenstore: get %s: %w", userID, err)
	}

	token.ExpiresAt, err = time.Parse(time.RFC3339Nano, expiresAt)
	if err != nil {
		return oauth.Token{}, fmt.Errorf("tokenstore: get %s: expires_at: %w", userID, err)
	}
	return token, nil
}

func (s *SQLite) Put(ctx context.Context, userID string, token oauth.Token) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO oauth_tokens (user_id, access_token, refresh_token, token_type, scope, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			scope = excluded.scope,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP`,
		userID, token.AccessToken, token.RefreshToken, token.TokenType, token.Scope,
		token.ExpiresAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("tokenstore: put %s: %w", userID, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM oauth_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("tokenstore: delete %s: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("tokenstore: delete %s: %w", userID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
