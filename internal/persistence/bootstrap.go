package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// EnsureAdmin creates the bootstrap administrator account when no user with
// the given username exists yet. Idempotent across restarts. The password
// hash is produced by the caller so this package stays hashing-agnostic.
func EnsureAdmin(ctx context.Context, db *sql.DB, username, passwordHash string, logger *zap.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, username,
	).Scan(&count); err != nil {
		return fmt.Errorf("check admin account: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES (?, ?, 'admin')`,
		username, passwordHash,
	); err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	logger.Info("bootstrap admin created", zap.String("username", username))
	return nil
}
