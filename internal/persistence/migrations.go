package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// migration is one ordered, idempotent schema step.
type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []migration{
	{1, "create_users", createUsers},
	{2, "create_tickets", createTickets},
	{3, "add_tickets_resolved_at", addTicketsResolvedAt},
}

// RunMigrations applies pending schema migrations in order. Safe to call on
// every startup regardless of schema age.
func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	const trackTable = `
        CREATE TABLE IF NOT EXISTS schema_migrations (
            version    INTEGER PRIMARY KEY,
            name       TEXT NOT NULL,
            applied_at TEXT NOT NULL
        )`
	if _, err := db.ExecContext(ctx, trackTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d_%s: %w", m.version, m.name, err)
		}
		if err := m.apply(ctx, tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d_%s: %w", m.version, m.name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
			m.version, m.name, time.Now().UTC().Format("2006-01-02 15:04:05"),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d_%s: %w", m.version, m.name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d_%s: %w", m.version, m.name, err)
		}
		logger.Info("applied migration", zap.Int("version", m.version), zap.String("name", m.name))
		applied++
	}

	logger.Info("migrations up to date", zap.Int("applied", applied))
	return nil
}

func createUsers(ctx context.Context, tx *sql.Tx) error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS users (
            id            INTEGER PRIMARY KEY AUTOINCREMENT,
            username      TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            role          TEXT NOT NULL CHECK (role IN ('admin', 'agent', 'requester'))
        )`
	_, err := tx.ExecContext(ctx, ddl)
	return err
}

func createTickets(ctx context.Context, tx *sql.Tx) error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS tickets (
            id           INTEGER PRIMARY KEY AUTOINCREMENT,
            title        TEXT NOT NULL,
            description  TEXT NOT NULL,
            status       TEXT NOT NULL CHECK (status IN ('Open', 'In Progress', 'Resolved')),
            created_at   TEXT NOT NULL,
            updated_at   TEXT,
            requester_id INTEGER NOT NULL REFERENCES users (id),
            agent_id     INTEGER REFERENCES users (id)
        )`
	_, err := tx.ExecContext(ctx, ddl)
	return err
}

// addTicketsResolvedAt backfills the resolved_at column on stores created
// before it existed. A missing tickets table means there is nothing to
// migrate, not an error.
func addTicketsResolvedAt(ctx context.Context, tx *sql.Tx) error {
	exists, err := tableExists(ctx, tx, "tickets")
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	has, err := columnExists(ctx, tx, "tickets", "resolved_at")
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = tx.ExecContext(ctx, `ALTER TABLE tickets ADD COLUMN resolved_at TEXT`)
	return err
}

func tableExists(ctx context.Context, tx *sql.Tx, table string) (bool, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func columnExists(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
