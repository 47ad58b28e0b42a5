package repository

import (
	"context"
	"database/sql"
	"errors"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// UserRepository defines persistence access for accounts. Implementations
// return typed failures, never raw storage errors.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.UserRef, error)
	CountByRole(ctx context.Context) (map[domain.Role]int, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository returns a SQLite-backed implementation.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`,
		user.Username, user.PasswordHash, string(user.Role),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateUsername(user.Username)
		}
		return apperrors.NewStorageFailure(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperrors.NewStorageFailure(err)
	}
	user.ID = id
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.fetchSingle(ctx,
		`SELECT id, username, password_hash, role FROM users WHERE id = ?`,
		map[string]any{"user_id": id}, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.fetchSingle(ctx,
		`SELECT id, username, password_hash, role FROM users WHERE username = ?`,
		map[string]any{"username": username}, username)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, details map[string]any, arg any) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewUserNotFound(details)
		}
		return nil, apperrors.NewStorageFailure(err)
	}
	return &user, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.UserRef, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username FROM users WHERE role = ? ORDER BY id`,
		string(role),
	)
	if err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	defer rows.Close()

	var refs []domain.UserRef
	for rows.Next() {
		var ref domain.UserRef
		if err := rows.Scan(&ref.ID, &ref.Username); err != nil {
			return nil, apperrors.NewStorageFailure(err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	return refs, nil
}

// CountByRole returns counts grouped by role. Roles with no members are
// absent from the map; callers default missing roles to zero.
func (r *userRepository) CountByRole(ctx context.Context) (map[domain.Role]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	defer rows.Close()

	counts := make(map[domain.Role]int)
	for rows.Next() {
		var (
			role  domain.Role
			count int
		)
		if err := rows.Scan(&role, &count); err != nil {
			return nil, apperrors.NewStorageFailure(err)
		}
		counts[role] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	return counts, nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		return serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
