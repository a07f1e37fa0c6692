// Package sqlite provides a SQLite-backed account repository for local
// development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/duynhne/account-service/internal/core/domain"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS accounts (
	id         TEXT PRIMARY KEY,
	username   TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	first_name TEXT NOT NULL DEFAULT '',
	last_name  TEXT NOT NULL DEFAULT ''
)`

// UserRepository persists accounts in SQLite.
type UserRepository struct {
	sqlDB *sql.DB
}

// Open opens a SQLite database at path. ":memory:" opens a private
// in-memory database.
func Open(path string) (*UserRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// a second connection to ":memory:" would see an empty database
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &UserRepository{sqlDB: sqlDB}, nil
}

// Migrate creates the accounts table when missing.
func (r *UserRepository) Migrate(ctx context.Context) error {
	if _, err := r.sqlDB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate accounts: %w", err)
	}
	return nil
}

// GetUser retrieves an account by ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.sqlDB.QueryRowContext(ctx,
		`SELECT id, username, email, first_name, last_name FROM accounts WHERE id = ?`, id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get user %q: %w", id, domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a new account.
func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) error {
	result, err := r.sqlDB.ExecContext(ctx,
		`INSERT INTO accounts (id, username, email, first_name, last_name) VALUES (?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("create user %q: %w", user.ID, domain.ErrUserExists)
	}
	return nil
}

// UpdateProfile overwrites the four profile attributes and returns the
// stored record.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	result, err := r.sqlDB.ExecContext(ctx,
		`UPDATE accounts SET username = ?, email = ?, first_name = ?, last_name = ? WHERE id = ?`,
		update.Username, update.Email, update.FirstName, update.LastName, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("update profile %q: %w", id, domain.ErrUserNotFound)
	}
	// the profile columns are the whole row
	user := update.Apply(domain.User{ID: id})
	return &user, nil
}

// Close closes the SQLite handle.
func (r *UserRepository) Close() error {
	if r == nil || r.sqlDB == nil {
		return nil
	}
	return r.sqlDB.Close()
}
