package psql

import (
	"context"
	"errors"
	"fmt"

	"github.com/duynhne/account-service/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of *pgxpool.Pool used by the repository.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schema = `CREATE TABLE IF NOT EXISTS accounts (
	id         TEXT PRIMARY KEY,
	username   TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	first_name TEXT NOT NULL DEFAULT '',
	last_name  TEXT NOT NULL DEFAULT ''
)`

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	db    Querier
	close func()
}

// NewUserRepository creates a new PostgreSQL user repository. closeFn is
// invoked by Close and may be nil.
func NewUserRepository(db Querier, closeFn func()) *UserRepository {
	return &UserRepository{db: db, close: closeFn}
}

// Migrate creates the accounts table when missing.
func (r *UserRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate accounts: %w", err)
	}
	return nil
}

// GetUser retrieves an account by ID
func (r *UserRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, username, email, first_name, last_name FROM accounts WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get user %q: %w", id, domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a new account
func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) error {
	query := `INSERT INTO accounts (id, username, email, first_name, last_name) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`
	result, err := r.db.Exec(ctx, query, user.ID, user.Username, user.Email, user.FirstName, user.LastName)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("create user %q: %w", user.ID, domain.ErrUserExists)
	}
	return nil
}

// UpdateProfile overwrites the four profile attributes and returns the
// stored record.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	query := `UPDATE accounts SET username = $1, email = $2, first_name = $3, last_name = $4 WHERE id = $5
		RETURNING id, username, email, first_name, last_name`

	var user domain.User
	err := r.db.QueryRow(ctx, query, update.Username, update.Email, update.FirstName, update.LastName, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update profile %q: %w", id, domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}

// Close releases the underlying pool.
func (r *UserRepository) Close() error {
	if r.close != nil {
		r.close()
	}
	return nil
}
