package domain

import "context"

// UserRepository defines the interface for account data access
type UserRepository interface {
	Migrate(ctx context.Context) error
	GetUser(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, user User) error
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
	Close() error
}
