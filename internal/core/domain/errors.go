package domain

import "errors"

// Sentinel errors for account operations.
var (
	// ErrUserNotFound indicates the requested account does not exist.
	// HTTP Status: 404 Not Found
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates an account with the same id already exists.
	// HTTP Status: 409 Conflict
	ErrUserExists = errors.New("user already exists")

	// ErrUnauthorized indicates the request carries no authenticated user.
	// HTTP Status: 401 Unauthorized
	ErrUnauthorized = errors.New("unauthorized access")

	// ErrStorageUnavailable indicates no repository backend is configured.
	ErrStorageUnavailable = errors.New("storage not available")
)
