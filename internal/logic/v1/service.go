package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/duynhne/account-service/internal/core/domain"
	"github.com/duynhne/account-service/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AccountService implements account profile reads and writes on top of a
// repository. It performs no validation: payloads are stored verbatim.
type AccountService struct {
	repo domain.UserRepository
}

// NewAccountService creates a new account service
func NewAccountService(repo domain.UserRepository) *AccountService {
	return &AccountService{repo: repo}
}

// GetProfile retrieves the account for userID.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "account.get_profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	if s.repo == nil {
		return nil, domain.ErrStorageUnavailable
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("profile.found", false))
		return nil, fmt.Errorf("get profile: %w", err)
	}

	span.SetAttributes(attribute.Bool("profile.found", true))
	return user, nil
}

// UpdateProfile replaces the four profile attributes of userID with update
// and returns the stored record.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "account.update_profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	if s.repo == nil {
		return nil, domain.ErrStorageUnavailable
	}

	user, err := s.repo.UpdateProfile(ctx, userID, update)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("profile.updated", false))
		return nil, fmt.Errorf("update profile: %w", err)
	}

	span.SetAttributes(attribute.Bool("profile.updated", true))
	span.AddEvent("profile.updated")
	return user, nil
}

// SeedUser creates user unless an account with the same id exists.
func (s *AccountService) SeedUser(ctx context.Context, user domain.User) (bool, error) {
	ctx, span := middleware.StartSpan(ctx, "account.seed", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", user.ID),
	))
	defer span.End()

	if s.repo == nil {
		return false, domain.ErrStorageUnavailable
	}

	err := s.repo.CreateUser(ctx, user)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrUserExists):
		return false, nil
	default:
		span.RecordError(err)
		return false, fmt.Errorf("seed user: %w", err)
	}
}
