package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/duynhne/account-service/internal/core/domain"
	"github.com/duynhne/account-service/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var profileUpdates = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "profile_updates_total",
		Help: "Profile update actions by result",
	},
	[]string{"result"},
)

// NoticeFor returns the page notice describing an update outcome; a nil err
// means the update was saved.
func NoticeFor(err error) Notice {
	switch {
	case err == nil:
		return Notice{Kind: NoticeSuccess, Message: msgProfileUpdated}
	case errors.Is(err, domain.ErrUserNotFound):
		return Notice{Kind: NoticeError, Message: msgAccountNotFound}
	default:
		return Notice{Kind: NoticeError, Message: msgUpdateFailed}
	}
}

const (
	msgProfileUpdated  = "Profile updated."
	msgAccountNotFound = "Account not found."
	msgUpdateFailed    = "Profile could not be updated."
)

// ProfileService is the account backend used by Actions.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
}

// Actions are the operations that change the Store.
type Actions struct {
	store   *Store
	service ProfileService
	logger  *zap.Logger
}

// NewActions creates the action set for store.
func NewActions(store *Store, service ProfileService, logger *zap.Logger) *Actions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Actions{store: store, service: service, logger: logger}
}

// Store returns the store the actions write to.
func (a *Actions) Store() *Store {
	return a.store
}

// LoadProfile fetches the current record for userID from the service and
// stores it, which resets every form connected to that user.
func (a *Actions) LoadProfile(ctx context.Context, userID string) (domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "action.load_profile", trace.WithAttributes(
		attribute.String("layer", "state"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	user, err := a.service.GetProfile(ctx, userID)
	if err != nil {
		middleware.RecordError(ctx, err)
		return domain.User{}, fmt.Errorf("load profile %q: %w", userID, err)
	}
	a.store.SetUser(userID, *user)
	return *user, nil
}

// UpdateProfile sends payload to the service. On success the stored user is
// replaced, which resets every connected form. The outcome is returned to
// the caller only; page notices are the caller's business.
func (a *Actions) UpdateProfile(ctx context.Context, userID string, payload domain.ProfileUpdate) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "action.update_profile", trace.WithAttributes(
		attribute.String("layer", "state"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	user, err := a.service.UpdateProfile(ctx, userID, payload)
	if err != nil {
		middleware.RecordError(ctx, err)
		profileUpdates.WithLabelValues("error").Inc()
		a.logger.Error("Profile update failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	profileUpdates.WithLabelValues("success").Inc()
	middleware.AddSpanEvent(ctx, "store.user_replaced")
	a.logger.Info("Profile updated", zap.String("user_id", userID))

	a.store.SetUser(userID, *user)
	return user, nil
}
