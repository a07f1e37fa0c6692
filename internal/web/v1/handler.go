package v1

import (
	"errors"
	"net/http"

	"github.com/duynhne/account-service/internal/core/domain"
	logicv1 "github.com/duynhne/account-service/internal/logic/v1"
	"github.com/duynhne/account-service/internal/state"
	"github.com/duynhne/account-service/internal/web/routepath"
	"github.com/duynhne/account-service/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// UserHandler handles the JSON account API
type UserHandler struct {
	service *logicv1.AccountService
	actions *state.Actions
}

// NewUserHandler creates a new user handler. Profile writes go through
// actions so connected forms observe them.
func NewUserHandler(service *logicv1.AccountService, actions *state.Actions) *UserHandler {
	return &UserHandler{
		service: service,
		actions: actions,
	}
}

// Register mounts the API routes. auth guards the profile routes.
func (h *UserHandler) Register(api *gin.RouterGroup, auth gin.HandlerFunc) {
	profile := api.Group("", auth)
	profile.GET(routepath.APIUsersProfile, h.GetProfile)
	profile.PUT(routepath.APIUsersProfile, h.UpdateProfile)
	api.GET(routepath.APIUser, h.GetUser)
}

// GetUser handles GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	id := c.Param("id")
	span.SetAttributes(attribute.String("user.id", id))

	user, err := h.service.GetProfile(ctx, id)
	if err != nil {
		span.RecordError(err)
		writeError(c, logger, "Failed to get user", err)
		return
	}

	logger.Info("User retrieved", zap.String("user_id", id))
	c.JSON(http.StatusOK, user)
}

// GetProfile handles GET /api/v1/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		writeError(c, logger, "GetProfile: no user_id in context", domain.ErrUnauthorized)
		return
	}

	user, err := h.actions.LoadProfile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		writeError(c, logger, "Failed to get profile", err)
		return
	}

	logger.Info("Profile retrieved", zap.String("user_id", userID))
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/v1/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		writeError(c, logger, "UpdateProfile: no user_id in context", domain.ErrUnauthorized)
		return
	}

	var req domain.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Warn("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}
	span.SetAttributes(attribute.Bool("request.valid", true))

	user, err := h.actions.UpdateProfile(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		writeError(c, logger, "Failed to update profile", err)
		return
	}

	logger.Info("Profile updated", zap.String("user_id", userID))
	c.JSON(http.StatusOK, user)
}

func writeError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		logger.Warn(msg)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, domain.ErrUserNotFound):
		logger.Warn(msg, zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
