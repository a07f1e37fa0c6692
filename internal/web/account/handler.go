// Package account serves the HTML account profile page.
package account

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/duynhne/account-service/internal/core/domain"
	"github.com/duynhne/account-service/internal/state"
	"github.com/duynhne/account-service/internal/web/profileform"
	"github.com/duynhne/account-service/internal/web/routepath"
	"github.com/duynhne/account-service/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const profileTitle = "Profile"

// Handler serves GET and POST for the profile page.
type Handler struct {
	actions *state.Actions
	links   profileform.Links
}

// NewHandler creates a profile page handler.
func NewHandler(actions *state.Actions, links profileform.Links) *Handler {
	return &Handler{actions: actions, links: links}
}

// Register mounts the profile page routes on r.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET(routepath.AccountProfile, h.ShowProfile)
	r.POST(routepath.AccountProfile, h.SubmitProfile)
}

// ShowProfile renders the form seeded from the stored user.
func (h *Handler) ShowProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		h.writeLoadError(c, logger, domain.ErrUnauthorized)
		return
	}

	conn, err := Connect(ctx, h.actions, userID, h.links)
	if err != nil {
		span.RecordError(err)
		h.writeLoadError(c, logger, err)
		return
	}
	defer conn.Disconnect()

	notice := h.actions.Store().TakeNotice(userID)
	h.renderPage(c, http.StatusOK, notice, conn.Form.Render())
}

// SubmitProfile applies the posted field values to a connected form and
// submits it. A successful update leaves a success notice and redirects back
// to the page; a failed one re-renders the edited values with the error.
func (h *Handler) SubmitProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		h.writeLoadError(c, logger, domain.ErrUnauthorized)
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		span.RecordError(err)
		logger.Warn("Failed to parse profile form", zap.Error(err))
		c.String(http.StatusBadRequest, "Invalid form submission")
		return
	}

	conn, err := Connect(ctx, h.actions, userID, h.links)
	if err != nil {
		span.RecordError(err)
		h.writeLoadError(c, logger, err)
		return
	}
	// posted values must not be reset by other requests committing first
	conn.Disconnect()

	for name, values := range c.Request.PostForm {
		if field, ok := profileform.ParseField(name); ok && len(values) > 0 {
			conn.Form.OnFieldChange(field, values[0])
		}
	}
	conn.Form.OnSubmit()

	_, err = conn.Result()
	notice := state.NoticeFor(err)
	if err != nil {
		span.SetAttributes(attribute.Bool("profile.updated", false))
		h.renderPage(c, http.StatusUnprocessableEntity, &notice, conn.Form.Render())
		return
	}

	span.SetAttributes(attribute.Bool("profile.updated", true))
	h.actions.Store().SetNotice(userID, notice)
	c.Redirect(http.StatusSeeOther, routepath.AccountProfile)
}

func (h *Handler) writeLoadError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		logger.Warn("Profile page without authenticated user")
		c.String(http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, domain.ErrUserNotFound):
		logger.Warn("Profile not found", zap.Error(err))
		c.String(http.StatusNotFound, "Account not found")
	default:
		logger.Error("Failed to load profile", zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) renderPage(c *gin.Context, code int, notice *state.Notice, body templ.Component) {
	c.Render(code, templRender{ctx: c.Request.Context(), component: page(profileTitle, notice, body)})
}
