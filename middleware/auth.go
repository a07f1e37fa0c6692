package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

// ErrInvalidToken is returned by the auth client for rejected tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// AuthUser is the identity returned by the auth service.
type AuthUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenVerifier resolves a bearer token into an identity.
type TokenVerifier interface {
	GetMe(ctx context.Context, token string) (*AuthUser, error)
}

// AuthClient introspects tokens against the auth service.
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuthClient creates a new auth client
func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// GetMe retrieves the identity behind token from GET /api/v1/auth/me.
func (c *AuthClient) GetMe(ctx context.Context, token string) (*AuthUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("auth service error: %d - %s", resp.StatusCode, string(body))
	}

	var user AuthUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &user, nil
}

// AuthMiddleware resolves the bearer token and stores the user id in the gin
// context. With a non-empty fallbackUserID, missing or rejected tokens act
// as that user (demo mode); otherwise they are answered with 401.
func AuthMiddleware(verifier TokenVerifier, logger *zap.Logger, fallbackUserID string) gin.HandlerFunc {
	reject := func(c *gin.Context, msg string) {
		if fallbackUserID != "" {
			c.Set(userIDKey, fallbackUserID)
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject(c, "Authentication required")
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			reject(c, "Invalid authorization header")
			return
		}

		user, err := verifier.GetMe(c.Request.Context(), token)
		if err != nil {
			if logger != nil {
				logger.Debug("Auth validation failed", zap.Error(err))
			}
			reject(c, "Invalid or expired token")
			return
		}

		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// UserIDFromContext returns the user id stored by AuthMiddleware.
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(userIDKey)
}
