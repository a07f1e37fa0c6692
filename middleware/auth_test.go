package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubVerifier struct {
	user *AuthUser
	err  error
}

func (s stubVerifier) GetMe(context.Context, string) (*AuthUser, error) {
	return s.user, s.err
}

func newAuthRouter(v TokenVerifier, fallback string) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(v, zap.NewNop(), fallback))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, UserIDFromContext(c))
	})
	return r
}

func TestAuthMiddlewareSetsUserID(t *testing.T) {
	r := newAuthRouter(stubVerifier{user: &AuthUser{ID: "42"}}, "")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())
}

func TestAuthMiddlewareRejectsWithoutFallback(t *testing.T) {
	r := newAuthRouter(stubVerifier{err: ErrInvalidToken}, "")

	for _, header := range []string{"", "Basic abc", "Bearer bad"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddlewareFallbackUser(t *testing.T) {
	r := newAuthRouter(stubVerifier{err: ErrInvalidToken}, "1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Body.String())
}

func TestAuthClientGetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "/api/v1/auth/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"7","username":"alice","email":"a@x.com"}`))
	}))
	defer srv.Close()

	client := NewAuthClient(srv.URL + "/")

	user, err := client.GetMe(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, &AuthUser{ID: "7", Username: "alice", Email: "a@x.com"}, user)

	_, err = client.GetMe(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
