package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/duynhne/account-service/internal/core/domain"
	"github.com/duynhne/account-service/internal/core/repository/sqlite"
	logicv1 "github.com/duynhne/account-service/internal/logic/v1"
	"github.com/duynhne/account-service/internal/state"
	"github.com/duynhne/account-service/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var alice = domain.User{ID: "1", Username: "alice", Email: "a@x.com", FirstName: "A", LastName: "L"}

type noVerifier struct{}

func (noVerifier) GetMe(context.Context, string) (*middleware.AuthUser, error) {
	return nil, middleware.ErrInvalidToken
}

func newAPI(t *testing.T, fallbackUser string) (*gin.Engine, *state.Actions) {
	t.Helper()
	r, actions, _ := newAPIWithService(t, fallbackUser)
	return r, actions
}

func newAPIWithService(t *testing.T, fallbackUser string) (*gin.Engine, *state.Actions, *logicv1.AccountService) {
	t.Helper()
	repo, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	ctx := context.Background()
	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, repo.CreateUser(ctx, alice))

	svc := logicv1.NewAccountService(repo)
	actions := state.NewActions(state.NewStore(), svc, zaptest.NewLogger(t))

	r := gin.New()
	NewUserHandler(svc, actions).Register(r.Group("/api/v1"), middleware.AuthMiddleware(noVerifier{}, nil, fallbackUser))
	return r, actions, svc
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetUserByID(t *testing.T) {
	r, _ := newAPI(t, "")

	w := do(r, http.MethodGet, "/api/v1/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, alice, got)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/users/999", "").Code)
}

func TestGetProfileRequiresAuth(t *testing.T) {
	r, _ := newAPI(t, "")

	w := do(r, http.MethodGet, "/api/v1/users/profile", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Authentication required"}`, w.Body.String())
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPut, "/api/v1/users/profile", `{}`).Code)
}

func TestProfileRoutesWithoutAuthMiddleware(t *testing.T) {
	_, actions, svc := newAPIWithService(t, "")
	r := gin.New()
	NewUserHandler(svc, actions).Register(r.Group("/api/v1"), func(c *gin.Context) { c.Next() })

	for _, method := range []string{http.MethodGet, http.MethodPut} {
		w := do(r, method, "/api/v1/users/profile", `{}`)
		require.Equal(t, http.StatusUnauthorized, w.Code, method)
		assert.JSONEq(t, `{"error":"Authentication required"}`, w.Body.String())
	}
}

func TestGetProfile(t *testing.T) {
	r, _ := newAPI(t, "1")

	w := do(r, http.MethodGet, "/api/v1/users/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"1","username":"alice","email":"a@x.com","first_name":"A","last_name":"L"}`, w.Body.String())
}

func TestUpdateProfileUpdatesStore(t *testing.T) {
	r, actions := newAPI(t, "1")

	w := do(r, http.MethodPut, "/api/v1/users/profile", `{"username":"bob","email":"b@x.com","first_name":"B","last_name":"L2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"1","username":"bob","email":"b@x.com","first_name":"B","last_name":"L2"}`, w.Body.String())

	e, ok := actions.Store().Get("1")
	require.True(t, ok)
	assert.Equal(t, "bob", e.User.Username)
	assert.Nil(t, e.Notice)
}

func TestGetProfileAgreesWithGetUserAfterOutsideWrite(t *testing.T) {
	r, _, svc := newAPIWithService(t, "1")
	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/users/profile", "").Code)

	_, err := svc.UpdateProfile(context.Background(), "1", domain.ProfileUpdate{Username: "carol", Email: "c@x.com", FirstName: "C", LastName: "L"})
	require.NoError(t, err)

	byID := do(r, http.MethodGet, "/api/v1/users/1", "")
	profile := do(r, http.MethodGet, "/api/v1/users/profile", "")
	require.Equal(t, http.StatusOK, profile.Code)
	assert.JSONEq(t, byID.Body.String(), profile.Body.String())
	assert.Contains(t, profile.Body.String(), `"username":"carol"`)
}

func TestUpdateProfileLeavesPageNoticeAlone(t *testing.T) {
	r, actions := newAPI(t, "1")
	pending := state.NoticeFor(nil)
	actions.Store().SetNotice("1", pending)

	w := do(r, http.MethodPut, "/api/v1/users/profile", `{"username":"bob"}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, &pending, actions.Store().TakeNotice("1"))
}

func TestUpdateProfileRejectsMalformedBody(t *testing.T) {
	r, _ := newAPI(t, "1")

	w := do(r, http.MethodPut, "/api/v1/users/profile", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/api/v1/users/profile", `{"username":42}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request"}`, w.Body.String())
}

func TestUpdateProfileUnknownAccount(t *testing.T) {
	r, _ := newAPI(t, "404")

	w := do(r, http.MethodPut, "/api/v1/users/profile", `{"username":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSanitizeValidationError(t *testing.T) {
	assert.Equal(t, "", sanitizeValidationError(nil))
	assert.Equal(t, "Invalid request", sanitizeValidationError(errors.New("json: cannot unmarshal number into Go struct field")))
	assert.Equal(t, "Invalid request", sanitizeValidationError(errors.New(strings.Repeat("x", 120))))
	assert.Equal(t, "short", sanitizeValidationError(errors.New("short")))
}
