package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/middleware"
	"github.com/SscSPs/pbc_workflow_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type stubProfiles struct {
	profiles map[string]domain.Profile
}

func (s stubProfiles) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("profile " + userID + " not found")
	}
	return &p, nil
}

func (s stubProfiles) CountClients(context.Context, domain.Profile) (int, error) { return 0, nil }

var profiles = stubProfiles{profiles: map[string]domain.Profile{
	"u-1": {UserID: "u-1", OrganizationID: "org-1", Role: domain.RoleEmployee},
}}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.GET("/me", middleware.AuthMiddleware(secret), middleware.ProfileMiddleware(profiles), func(c *gin.Context) {
		p, ok := middleware.GetProfileFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": p.UserID})
	})
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAndProfileMiddleware(t *testing.T) {
	r := newRouter()
	token, err := utils.GenerateJWT("u-1", secret, time.Minute, "pbc")
	require.NoError(t, err)

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"u-1"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuthMiddlewareRejects(t *testing.T) {
	r := newRouter()
	expired, err := utils.GenerateJWT("u-1", secret, -time.Minute, "pbc")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Token abc").Code)

	w := get(r, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token has expired")
}

func TestProfileMiddlewareRejectsUnknownUser(t *testing.T) {
	r := newRouter()
	token, err := utils.GenerateJWT("u-unknown", secret, time.Minute, "pbc")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "Bearer "+token).Code)
}

func TestJWTAuthenticator(t *testing.T) {
	auth := middleware.JWTAuthenticator{Secret: secret, Profiles: profiles}
	token, err := utils.GenerateJWT("u-1", secret, time.Minute, "pbc")
	require.NoError(t, err)

	p, err := auth.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, p.Role)

	_, err = auth.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, err := middleware.NewRateLimiter("2-M")
	require.NoError(t, err)
	r := gin.New()
	r.Use(middleware.RateLimit(limiter))
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestGetLoggerFromCtxFallsBack(t *testing.T) {
	assert.Same(t, slog.Default(), middleware.GetLoggerFromCtx(context.Background()))
}
