package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/learning-platform/internal/auth"
	"github.com/iliyamo/learning-platform/internal/model"
)

type staticUsers map[uint64]*model.User

func (s staticUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func TestAuthenticatePassesActorToHandler(t *testing.T) {
	const secret = "test-secret"
	u := &model.User{ID: 5, Email: "s@example.com", Role: model.RoleStudent}
	issuer := auth.NewIssuer(secret)
	verifier := auth.NewVerifier(secret, staticUsers{5: u})

	credential, _, err := issuer.Issue(u)
	require.NoError(t, err)

	e := echo.New()
	var seen *auth.Context
	e.GET("/auth/me", func(c echo.Context) error {
		seen = Actor(c)
		return c.NoContent(http.StatusOK)
	}, Authenticate(verifier))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: credential})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, uint64(5), seen.UserID)
	assert.Equal(t, model.RoleStudent, seen.Role)
}

func TestAuthenticateRejectsMissingCookie(t *testing.T) {
	verifier := auth.NewVerifier("test-secret", staticUsers{})

	e := echo.New()
	e.GET("/auth/me", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, Authenticate(verifier))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsDeletedUser(t *testing.T) {
	const secret = "test-secret"
	u := &model.User{ID: 5, Email: "s@example.com", Role: model.RoleStudent}
	issuer := auth.NewIssuer(secret)
	verifier := auth.NewVerifier(secret, staticUsers{})

	credential, _, err := issuer.Issue(u)
	require.NoError(t, err)

	e := echo.New()
	e.GET("/auth/me", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, Authenticate(verifier))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: credential})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
