// Package middleware provides shared request processing: session
// verification, rate limiting and response caching.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/auth"
)

// actorKey is the context key the authenticated principal is stored under.
const actorKey = "actor"

// Authenticate verifies the session cookie on every request and stores the
// resulting auth context. Verification includes a store read, so the role
// seen by handlers is always current. All four failure kinds collapse to
// 401 for the client; the distinction is kept in the debug log.
func Authenticate(v *auth.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			credential := ""
			if cookie, err := c.Cookie(auth.CookieName); err == nil {
				credential = cookie.Value
			}
			actor, err := v.Verify(c.Request().Context(), credential)
			if err != nil {
				switch err {
				case auth.ErrNoCredential, auth.ErrInvalidCredential,
					auth.ErrExpiredCredential, auth.ErrUnknownPrincipal:
					c.Logger().Debugf("auth rejected: %v", err)
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
				default:
					c.Logger().Errorf("auth store lookup failed: %v", err)
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
				}
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// Actor returns the authenticated principal stored by Authenticate, or nil
// on routes that ran without it.
func Actor(c echo.Context) *auth.Context {
	if v, ok := c.Get(actorKey).(*auth.Context); ok {
		return v
	}
	return nil
}
