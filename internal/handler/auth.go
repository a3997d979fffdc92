package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/auth"
	"github.com/iliyamo/learning-platform/internal/config"
	"github.com/iliyamo/learning-platform/internal/middleware"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/repository"
	"github.com/iliyamo/learning-platform/internal/utils"
)

// UserStore is the persistence surface the auth endpoints need.
// *repository.UserRepo satisfies it; tests use in-memory fakes.
type UserStore interface {
	Create(ctx context.Context, email, password, role, name string, phone *string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error
}

// AuthHandler bundles dependencies for registration, login and session
// introspection.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Issuer *auth.Issuer
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(cfg config.Config, users UserStore, issuer *auth.Issuer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Issuer: issuer}
}

// ----- DTOs -----

type registerReq struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"` // teacher | student, defaults to student
	Phone    *string `json:"phone"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID    uint64  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Role  string  `json:"role"`
	Phone *string `json:"phone"`
}

func toUserPart(u *model.User) userPart {
	return userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Phone: u.Phone}
}

// setSessionCookie writes the credential cookie. Its max-age matches the
// credential's own validity exactly; Secure is set only in production so
// local development over plain HTTP keeps working.
func (h *AuthHandler) setSessionCookie(c echo.Context, credential string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    credential,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(auth.CredentialTTL / time.Second),
		HttpOnly: true,
		Secure:   h.Cfg.Production(),
		SameSite: http.SameSiteLaxMode,
	})
}

// issueSession signs a credential for u, sets the cookie and stamps
// last_login_at through the store.
func (h *AuthHandler) issueSession(ctx context.Context, c echo.Context, u *model.User) error {
	credential, exp, err := h.Issuer.Issue(u)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, credential, exp)
	return h.Users.UpdateLastLogin(ctx, u.ID, time.Now().UTC())
}

// Register handles POST /auth/register: create the user and start a
// session immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}
	if len(req.Password) < utils.MinPasswordLength {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleStudent
	}
	if role != model.RoleStudent && role != model.RoleTeacher {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, role, req.Name, req.Phone, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if err := h.issueSession(ctx, c, u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "registered", "user": toUserPart(u)})
}

// Login handles POST /auth/login: verify the password and start a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err := h.issueSession(ctx, c, u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// Me handles GET /auth/me. The middleware already reloaded the user row,
// but the response returns the full fresh record including phone.
func (h *AuthHandler) Me(c echo.Context) error {
	actor := middleware.Actor(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// Logout handles POST /auth/logout. Credentials are stateless so there is
// nothing to revoke server-side; the cookie is simply cleared.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.Production(),
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
