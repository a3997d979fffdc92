package auth

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/learning-platform/internal/model"
)

// Context identifies the authenticated principal of a request. Role comes
// from the store at verification time, not from the credential, so a role
// change takes effect on the very next request.
type Context struct {
	UserID uint64
	Email  string
	Role   string
}

// UserSource is the single store lookup the verifier needs. *sql.DB backed
// implementations return sql.ErrNoRows (possibly wrapped) for a missing user.
type UserSource interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// Verifier validates presented credentials. Each successful verification
// costs one point lookup against the user store; that read is mandatory,
// not an optimization to cache away.
type Verifier struct {
	secret []byte
	users  UserSource
}

// NewVerifier returns a Verifier checking signatures with secret and
// reloading principals through users.
func NewVerifier(secret string, users UserSource) *Verifier {
	return &Verifier{secret: []byte(secret), users: users}
}

// Verify checks the credential's signature and expiry, reloads the user row
// and returns the request's auth context. An empty credential yields
// ErrNoCredential. Store errors other than a missing row pass through
// unwrapped into one of the auth sentinels.
func (v *Verifier) Verify(ctx context.Context, credential string) (*Context, error) {
	if credential == "" {
		return nil, ErrNoCredential
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredential
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredential
		}
		return nil, ErrInvalidCredential
	}
	if !tok.Valid {
		return nil, ErrInvalidCredential
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 {
		return nil, ErrInvalidCredential
	}
	u, err := v.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnknownPrincipal
		}
		return nil, err
	}
	return &Context{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}
