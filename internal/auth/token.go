package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/learning-platform/internal/model"
)

// CredentialTTL is the fixed validity window of a session credential.
// The cookie max-age must match it.
const CredentialTTL = 7 * 24 * time.Hour

// CookieName is the cookie carrying the credential.
const CookieName = "token"

// Claims is the signed payload of a session credential. The subject holds
// the user ID. Email and role are embedded for logging and debugging only;
// the verifier always reloads the authoritative role from the store.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer creates signed session credentials. The signing secret is held in
// memory for the lifetime of the process; issuance never fails for a valid
// secret. now is injectable for tests.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

// NewIssuer returns an Issuer signing with the given secret.
func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue builds and signs a credential for an already-authenticated user.
// It returns the serialized token and its absolute expiry. The caller is
// responsible for recording last_login_at on the user row.
func (i *Issuer) Issue(u *model.User) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(CredentialTTL)
	claims := Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(u.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign credential: %w", err)
	}
	return signed, exp, nil
}
