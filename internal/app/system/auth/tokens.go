// Package auth handles access tokens, password hashing, and the request
// middleware that puts the authenticated user into the request context.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/opencurio/resourcehub/internal/app/system/apperr"
)

// Claims is the authenticated identity carried by an access token and
// injected into the request context by the middleware.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// TokenIssuer mints and verifies access tokens. The default implementation
// is JWTIssuer; tests substitute a stub.
type TokenIssuer interface {
	Issue(c Claims) (token string, expiresAt time.Time, err error)
	Verify(token string) (Claims, error)
}

// JWTIssuer issues HMAC-SHA256 signed JWTs.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer builds an issuer with the given signing secret and token
// lifetime. A zero ttl defaults to 24 hours.
func NewJWTIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

type jwtClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issue mints a token for the given identity.
func (i *JWTIssuer) Issue(c Claims) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(i.ttl)
	claims := jwtClaims{
		Email: c.Email,
		Role:  c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses and validates a token, returning its claims. Any failure,
// including expiry or a wrong signing method, maps to apperr.ErrAuth so
// callers never leak parser details.
func (i *JWTIssuer) Verify(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil || !parsed.Valid {
		return Claims{}, apperr.ErrAuth
	}
	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || claims.Subject == "" {
		return Claims{}, apperr.ErrAuth
	}
	return Claims{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}
