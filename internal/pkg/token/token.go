// Package token issues and verifies HS256-signed session tokens.
//
// Tokens are stateless: the signing secret is the only server-side state, so
// rotating it invalidates every token issued under the previous secret.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/peoplehub/hrms-api/internal/core/domain"
)

// DefaultTTL is used when the configured lifetime is not positive.
const DefaultTTL = 8 * time.Hour

// claims is the wire form of domain.Claims.
type claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with a shared secret.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Option customises an Issuer.
type Option func(*Issuer)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer returns an Issuer. secret must be non-empty.
func NewIssuer(secret, issuer string, ttl time.Duration, opts ...Option) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	i := &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue returns a signed token for the given identity, expiring after the TTL.
func (i *Issuer) Issue(userID, email string, role domain.Role) (string, error) {
	now := i.now()
	c := claims{
		UserID: userID,
		Email:  email,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and claims of raw and returns them.
// Structural defects (signature, issuer, role, missing claims) are reported
// as domain.ErrTokenInvalid before expiry is considered, so only an
// otherwise sound token fails with domain.ErrTokenExpired once now >= exp.
func (i *Issuer) Verify(raw string) (*domain.Claims, error) {
	var c claims
	tkn, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if c.ExpiresAt == nil || c.IssuedAt == nil {
		return nil, domain.ErrTokenInvalid
	}
	if i.issuer != "" && c.Issuer != i.issuer {
		return nil, domain.ErrTokenInvalid
	}

	role, err := domain.ParseRole(c.Role)
	if err != nil || c.UserID == "" {
		return nil, domain.ErrTokenInvalid
	}

	now := i.now()
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return nil, domain.ErrTokenInvalid
	}
	if !now.Before(c.ExpiresAt.Time) {
		return nil, domain.ErrTokenExpired
	}

	return &domain.Claims{
		UserID:    c.UserID,
		Email:     c.Email,
		Role:      role,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
