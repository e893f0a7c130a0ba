package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hrms-api/internal/pkg/metrics"
	"github.com/peoplehub/hrms-api/internal/core/domain"
	"github.com/peoplehub/hrms-api/internal/core/ports"
)

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying the authenticated identity.
func WithClaims(ctx context.Context, claims domain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the identity stored by RequireAuthenticated.
func ClaimsFromContext(ctx context.Context) (domain.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(domain.Claims)
	return c, ok
}

// RequireAuthenticated validates the bearer token and stores its claims in the
// request context. A missing or non-bearer Authorization header fails with
// domain.ErrAccessTokenMissing; a token that does not verify fails with the
// verifier's error (domain.ErrTokenInvalid or domain.ErrTokenExpired).
func RequireAuthenticated(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return domain.ErrAccessTokenMissing
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
					return domain.ErrTokenExpired
				}
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return domain.ErrTokenInvalid
			}
			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()

			req := c.Request()
			c.SetRequest(req.WithContext(WithClaims(req.Context(), *claims)))
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}
