package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hrms-api/internal/pkg/metrics"
	"github.com/peoplehub/hrms-api/internal/core/domain"
	"github.com/peoplehub/hrms-api/internal/core/ports"
)

// RequireRole enforces role-based access control. It must run after
// RequireAuthenticated; a request without claims fails with
// domain.ErrAccessTokenMissing rather than being checked against an empty role.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c.Request().Context())
			if !ok {
				return domain.ErrAccessTokenMissing
			}
			if _, ok := allowed[claims.Role]; !ok {
				metrics.AccessDeniedTotal.WithLabelValues(string(claims.Role)).Inc()
				return domain.ErrInsufficientPermissions
			}
			return next(c)
		}
	}
}

// Guard returns the authentication and role middleware in the order they
// must run. With no roles it only authenticates.
func Guard(verifier ports.TokenVerifier, roles ...domain.Role) []echo.MiddlewareFunc {
	mw := []echo.MiddlewareFunc{RequireAuthenticated(verifier)}
	if len(roles) > 0 {
		mw = append(mw, RequireRole(roles...))
	}
	return mw
}
