package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hrms-api/internal/api/middleware"
	"github.com/peoplehub/hrms-api/internal/core/domain"
)

// ctxClaims extracts the identity injected by the auth middleware. Its absence
// means the route was registered without RequireAuthenticated.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := middleware.ClaimsFromContext(c.Request().Context())
	if !ok || claims.Role == "" {
		return domain.Claims{}, domain.ErrAccessTokenMissing
	}
	return claims, nil
}
