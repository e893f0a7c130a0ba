package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hrms-api/internal/core/routeauth"
)

// NavigationHandler serves the role-based navigation table to the dashboard.
type NavigationHandler struct {
	table *routeauth.Table
}

func NewNavigationHandler(table *routeauth.Table) *NavigationHandler {
	return &NavigationHandler{table: table}
}

type navigationResponse struct {
	Role    string   `json:"role"`
	Landing string   `json:"landing"`
	Policy  string   `json:"policy"`
	Routes  []string `json:"routes"`
}

// List returns the routes the caller's role may open.
//
// @Summary      Navigable routes
// @Tags         navigation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  navigationResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/navigation [get]
func (h *NavigationHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, navigationResponse{
		Role:    string(claims.Role),
		Landing: routeauth.LandingRoute,
		Policy:  string(h.table.Policy()),
		Routes:  h.table.AllowedRoutes(claims.Role),
	})
}

// Resolve evaluates a navigation to a single route for the caller's session.
//
// @Summary      Resolve a navigation
// @Tags         navigation
// @Produce      json
// @Security     BearerAuth
// @Param        route  path      string  true  "Route key"
// @Success      200    {object}  routeauth.Decision
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/navigation/{route} [get]
func (h *NavigationHandler) Resolve(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	nav := routeauth.NewNavigator(h.table)
	nav.Login(claims.Role)
	return c.JSON(http.StatusOK, nav.Navigate(c.Param("route")))
}
