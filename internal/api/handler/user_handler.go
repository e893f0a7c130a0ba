package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hrms-api/internal/core/domain"
	"github.com/peoplehub/hrms-api/internal/core/ports"
)

// UserHandler exposes administrator-level identity operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type userDetailResponse struct {
	userResponse
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toUserDetail(u *domain.User) userDetailResponse {
	return userDetailResponse{
		userResponse: toUserResponse(u),
		Active:       u.Active,
		CreatedAt:    u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userDetailResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserDetail(user))
}

// ChangeRole handles PATCH /v1/users/:id/role.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  userDetailResponse
// @Failure      400   {object}  validationResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/{id}/role [patch]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	actor, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return domain.NewValidationError("role must be one of: admin hr manager employee")
	}

	user, err := h.service.ChangeRole(c.Request().Context(), actor, c.Param("id"), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserDetail(user))
}

// Deactivate handles POST /v1/users/:id/deactivate.
//
// @Summary      Deactivate a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userDetailResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c echo.Context) error {
	actor, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.service.Deactivate(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserDetail(user))
}
