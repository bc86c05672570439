package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fixmycity/civic-api/internal/core/domain"
	"github.com/fixmycity/civic-api/internal/core/ports"
)

// UserHandler handles HTTP requests for profiles, role resolution and admin
// user management.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Me handles GET /v1/users/me: the principal's stored record, including the
// resolved role the guards act on.
//
// @Summary      Get the authenticated user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Request().Context(), actor.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Role handles GET /v1/users/me/role: the bare resolved role, cached with a
// short freshness window.
//
// @Summary      Resolve the authenticated user's role
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  roleResponse
// @Router       /v1/users/me/role [get]
func (h *UserHandler) Role(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	role, err := h.service.ResolveRole(c.Request().Context(), actor.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roleResponse{Email: actor.Email, Role: string(role)})
}

// Upsert handles POST /v1/users: record the user on first login, return the
// stored record afterwards.
//
// @Summary      Upsert the user record on login
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      upsertUserRequest  true  "Identity details"
// @Success      200   {object}  userResponse
// @Router       /v1/users [post]
func (h *UserHandler) Upsert(c echo.Context) error {
	var req upsertUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.UpsertOnLogin(c.Request().Context(), req.Email, req.Name, req.PhotoURL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Get handles GET /v1/users/:email (self or admin).
//
// @Summary      Get a user by email
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "User email"
// @Success      200    {object}  userResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/users/{email} [get]
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	email := c.Param("email")
	if actor.Email != email && actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	user, err := h.service.Get(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile handles PATCH /v1/users/:email (self or admin; profile fields
// only — role, premium and blocked flags move through dedicated operations).
//
// @Summary      Update profile fields
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string                true  "User email"
// @Param        body   body      updateProfileRequest  true  "Fields to change"
// @Success      200    {object}  userResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/users/{email} [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), actor, c.Param("email"), ports.ProfileUpdate{
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ListUsers handles GET /v1/admin/users with an optional role filter.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string  false  "Filter by role"
// @Success      200   {object}  userListResponse
// @Router       /v1/admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context(), domain.Role(c.QueryParam("role")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserListResponse(users))
}

// SetBlocked handles PATCH /v1/admin/users/:email/block.
//
// @Summary      Block or unblock a user
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        email  path  string             true  "User email"
// @Param        body   body  setBlockedRequest  true  "Blocked flag"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/users/{email}/block [patch]
func (h *UserHandler) SetBlocked(c echo.Context) error {
	var req setBlockedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.service.SetBlocked(c.Request().Context(), c.Param("email"), req.Blocked); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateStaff handles POST /v1/admin/staff. This is the only path that
// assigns the staff role.
//
// @Summary      Create a staff account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createStaffRequest  true  "Staff details"
// @Success      201   {object}  userResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/admin/staff [post]
func (h *UserHandler) CreateStaff(c echo.Context) error {
	var req createStaffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.CreateStaff(c.Request().Context(), ports.CreateStaffInput{
		Email:      req.Email,
		Name:       req.Name,
		Password:   req.Password,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// ListStaff handles GET /v1/admin/staff.
//
// @Summary      List the staff roster
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Router       /v1/admin/staff [get]
func (h *UserHandler) ListStaff(c echo.Context) error {
	users, err := h.service.ListStaff(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserListResponse(users))
}

// DeleteStaff handles DELETE /v1/admin/staff/:email. Citizens are never
// hard-deleted.
//
// @Summary      Delete a staff account
// @Tags         users
// @Security     BearerAuth
// @Param        email  path  string  true  "Staff email"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse  "target is not staff"
// @Router       /v1/admin/staff/{email} [delete]
func (h *UserHandler) DeleteStaff(c echo.Context) error {
	if err := h.service.DeleteStaff(c.Request().Context(), c.Param("email")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
