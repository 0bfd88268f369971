package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/service"
)

type userAdminService interface {
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error
	Update(ctx context.Context, id int64, form service.AdminUserForm) error
	Create(ctx context.Context, form service.CreateUserForm) (string, error)
	Roles(ctx context.Context) ([]domain.RoleOption, error)
}

// UserHandler serves the administrator screens.
type UserHandler struct {
	users userAdminService
}

func NewUserHandler(users userAdminService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns every non-administrator account.
//
// @Summary      Users
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Router       /app/users [get]
func (h *UserHandler) List(c echo.Context) error {
	list, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Create registers an account with an explicit role.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      service.CreateUserForm  true  "Account"
// @Success      201   {object}  messageResponse
// @Failure      422   {object}  map[string]string
// @Router       /app/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var form service.CreateUserForm
	if err := decode(c, &form); err != nil {
		return err
	}
	msg, err := h.users.Create(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: msg})
}

// Update changes name, email and role.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Param        id    path  int                    true  "User id"
// @Param        body  body  service.AdminUserForm  true  "Account"
// @Success      204
// @Router       /app/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var form service.AdminUserForm
	if err := decode(c, &form); err != nil {
		return err
	}
	if err := h.users.Update(c.Request().Context(), id, form); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes an account.
//
// @Summary      Delete user
// @Tags         users
// @Param        id   path  int  true  "User id"
// @Success      204
// @Router       /app/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Roles returns the role catalog.
//
// @Summary      Roles
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.RoleOption
// @Router       /app/roles [get]
func (h *UserHandler) Roles(c echo.Context) error {
	roles, err := h.users.Roles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// NavHandler serves the navigation graph for the current session.
type NavHandler struct {
	nav navigator
}

func NewNavHandler(nav navigator) *NavHandler {
	return &NavHandler{nav: nav}
}

// Layout returns the screens the session may open.
//
// @Summary      Navigation
// @Tags         nav
// @Produce      json
// @Success      200  {object}  domain.Layout
// @Router       /app/nav [get]
func (h *NavHandler) Layout(c echo.Context) error {
	return c.JSON(http.StatusOK, h.nav.Layout(c.Request().Context()))
}
