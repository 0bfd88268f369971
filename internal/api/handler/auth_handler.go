package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/service"
)

type authService interface {
	Login(ctx context.Context, form service.LoginForm) (domain.Route, error)
	Register(ctx context.Context, form service.RegisterForm) (domain.Route, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (domain.Session, domain.Route)
}

type navigator interface {
	Layout(ctx context.Context) domain.Layout
}

type AuthHandler struct {
	auth authService
	nav  navigator
}

func NewAuthHandler(auth authService, nav navigator) *AuthHandler {
	return &AuthHandler{auth: auth, nav: nav}
}

// authResponse never carries the token: it stays in local storage.
type authResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *domain.User  `json:"user,omitempty"`
	Route         domain.Route  `json:"route"`
	Layout        domain.Layout `json:"layout"`
}

func (h *AuthHandler) respond(c echo.Context, status int, route domain.Route) error {
	ctx := c.Request().Context()
	sess, _ := h.auth.Restore(ctx)
	resp := authResponse{Route: route, Layout: h.nav.Layout(ctx)}
	if !sess.IsZero() {
		u := sess.User
		resp.Authenticated = true
		resp.User = &u
	}
	return c.JSON(status, resp)
}

// Login authenticates against the scheduling API and stores the session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      service.LoginForm  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var form service.LoginForm
	if err := decode(c, &form); err != nil {
		return err
	}

	route, err := h.auth.Login(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusOK, route)
}

// Register creates a patient account and logs it in.
//
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      service.RegisterForm  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var form service.RegisterForm
	if err := decode(c, &form); err != nil {
		return err
	}

	route, err := h.auth.Register(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusCreated, route)
}

// Logout forgets the local session.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Session reports the restored session and its landing route.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200   {object}  authResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	_, route := h.auth.Restore(c.Request().Context())
	return h.respond(c, http.StatusOK, route)
}
