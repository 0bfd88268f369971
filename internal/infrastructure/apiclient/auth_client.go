package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

// AuthClient implements ports.AuthAPI.
type AuthClient struct {
	gw *Gateway
}

func NewAuthClient(gw *Gateway) *AuthClient {
	return &AuthClient{gw: gw}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	RolesID              int    `json:"roles_id,omitempty"`
}

type authResponse struct {
	User  *userDTO `json:"user"`
	Token string   `json:"token"`
}

// toResult requires the user; the token may be absent when an administrator
// registers somebody else.
func (r authResponse) toResult(requireToken bool) (*ports.AuthResult, error) {
	if r.User == nil || (requireToken && r.Token == "") {
		return nil, transportError(fmt.Errorf("auth response without user or token"))
	}
	return &ports.AuthResult{Token: r.Token, User: r.User.toDomain()}, nil
}

func (c *AuthClient) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	var out authResponse
	err := c.gw.do(ctx, call{
		op:       "auth.login",
		method:   http.MethodPost,
		path:     "/login",
		body:     loginRequest{Email: in.Email, Password: in.Password},
		fallback: "Error desconocido al iniciar sesión",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.toResult(true)
}

func (c *AuthClient) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	var out authResponse
	err := c.gw.do(ctx, call{
		op:     "auth.register",
		method: http.MethodPost,
		path:   "/register",
		body: registerRequest{
			Name:                 in.Name,
			Email:                in.Email,
			Password:             in.Password,
			PasswordConfirmation: in.PasswordConfirmation,
			RolesID:              in.Role.Wire(),
		},
		fallback: "Error desconocido al registrar",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.toResult(in.Role == domain.RoleUnknown)
}

var _ ports.AuthAPI = (*AuthClient)(nil)
