package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

// UserClient implements ports.UserAPI.
type UserClient struct {
	gw *Gateway
}

func NewUserClient(gw *Gateway) *UserClient {
	return &UserClient{gw: gw}
}

type profileRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password,omitempty"`
	PasswordConfirmation string `json:"password_confirmation,omitempty"`
}

type adminUpdateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	RolesID int    `json:"roles_id"`
}

func (c *UserClient) decodeUser(raw []byte, op string) (*domain.User, error) {
	dto, ok, err := decodeOne[userDTO](raw, "user", "data")
	if err != nil {
		return nil, transportError(fmt.Errorf("%s: %w", op, err))
	}
	if !ok || dto.ID == 0 {
		return nil, transportError(fmt.Errorf("%s: empty user payload", op))
	}
	u := dto.toDomain()
	return &u, nil
}

func (c *UserClient) Profile(ctx context.Context, token string) (*domain.User, error) {
	raw, err := c.gw.doRaw(ctx, call{
		op:       "users.profile",
		method:   http.MethodGet,
		path:     "/perfil",
		token:    token,
		auth:     true,
		fallback: "No se pudo obtener el perfil",
	})
	if err != nil {
		return nil, err
	}
	return c.decodeUser(raw, "users.profile")
}

func (c *UserClient) UpdateProfile(ctx context.Context, token string, in ports.ProfileUpdate) (*domain.User, error) {
	raw, err := c.gw.doRaw(ctx, call{
		op:     "users.update_profile",
		method: http.MethodPut,
		path:   "/user",
		token:  token,
		auth:   true,
		body: profileRequest{
			Name:                 in.Name,
			Email:                in.Email,
			Password:             in.Password,
			PasswordConfirmation: in.PasswordConfirmation,
		},
		fallback: "No se pudo actualizar",
	})
	if err != nil {
		return nil, err
	}
	return c.decodeUser(raw, "users.update_profile")
}

func (c *UserClient) Get(ctx context.Context, token string, id int64) (*domain.User, error) {
	raw, err := c.gw.doRaw(ctx, call{
		op:       "users.get",
		method:   http.MethodGet,
		path:     "/user/" + strconv.FormatInt(id, 10),
		token:    token,
		auth:     true,
		fallback: "No se pudo obtener el usuario",
	})
	if err != nil {
		return nil, err
	}
	return c.decodeUser(raw, "users.get")
}

func (c *UserClient) List(ctx context.Context, token string) ([]domain.User, error) {
	raw, err := c.gw.doRaw(ctx, call{
		op:       "users.list",
		method:   http.MethodGet,
		path:     "/user",
		token:    token,
		auth:     true,
		fallback: "Error al cargar los usuarios.",
	})
	if err != nil {
		return nil, err
	}
	dtos, err := decodeList[userDTO](raw, "users", "data")
	if err != nil {
		return nil, transportError(fmt.Errorf("users.list: %w", err))
	}
	out := make([]domain.User, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (c *UserClient) Delete(ctx context.Context, token string, id int64) error {
	return c.gw.do(ctx, call{
		op:       "users.delete",
		method:   http.MethodDelete,
		path:     "/user/" + strconv.FormatInt(id, 10),
		token:    token,
		auth:     true,
		fallback: "No se pudo eliminar el usuario",
	}, nil)
}

func (c *UserClient) AdminUpdate(ctx context.Context, token string, id int64, in ports.AdminUserUpdate) error {
	return c.gw.do(ctx, call{
		op:       "users.admin_update",
		method:   http.MethodPut,
		path:     "/user/admin/" + strconv.FormatInt(id, 10),
		token:    token,
		auth:     true,
		body:     adminUpdateRequest{Name: in.Name, Email: in.Email, RolesID: in.Role.Wire()},
		fallback: "No se pudo actualizar el usuario",
	}, nil)
}

// RoleClient implements ports.RoleAPI.
type RoleClient struct {
	gw *Gateway
}

func NewRoleClient(gw *Gateway) *RoleClient {
	return &RoleClient{gw: gw}
}

func (c *RoleClient) List(ctx context.Context) ([]domain.RoleOption, error) {
	raw, err := c.gw.doRaw(ctx, call{
		op:       "roles.list",
		method:   http.MethodGet,
		path:     "/roles",
		fallback: "No se pudieron cargar los roles",
	})
	if err != nil {
		return nil, err
	}
	dtos, err := decodeList[roleDTO](raw, "roles", "data")
	if err != nil {
		return nil, transportError(fmt.Errorf("roles.list: %w", err))
	}
	out := make([]domain.RoleOption, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

var (
	_ ports.UserAPI = (*UserClient)(nil)
	_ ports.RoleAPI = (*RoleClient)(nil)
)
