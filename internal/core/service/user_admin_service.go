package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

// AdminUserForm is the edit dialog of the user list.
type AdminUserForm struct {
	Name  string      `json:"name" validate:"required"`
	Email string      `json:"email" validate:"required,email"`
	Role  domain.Role `json:"roles_id" validate:"required"`
}

// CreateUserForm is the administrator's registration screen.
type CreateUserForm struct {
	Name                 string      `json:"name" validate:"required"`
	Email                string      `json:"email" validate:"required,email"`
	Password             string      `json:"password" validate:"required"`
	PasswordConfirmation string      `json:"password_confirmation" validate:"required,eqfield=Password"`
	Role                 domain.Role `json:"roles_id" validate:"required"`
}

var adminMessages = map[string]string{
	"required": msgAllRequired,
	"email":    msgInvalidEmail,
	"eqfield":  "Verifica que ambas contraseñas sean iguales.",
}

const msgUserCreated = "Usuario registrado correctamente"

// UserAdminService drives the administrator screens.
type UserAdminService struct {
	users ports.UserAPI
	roles ports.RoleAPI
	auth  ports.AuthAPI
	sess  *SessionContext
	log   zerolog.Logger
}

func NewUserAdminService(users ports.UserAPI, roles ports.RoleAPI, auth ports.AuthAPI, sess *SessionContext, log zerolog.Logger) *UserAdminService {
	return &UserAdminService{users: users, roles: roles, auth: auth, sess: sess, log: log}
}

// List returns every non-administrator account.
func (s *UserAdminService) List(ctx context.Context) ([]domain.User, error) {
	sess, err := s.sess.Authorize(ctx, domain.RouteUsers)
	if err != nil {
		return nil, err
	}
	all, err := s.users.List(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", s.sess.Observe(ctx, err))
	}
	out := make([]domain.User, 0, len(all))
	for _, u := range all {
		if u.Role != domain.RoleAdministrator {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UserAdminService) Delete(ctx context.Context, id int64) error {
	sess, err := s.sess.Authorize(ctx, domain.RouteUsers)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, sess.Token, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, s.sess.Observe(ctx, err))
	}
	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserAdminService) Update(ctx context.Context, id int64, form AdminUserForm) error {
	form.Name = trimmed(form.Name)
	form.Email = trimmed(form.Email)
	if err := checkForm(form, adminMessages); err != nil {
		return err
	}
	sess, err := s.sess.Authorize(ctx, domain.RouteUsers)
	if err != nil {
		return err
	}
	err = s.users.AdminUpdate(ctx, sess.Token, id, ports.AdminUserUpdate{Name: form.Name, Email: form.Email, Role: form.Role})
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, s.sess.Observe(ctx, err))
	}
	s.log.Info().Int64("user_id", id).Str("role", form.Role.String()).Msg("user updated")
	return nil
}

// Create registers an account with an explicit role. The administrator's
// own session is left untouched.
func (s *UserAdminService) Create(ctx context.Context, form CreateUserForm) (string, error) {
	form.Name = trimmed(form.Name)
	form.Email = trimmed(form.Email)
	if err := checkForm(form, adminMessages); err != nil {
		return "", err
	}
	if _, err := s.sess.Authorize(ctx, domain.RouteRegisterUser); err != nil {
		return "", err
	}
	res, err := s.auth.Register(ctx, ports.RegisterInput{
		Name:                 form.Name,
		Email:                form.Email,
		Password:             form.Password,
		PasswordConfirmation: form.PasswordConfirmation,
		Role:                 form.Role,
	})
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	s.log.Info().Int64("user_id", res.User.ID).Str("role", form.Role.String()).Msg("user created")
	return msgUserCreated, nil
}

// Roles returns the role catalog.
func (s *UserAdminService) Roles(ctx context.Context) ([]domain.RoleOption, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("roles: %w", err)
	}
	return roles, nil
}
