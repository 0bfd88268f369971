package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

// LoginForm is the login screen input.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterForm is the self-registration screen input.
type RegisterForm struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

var credentialMessages = map[string]string{
	"required": msgRequiredFields,
	"email":    msgInvalidEmail,
	"eqfield":  "Verifica que ambas contraseñas sean iguales.",
}

// AuthService drives the login, registration and logout screens.
type AuthService struct {
	auth  ports.AuthAPI
	users ports.UserAPI
	sess  *SessionContext
	log   zerolog.Logger
}

func NewAuthService(auth ports.AuthAPI, users ports.UserAPI, sess *SessionContext, log zerolog.Logger) *AuthService {
	return &AuthService{auth: auth, users: users, sess: sess, log: log}
}

// Login authenticates, persists the session and returns the landing route.
func (s *AuthService) Login(ctx context.Context, form LoginForm) (domain.Route, error) {
	form.Email = trimmed(form.Email)
	if err := checkForm(form, credentialMessages); err != nil {
		return "", err
	}

	res, err := s.auth.Login(ctx, ports.LoginInput{Email: form.Email, Password: form.Password})
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if err := s.sess.Set(ctx, domain.Session{Token: res.Token, User: res.User}); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	s.log.Info().Int64("user_id", res.User.ID).Str("role", res.User.Role.String()).Msg("logged in")
	return domain.LandingRoute(res.User.Role), nil
}

// Register creates a patient account and logs it in.
func (s *AuthService) Register(ctx context.Context, form RegisterForm) (domain.Route, error) {
	form.Name = trimmed(form.Name)
	form.Email = trimmed(form.Email)
	if err := checkForm(form, credentialMessages); err != nil {
		return "", err
	}

	res, err := s.auth.Register(ctx, ports.RegisterInput{
		Name:                 form.Name,
		Email:                form.Email,
		Password:             form.Password,
		PasswordConfirmation: form.PasswordConfirmation,
	})
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	if err := s.sess.Set(ctx, domain.Session{Token: res.Token, User: res.User}); err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	s.log.Info().Int64("user_id", res.User.ID).Msg("registered")
	return domain.LandingRoute(res.User.Role), nil
}

// Logout forgets the session. The server keeps no client state to revoke.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sess.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Restore returns the persisted session and its landing route, or the
// login route when there is none.
func (s *AuthService) Restore(ctx context.Context) (domain.Session, domain.Route) {
	sess, err := s.sess.Current(ctx)
	if err != nil {
		return domain.Session{}, domain.RouteLogin
	}
	return sess, domain.LandingRoute(sess.User.Role)
}

// RefreshProfile re-fetches the profile and re-persists it. A rejected
// credential clears the session.
func (s *AuthService) RefreshProfile(ctx context.Context) (*domain.User, error) {
	sess, err := s.sess.Current(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Profile(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("refresh profile: %w", s.sess.Observe(ctx, err))
	}
	if err := s.sess.UpdateUser(ctx, *u); err != nil {
		return nil, fmt.Errorf("refresh profile: %w", err)
	}
	return u, nil
}
