package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

// ProfileForm is the profile screen input. Passwords are optional; when one
// is given both must match.
type ProfileForm struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
}

var profileMessages = map[string]string{
	"required": "Nombre y correo no pueden estar vacíos",
	"email":    msgInvalidEmail,
	"eqfield":  "Las contraseñas no coinciden",
}

// PersonForm is the profile extension input. BirthDate is YYYY-MM-DD.
type PersonForm struct {
	Cedula    string `json:"cedula" validate:"required"`
	BirthDate string `json:"fecha_nacimiento" validate:"required,datetime=2006-01-02"`
	Address   string `json:"direccion" validate:"required"`
	Phone     string `json:"telefono" validate:"required"`
}

var personMessages = map[string]string{
	"required": msgAllRequired,
	"datetime": "La fecha de nacimiento debe tener el formato AAAA-MM-DD",
}

// ProfileService drives the profile screen.
type ProfileService struct {
	users   ports.UserAPI
	persons ports.PersonAPI
	sess    *SessionContext
	log     zerolog.Logger
}

func NewProfileService(users ports.UserAPI, persons ports.PersonAPI, sess *SessionContext, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, persons: persons, sess: sess, log: log}
}

// Update sends the profile changes and re-persists the returned user.
func (s *ProfileService) Update(ctx context.Context, form ProfileForm) (*domain.User, error) {
	form.Name = trimmed(form.Name)
	form.Email = trimmed(form.Email)
	if err := checkForm(form, profileMessages); err != nil {
		return nil, err
	}
	sess, err := s.sess.Authorize(ctx, domain.RouteProfile)
	if err != nil {
		return nil, err
	}

	u, err := s.users.UpdateProfile(ctx, sess.Token, ports.ProfileUpdate{
		Name:                 form.Name,
		Email:                form.Email,
		Password:             form.Password,
		PasswordConfirmation: form.PasswordConfirmation,
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", s.sess.Observe(ctx, err))
	}
	if err := s.sess.UpdateUser(ctx, *u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.log.Info().Int64("user_id", u.ID).Msg("profile updated")
	return u, nil
}

// Person returns the current user's profile extension, or nil when none
// has been saved yet.
func (s *ProfileService) Person(ctx context.Context) (*domain.Person, error) {
	sess, err := s.sess.Authorize(ctx, domain.RouteProfile)
	if err != nil {
		return nil, err
	}
	p, err := s.persons.FindByUser(ctx, sess.Token, sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("person: %w", s.sess.Observe(ctx, err))
	}
	return p, nil
}

// SavePerson creates the record on first save and updates it afterwards.
func (s *ProfileService) SavePerson(ctx context.Context, form PersonForm) (*domain.Person, error) {
	form.Cedula = trimmed(form.Cedula)
	form.BirthDate = trimmed(form.BirthDate)
	form.Address = trimmed(form.Address)
	form.Phone = trimmed(form.Phone)
	if err := checkForm(form, personMessages); err != nil {
		return nil, err
	}
	birth, err := domain.ParseDate(form.BirthDate)
	if err != nil {
		return nil, domain.NewValidationError("fecha_nacimiento", personMessages["datetime"])
	}

	sess, err := s.sess.Authorize(ctx, domain.RouteProfile)
	if err != nil {
		return nil, err
	}
	existing, err := s.persons.FindByUser(ctx, sess.Token, sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("save person: %w", s.sess.Observe(ctx, err))
	}

	in := ports.PersonInput{
		UserID:    sess.User.ID,
		Cedula:    form.Cedula,
		BirthDate: birth,
		Address:   form.Address,
		Phone:     form.Phone,
	}
	var saved *domain.Person
	if existing == nil {
		saved, err = s.persons.Create(ctx, sess.Token, in)
	} else {
		saved, err = s.persons.Update(ctx, sess.Token, existing.ID, in)
	}
	if err != nil {
		return nil, fmt.Errorf("save person: %w", s.sess.Observe(ctx, err))
	}
	return saved, nil
}
