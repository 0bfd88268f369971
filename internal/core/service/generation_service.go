package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

// GenerationForm is the slot generation screen input: dates YYYY-MM-DD,
// times HH:MM.
type GenerationForm struct {
	StartDate  string `json:"fecha_inicio" validate:"required"`
	EndDate    string `json:"fecha_fin" validate:"required"`
	StartTime  string `json:"hora_inicio" validate:"required"`
	EndTime    string `json:"hora_fin" validate:"required"`
	BreakStart string `json:"descanso_inicio" validate:"required"`
	BreakEnd   string `json:"descanso_fin" validate:"required"`
}

const msgGenerated = "Turnos generados correctamente"

// GenerationService drives the slot generation screen.
type GenerationService struct {
	slots ports.SlotAPI
	sess  *SessionContext
	clock Clock
	log   zerolog.Logger
}

func NewGenerationService(slots ports.SlotAPI, sess *SessionContext, clock Clock, log zerolog.Logger) *GenerationService {
	return &GenerationService{slots: slots, sess: sess, clock: clock, log: log}
}

// parse checks the form in the order the screen reports problems and
// returns the request to send.
func (s *GenerationService) parse(form GenerationForm) (ports.GenerateInput, error) {
	if err := checkForm(form, map[string]string{"required": msgAllRequired}); err != nil {
		return ports.GenerateInput{}, err
	}
	var in ports.GenerateInput
	var err error
	if in.StartDate, err = domain.ParseDate(form.StartDate); err != nil {
		return in, domain.NewValidationError("fecha_inicio", "La fecha inicio no es válida")
	}
	if in.EndDate, err = domain.ParseDate(form.EndDate); err != nil {
		return in, domain.NewValidationError("fecha_fin", "La fecha fin no es válida")
	}
	times := []struct {
		field string
		raw   string
		dst   *domain.ClockTime
	}{
		{"hora_inicio", form.StartTime, &in.StartTime},
		{"hora_fin", form.EndTime, &in.EndTime},
		{"descanso_inicio", form.BreakStart, &in.BreakStart},
		{"descanso_fin", form.BreakEnd, &in.BreakEnd},
	}
	for _, t := range times {
		if *t.dst, err = domain.ParseClock(t.raw); err != nil {
			return in, domain.NewValidationError(t.field, "La hora debe tener el formato HH:MM")
		}
	}

	if in.EndDate.Before(in.StartDate) {
		return in, domain.NewValidationError("fecha_fin", "La fecha fin debe ser igual o posterior a la fecha inicio")
	}
	if in.EndTime <= in.StartTime {
		return in, domain.NewValidationError("hora_fin", "La hora fin debe ser posterior a la hora inicio")
	}
	if in.BreakEnd <= in.BreakStart {
		return in, domain.NewValidationError("descanso_fin", "El descanso fin debe ser posterior al descanso inicio")
	}
	if in.StartDate.Before(s.clock.Today()) {
		return in, domain.NewValidationError("fecha_inicio", "La fecha inicio no puede ser anterior a hoy")
	}
	return in, nil
}

// Generate validates the form locally and asks the server to expand it into
// slots. The returned text is the server's message or a default.
func (s *GenerationService) Generate(ctx context.Context, form GenerationForm) (string, error) {
	in, err := s.parse(form)
	if err != nil {
		return "", err
	}
	sess, err := s.sess.Authorize(ctx, domain.RouteGenerateSlots)
	if err != nil {
		return "", err
	}
	res, err := s.slots.Generate(ctx, sess.Token, in)
	if err != nil {
		return "", fmt.Errorf("generate slots: %w", s.sess.Observe(ctx, err))
	}
	s.log.Info().
		Str("from", in.StartDate.String()).
		Str("to", in.EndDate.String()).
		Int("count", res.Count).
		Msg("slots generated")
	if res.Message == "" {
		return msgGenerated, nil
	}
	return res.Message, nil
}
