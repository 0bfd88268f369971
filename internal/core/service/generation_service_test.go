package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

func validGenerationForm() GenerationForm {
	return GenerationForm{
		StartDate:  "2025-03-10",
		EndDate:    "2025-03-14",
		StartTime:  "08:00",
		EndTime:    "17:00",
		BreakStart: "12:00",
		BreakEnd:   "13:00",
	}
}

func TestGenerate_Validation(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*GenerationForm)
		field string
	}{
		{"missing field", func(f *GenerationForm) { f.BreakEnd = "" }, "descanso_fin"},
		{"bad date", func(f *GenerationForm) { f.StartDate = "10/03/2025" }, "fecha_inicio"},
		{"bad time", func(f *GenerationForm) { f.EndTime = "5pm" }, "hora_fin"},
		{"end before start date", func(f *GenerationForm) { f.EndDate = "2025-03-09" }, "fecha_fin"},
		{"end time not after start", func(f *GenerationForm) { f.EndTime = "08:00" }, "hora_fin"},
		{"break inverted", func(f *GenerationForm) { f.BreakEnd = "11:00" }, "descanso_fin"},
		{"start in the past", func(f *GenerationForm) { f.StartDate = "2025-03-09"; f.EndDate = "2025-03-09" }, "fecha_inicio"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &stubSlotAPI{}
			sess, _ := sessionFor(nutritionist)
			svc := NewGenerationService(api, sess, fixedClock(), zerolog.Nop())

			form := validGenerationForm()
			tc.edit(&form)
			_, err := svc.Generate(context.Background(), form)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Field != tc.field {
				t.Errorf("field = %q, want %q (%s)", ve.Field, tc.field, ve.Message)
			}
			if api.generated != nil {
				t.Error("API called despite invalid form")
			}
		})
	}
}

func TestGenerate_MissingFieldMessage(t *testing.T) {
	sess, _ := sessionFor(nutritionist)
	svc := NewGenerationService(&stubSlotAPI{}, sess, fixedClock(), zerolog.Nop())
	_, err := svc.Generate(context.Background(), GenerationForm{})
	if got := domain.MessageOf(err); got != msgAllRequired {
		t.Fatalf("message = %q", got)
	}
}

func TestGenerate_SendsParsedRequest(t *testing.T) {
	api := &stubSlotAPI{bulk: &ports.BulkResult{Message: "Se generaron 40 turnos", Count: 40}}
	sess, _ := sessionFor(nutritionist)
	svc := NewGenerationService(api, sess, fixedClock(), zerolog.Nop())

	form := validGenerationForm()
	form.StartDate, form.EndDate = "2025-03-10", "2025-03-10"
	msg, err := svc.Generate(context.Background(), form)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if msg != "Se generaron 40 turnos" {
		t.Errorf("msg = %q", msg)
	}
	in := api.generated
	if in.StartDate != mustDate("2025-03-10") || in.BreakStart != mustClock("12:00") || in.EndTime != mustClock("17:00") {
		t.Errorf("request = %+v", in)
	}
}

func TestGenerate_DefaultMessageAndRole(t *testing.T) {
	api := &stubSlotAPI{}
	sess, _ := sessionFor(nutritionist)
	svc := NewGenerationService(api, sess, fixedClock(), zerolog.Nop())
	msg, err := svc.Generate(context.Background(), validGenerationForm())
	if err != nil || msg != msgGenerated {
		t.Fatalf("Generate = %q, %v", msg, err)
	}

	psess, _ := sessionFor(patient)
	svc = NewGenerationService(api, psess, fixedClock(), zerolog.Nop())
	if _, err := svc.Generate(context.Background(), validGenerationForm()); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("patient: err = %v", err)
	}
}
