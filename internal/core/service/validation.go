package service

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
)

const (
	msgRequiredFields = "Por favor llena todos los campos."
	msgInvalidEmail   = "Ingrese un correo electrónico válido."
	msgAllRequired    = "Todos los campos son obligatorios"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// checkForm validates form and turns the first failure into a
// *domain.ValidationError. messages maps a validator tag to the text shown;
// tags without an entry fall back to msgRequiredFields.
func checkForm(form any, messages map[string]string) error {
	err := formValidator().Struct(form)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}
	fe := ve[0]
	msg, ok := messages[fe.Tag()]
	if !ok {
		msg = msgRequiredFields
	}
	return domain.NewValidationError(fe.Field(), msg)
}

// trimmed returns s without surrounding blanks.
func trimmed(s string) string { return strings.TrimSpace(s) }
