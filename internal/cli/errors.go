package cli

import (
	"errors"
	"io"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
)

// setupError is a failure to assemble the application: bad configuration or
// an unreachable session backend. Its text is shown as is.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return "configuración: " + e.err.Error() }

func (e *setupError) Unwrap() error { return e.err }

// PrintError writes the message a user should see for err. A lost session
// also points at the login command.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var se *setupError
	if errors.As(err, &se) {
		errColor.Fprintln(w, se.Error())
		return
	}
	msg := domain.MessageOf(err)
	var ae *domain.APIError
	if msg == domain.GenericFailureMessage && !errors.As(err, &ae) {
		// usage errors from cobra and local failures
		msg = err.Error()
	}
	errColor.Fprintln(w, msg)
	if domain.IsAuthFailure(err) {
		io.WriteString(w, "Inicie sesión con: turnos login\n")
	}
}
