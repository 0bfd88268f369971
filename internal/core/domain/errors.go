package domain

import (
	"errors"
	"net/http"
)

var (
	ErrMissingToken           = errors.New("no hay una sesión activa")
	ErrSessionExpired         = errors.New("la sesión ha expirado, inicie sesión nuevamente")
	ErrForbidden              = errors.New("acción no permitida para su rol")
	ErrNoProvider             = errors.New("seleccione un nutricionista")
	ErrSlotNotFound           = errors.New("turno no encontrado")
	ErrReservationNotAllowed  = errors.New("el turno no se puede reservar")
	ErrCancellationNotAllowed = errors.New("el turno no se puede cancelar")
	ErrFinalizeNotAllowed     = errors.New("el turno no se puede finalizar")
	ErrNothingSelected        = errors.New("no hay turnos seleccionados")
	ErrNoPendingAction        = errors.New("no hay ninguna acción pendiente de confirmar")
)

// GenericFailureMessage is shown for transport failures.
const GenericFailureMessage = "No se pudo conectar con el servidor"

// ErrorKind classifies remote failures.
type ErrorKind string

const (
	KindAuth       ErrorKind = "auth"
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindBusiness   ErrorKind = "business"
	KindTransport  ErrorKind = "transport"
)

// APIError is the single normalized failure returned by every API module,
// whatever shape the server used for its error body.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

// KindForStatus maps an HTTP status to an ErrorKind.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == 0:
		return KindTransport
	default:
		return KindBusiness
	}
}

// ValidationError is a client-side input failure detected before any request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// IsAuthFailure reports whether err means the user must log in again.
func IsAuthFailure(err error) bool {
	if errors.Is(err, ErrMissingToken) || errors.Is(err, ErrSessionExpired) {
		return true
	}
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == KindAuth
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == KindNotFound
}

// IsValidation reports whether err is a client- or server-side validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == KindValidation
}

// MessageOf returns the text to show a user for err: server messages
// verbatim, the generic fallback for anything unexpected.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	for _, known := range []error{
		ErrMissingToken, ErrSessionExpired, ErrForbidden, ErrNoProvider, ErrSlotNotFound,
		ErrReservationNotAllowed, ErrCancellationNotAllowed, ErrFinalizeNotAllowed,
		ErrNothingSelected, ErrNoPendingAction,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return GenericFailureMessage
}
