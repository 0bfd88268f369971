package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string              `json:"error"`
	Field  string              `json:"field,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// NewHTTPErrorHandler maps domain and remote errors to status codes and
// renders {"error": "<message>"} with the text a user should see.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: ve.Message, Field: ve.Field}
	}

	var ae *domain.APIError
	if errors.As(err, &ae) {
		resp := errorResponse{Error: ae.Message, Fields: ae.Fields}
		switch ae.Kind {
		case domain.KindAuth:
			return http.StatusUnauthorized, resp
		case domain.KindNotFound:
			return http.StatusNotFound, resp
		case domain.KindValidation:
			return http.StatusUnprocessableEntity, resp
		case domain.KindTransport:
			log.Warn().Err(ae.Err).Str("path", c.Path()).Msg("scheduling API unreachable")
			return http.StatusBadGateway, resp
		default:
			if ae.Status >= 400 && ae.Status < 500 {
				return ae.Status, resp
			}
			return http.StatusBadGateway, resp
		}
	}

	switch {
	case errors.Is(err, domain.ErrMissingToken), errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, errorResponse{Error: domain.MessageOf(err)}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: domain.MessageOf(err)}
	case errors.Is(err, domain.ErrSlotNotFound):
		return http.StatusNotFound, errorResponse{Error: domain.MessageOf(err)}
	case errors.Is(err, domain.ErrReservationNotAllowed),
		errors.Is(err, domain.ErrCancellationNotAllowed),
		errors.Is(err, domain.ErrFinalizeNotAllowed),
		errors.Is(err, domain.ErrNothingSelected),
		errors.Is(err, domain.ErrNoPendingAction),
		errors.Is(err, domain.ErrNoProvider):
		return http.StatusConflict, errorResponse{Error: domain.MessageOf(err)}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: domain.GenericFailureMessage}
}
