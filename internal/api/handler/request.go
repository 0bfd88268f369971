package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
)

// decode binds the body into req. Service forms are validated by the
// services themselves, with their own messages.
func decode(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la solicitud inválido")
	}
	return nil
}

// bind decodes the body into req and runs the echo validator on it.
func bind(c echo.Context, req any) error {
	if err := decode(c, req); err != nil {
		return err
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}

// pathID reads a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" inválido")
	}
	return id, nil
}

// queryDate reads an optional YYYY-MM-DD query parameter.
func queryDate(c echo.Context, name string) (domain.Date, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return domain.Date{}, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, domain.NewValidationError(name, name+" debe tener el formato AAAA-MM-DD")
	}
	return d, nil
}

// dateRequest moves a board to a day: either an absolute date or a shift.
type dateRequest struct {
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Shift int    `json:"shift"`
}

type providerRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type messageResponse struct {
	Message string `json:"message"`
}
