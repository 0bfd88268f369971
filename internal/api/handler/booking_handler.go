package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/service"
)

type reservationBoard interface {
	Providers(ctx context.Context) ([]domain.User, error)
	SelectProvider(ctx context.Context, provider domain.User) error
	Refresh(ctx context.Context) error
	ShiftDate(days int) domain.Date
	SetDate(day domain.Date)
	View() service.ReservationView
	RequestReservation(slotID int64) error
	RequestCancellation(slotID int64) error
	Dismiss()
	Confirm(ctx context.Context) (string, error)
}

// BookingHandler exposes the patient's reservation board.
type BookingHandler struct {
	board reservationBoard
}

func NewBookingHandler(board reservationBoard) *BookingHandler {
	return &BookingHandler{board: board}
}

// Providers lists the nutritionists available for booking.
//
// @Summary      Nutritionists
// @Tags         booking
// @Produce      json
// @Success      200  {array}   domain.User
// @Router       /app/booking/providers [get]
func (h *BookingHandler) Providers(c echo.Context) error {
	list, err := h.board.Providers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// SelectProvider loads every slot of one nutritionist.
//
// @Summary      Select nutritionist
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        body  body      providerRequest  true  "Nutritionist id"
// @Success      200   {object}  service.ReservationView
// @Failure      404   {object}  map[string]string
// @Router       /app/booking/provider [post]
func (h *BookingHandler) SelectProvider(c echo.Context) error {
	var req providerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	list, err := h.board.Providers(ctx)
	if err != nil {
		return err
	}
	for _, p := range list {
		if p.ID == req.ID {
			if err := h.board.SelectProvider(ctx, p); err != nil {
				return err
			}
			return c.JSON(http.StatusOK, h.board.View())
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "nutricionista no encontrado")
}

// View returns the board for the current day and provider.
//
// @Summary      Booking board
// @Tags         booking
// @Produce      json
// @Success      200  {object}  service.ReservationView
// @Router       /app/booking [get]
func (h *BookingHandler) View(c echo.Context) error {
	return c.JSON(http.StatusOK, h.board.View())
}

// Refresh re-fetches the provider's slots.
//
// @Summary      Refresh booking board
// @Tags         booking
// @Produce      json
// @Success      200  {object}  service.ReservationView
// @Router       /app/booking/refresh [post]
func (h *BookingHandler) Refresh(c echo.Context) error {
	if err := h.board.Refresh(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.board.View())
}

// Date moves the board to another day. Slots are not re-fetched.
//
// @Summary      Change day
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        body  body      dateRequest  true  "Absolute date or shift in days"
// @Success      200   {object}  service.ReservationView
// @Router       /app/booking/date [post]
func (h *BookingHandler) Date(c echo.Context) error {
	var req dateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Date != "" {
		d, _ := domain.ParseDate(req.Date)
		h.board.SetDate(d)
	}
	if req.Shift != 0 {
		h.board.ShiftDate(req.Shift)
	}
	return c.JSON(http.StatusOK, h.board.View())
}

// RequestReservation opens the reservation dialog.
//
// @Summary      Ask to reserve
// @Tags         booking
// @Produce      json
// @Param        id   path      int  true  "Slot id"
// @Success      200  {object}  service.ReservationView
// @Failure      409  {object}  map[string]string
// @Router       /app/booking/slots/{id}/reserve [post]
func (h *BookingHandler) RequestReservation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.board.RequestReservation(id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.board.View())
}

// RequestCancellation opens the cancellation dialog.
//
// @Summary      Ask to cancel
// @Tags         booking
// @Produce      json
// @Param        id   path      int  true  "Slot id"
// @Success      200  {object}  service.ReservationView
// @Failure      409  {object}  map[string]string
// @Router       /app/booking/slots/{id}/cancel [post]
func (h *BookingHandler) RequestCancellation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.board.RequestCancellation(id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.board.View())
}

type actionResponse struct {
	Message string `json:"message"`
	View    any    `json:"view"`
}

// Confirm submits the open dialog.
//
// @Summary      Confirm dialog
// @Tags         booking
// @Produce      json
// @Success      200  {object}  actionResponse
// @Failure      409  {object}  map[string]string
// @Router       /app/booking/confirm [post]
func (h *BookingHandler) Confirm(c echo.Context) error {
	msg, err := h.board.Confirm(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, actionResponse{Message: msg, View: h.board.View()})
}

// Dismiss closes the dialog.
//
// @Summary      Dismiss dialog
// @Tags         booking
// @Produce      json
// @Success      200  {object}  service.ReservationView
// @Router       /app/booking/dismiss [post]
func (h *BookingHandler) Dismiss(c echo.Context) error {
	h.board.Dismiss()
	return c.JSON(http.StatusOK, h.board.View())
}
