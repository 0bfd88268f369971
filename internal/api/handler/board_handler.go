package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/service"
)

type slotBoard interface {
	Load(ctx context.Context) error
	SelectProvider(ctx context.Context, nutritionistID int64) error
	ShiftDate(days int) domain.Date
	SetDate(day domain.Date)
	View() service.SlotBoardView
	ToggleSelected(slotID int64) (bool, error)
	Detail(ctx context.Context, slotID int64) (*service.SlotDetail, error)
	RequestCancel(slotID int64) error
	RequestFinalize(slotID int64) error
	RequestDeleteDay() error
	RequestDeleteSelected() error
	Dismiss()
	Confirm(ctx context.Context) (string, error)
}

// BoardHandler exposes the nutritionist's slot board. Administrators use it
// after picking a nutritionist.
type BoardHandler struct {
	board slotBoard
}

func NewBoardHandler(board slotBoard) *BoardHandler {
	return &BoardHandler{board: board}
}

func (h *BoardHandler) view(c echo.Context) error {
	return c.JSON(http.StatusOK, h.board.View())
}

// View returns the board without fetching.
//
// @Summary      Slot board
// @Tags         board
// @Produce      json
// @Success      200  {object}  service.SlotBoardView
// @Router       /app/board [get]
func (h *BoardHandler) View(c echo.Context) error { return h.view(c) }

// Load fetches the slots.
//
// @Summary      Load slots
// @Tags         board
// @Produce      json
// @Success      200  {object}  service.SlotBoardView
// @Failure      409  {object}  map[string]string
// @Router       /app/board/load [post]
func (h *BoardHandler) Load(c echo.Context) error {
	if err := h.board.Load(c.Request().Context()); err != nil {
		return err
	}
	return h.view(c)
}

// SelectProvider picks the nutritionist an administrator is viewing.
//
// @Summary      Select nutritionist (admin)
// @Tags         board
// @Accept       json
// @Produce      json
// @Param        body  body      providerRequest  true  "Nutritionist id"
// @Success      200   {object}  service.SlotBoardView
// @Router       /app/board/provider [post]
func (h *BoardHandler) SelectProvider(c echo.Context) error {
	var req providerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.board.SelectProvider(c.Request().Context(), req.ID); err != nil {
		return err
	}
	return h.view(c)
}

// Date moves the board to another day.
//
// @Summary      Change day
// @Tags         board
// @Accept       json
// @Produce      json
// @Param        body  body      dateRequest  true  "Absolute date or shift in days"
// @Success      200   {object}  service.SlotBoardView
// @Router       /app/board/date [post]
func (h *BoardHandler) Date(c echo.Context) error {
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
	return h.view(c)
}

// Toggle adds or removes a slot from the bulk selection.
//
// @Summary      Toggle selection
// @Tags         board
// @Produce      json
// @Param        id   path      int  true  "Slot id"
// @Success      200  {object}  service.SlotBoardView
// @Router       /app/board/slots/{id}/toggle [post]
func (h *BoardHandler) Toggle(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.board.ToggleSelected(id); err != nil {
		return err
	}
	return h.view(c)
}

// Detail returns a slot with its patient.
//
// @Summary      Slot detail
// @Tags         board
// @Produce      json
// @Param        id   path      int  true  "Slot id"
// @Success      200  {object}  service.SlotDetail
// @Failure      404  {object}  map[string]string
// @Router       /app/board/slots/{id} [get]
func (h *BoardHandler) Detail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.board.Detail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *BoardHandler) requestOne(c echo.Context, open func(int64) error) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := open(id); err != nil {
		return err
	}
	return h.view(c)
}

// RequestCancel opens the cancellation dialog.
//
// @Summary      Ask to cancel
// @Tags         board
// @Produce      json
// @Param        id   path      int  true  "Slot id"
// @Success      200  {object}  service.SlotBoardView
// @Router       /app/board/slots/{id}/cancel [post]
func (h *BoardHandler) RequestCancel(c echo.Context) error {
	return h.requestOne(c, h.board.RequestCancel)
}

// RequestFinalize opens the finalize dialog.
//
// @Summary      Ask to finalize
// @Tags         board
// @Produce      json
// @Param        id   path      int  true  "Slot id"
// @Success      200  {object}  service.SlotBoardView
// @Router       /app/board/slots/{id}/finalize [post]
func (h *BoardHandler) RequestFinalize(c echo.Context) error {
	return h.requestOne(c, h.board.RequestFinalize)
}

// RequestDeleteDay opens the delete-day dialog.
//
// @Summary      Ask to delete the day
// @Tags         board
// @Produce      json
// @Success      200  {object}  service.SlotBoardView
// @Router       /app/board/delete-day [post]
func (h *BoardHandler) RequestDeleteDay(c echo.Context) error {
	if err := h.board.RequestDeleteDay(); err != nil {
		return err
	}
	return h.view(c)
}

// RequestDeleteSelected opens the delete-selected dialog.
//
// @Summary      Ask to delete the selection
// @Tags         board
// @Produce      json
// @Success      200  {object}  service.SlotBoardView
// @Failure      409  {object}  map[string]string
// @Router       /app/board/delete-selected [post]
func (h *BoardHandler) RequestDeleteSelected(c echo.Context) error {
	if err := h.board.RequestDeleteSelected(); err != nil {
		return err
	}
	return h.view(c)
}

// Confirm submits the open dialog.
//
// @Summary      Confirm dialog
// @Tags         board
// @Produce      json
// @Success      200  {object}  actionResponse
// @Router       /app/board/confirm [post]
func (h *BoardHandler) Confirm(c echo.Context) error {
	msg, err := h.board.Confirm(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, actionResponse{Message: msg, View: h.board.View()})
}

// Dismiss closes the dialog and keeps the selection.
//
// @Summary      Dismiss dialog
// @Tags         board
// @Produce      json
// @Success      200  {object}  service.SlotBoardView
// @Router       /app/board/dismiss [post]
func (h *BoardHandler) Dismiss(c echo.Context) error {
	h.board.Dismiss()
	return h.view(c)
}

type generationService interface {
	Generate(ctx context.Context, form service.GenerationForm) (string, error)
}

type GenerationHandler struct {
	generation generationService
}

func NewGenerationHandler(generation generationService) *GenerationHandler {
	return &GenerationHandler{generation: generation}
}

// Generate expands a date and time range into slots.
//
// @Summary      Generate slots
// @Tags         board
// @Accept       json
// @Produce      json
// @Param        body  body      service.GenerationForm  true  "Range"
// @Success      201   {object}  messageResponse
// @Failure      422   {object}  map[string]string
// @Router       /app/generate [post]
func (h *GenerationHandler) Generate(c echo.Context) error {
	var form service.GenerationForm
	if err := decode(c, &form); err != nil {
		return err
	}
	msg, err := h.generation.Generate(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: msg})
}
