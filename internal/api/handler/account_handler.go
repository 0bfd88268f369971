package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/service"
)

type profileService interface {
	Update(ctx context.Context, form service.ProfileForm) (*domain.User, error)
	Person(ctx context.Context) (*domain.Person, error)
	SavePerson(ctx context.Context, form service.PersonForm) (*domain.Person, error)
}

type profileRefresher interface {
	RefreshProfile(ctx context.Context) (*domain.User, error)
}

// ProfileHandler serves the profile screen.
type ProfileHandler struct {
	profile profileService
	refresh profileRefresher
}

func NewProfileHandler(profile profileService, refresh profileRefresher) *ProfileHandler {
	return &ProfileHandler{profile: profile, refresh: refresh}
}

// Get re-fetches the profile from the API.
//
// @Summary      Current profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /app/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	u, err := h.refresh.RefreshProfile(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Update changes name, email and optionally the password.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      service.ProfileForm  true  "Profile"
// @Success      200   {object}  domain.User
// @Failure      422   {object}  map[string]string
// @Router       /app/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	var form service.ProfileForm
	if err := decode(c, &form); err != nil {
		return err
	}
	u, err := h.profile.Update(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Person returns the profile extension; 204 when none has been saved.
//
// @Summary      Personal data
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.Person
// @Success      204
// @Router       /app/profile/person [get]
func (h *ProfileHandler) Person(c echo.Context) error {
	p, err := h.profile.Person(c.Request().Context())
	if err != nil {
		return err
	}
	if p == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, p)
}

// SavePerson creates or updates the profile extension.
//
// @Summary      Save personal data
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      service.PersonForm  true  "Personal data"
// @Success      200   {object}  domain.Person
// @Failure      422   {object}  map[string]string
// @Router       /app/profile/person [put]
func (h *ProfileHandler) SavePerson(c echo.Context) error {
	var form service.PersonForm
	if err := decode(c, &form); err != nil {
		return err
	}
	p, err := h.profile.SavePerson(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

type dashboardService interface {
	Overview(ctx context.Context) (*service.Dashboard, error)
	Nutritionist(ctx context.Context, id int64) (*domain.User, error)
}

type DashboardHandler struct {
	dashboard dashboardService
}

func NewDashboardHandler(dashboard dashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

type dashboardResponse struct {
	*service.Dashboard
	Nutritionist *domain.User `json:"nutritionist,omitempty"`
}

// Get returns the landing screen: the profile and, for patients, the
// active reservation with its nutritionist.
//
// @Summary      Dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Router       /app/dashboard [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	d, err := h.dashboard.Overview(ctx)
	if err != nil {
		return err
	}
	resp := dashboardResponse{Dashboard: d}
	if d.Reserved != nil {
		n, err := h.dashboard.Nutritionist(ctx, d.Reserved.NutritionistID)
		if err != nil && domain.IsAuthFailure(err) {
			return err
		}
		if err != nil {
			u := domain.UnknownUser(d.Reserved.NutritionistID)
			n = &u
		}
		resp.Nutritionist = n
	}
	return c.JSON(http.StatusOK, resp)
}

type historyService interface {
	Finalized(ctx context.Context, day domain.Date) (*service.History, error)
}

type HistoryHandler struct {
	history historyService
}

func NewHistoryHandler(history historyService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List returns the finalized appointments of a day (today by default).
//
// @Summary      Appointment history
// @Tags         history
// @Produce      json
// @Param        date  query     string  false  "YYYY-MM-DD"
// @Success      200   {object}  service.History
// @Router       /app/history [get]
func (h *HistoryHandler) List(c echo.Context) error {
	day, err := queryDate(c, "date")
	if err != nil {
		return err
	}
	hist, err := h.history.Finalized(c.Request().Context(), day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hist)
}
