package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/clinica-nutricion/turnos-client/docs"
	"github.com/clinica-nutricion/turnos-client/internal/api/handler"
	"github.com/clinica-nutricion/turnos-client/internal/api/middleware"
	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/service"
)

// Services is everything the web companion drives.
type Services struct {
	Session      *service.SessionContext
	Auth         *service.AuthService
	Profile      *service.ProfileService
	Dashboard    *service.DashboardService
	History      *service.HistoryService
	Generation   *service.GenerationService
	Users        *service.UserAdminService
	Reservations *service.ReservationBoard
	Slots        *service.SlotBoard

	// Checks back GET /health/ready.
	Checks map[string]handler.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth, svc.Session)
	navHandler := handler.NewNavHandler(svc.Session)
	profileHandler := handler.NewProfileHandler(svc.Profile, svc.Auth)
	dashboardHandler := handler.NewDashboardHandler(svc.Dashboard)
	historyHandler := handler.NewHistoryHandler(svc.History)
	bookingHandler := handler.NewBookingHandler(svc.Reservations)
	boardHandler := handler.NewBoardHandler(svc.Slots)
	generationHandler := handler.NewGenerationHandler(svc.Generation)
	userHandler := handler.NewUserHandler(svc.Users)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session)

	// --- Screens (session required) ---
	app := e.Group("/app", middleware.Session(svc.Session))
	app.GET("/nav", navHandler.Layout)
	app.GET("/profile", profileHandler.Get)
	app.PUT("/profile", profileHandler.Update)
	app.GET("/profile/person", profileHandler.Person)
	app.PUT("/profile/person", profileHandler.SavePerson)
	app.GET("/dashboard", dashboardHandler.Get)

	patient := app.Group("", middleware.RBAC(domain.RolePatient, domain.RoleUnknown))
	patient.GET("/history", historyHandler.List)
	patient.GET("/booking", bookingHandler.View)
	patient.GET("/booking/providers", bookingHandler.Providers)
	patient.POST("/booking/provider", bookingHandler.SelectProvider)
	patient.POST("/booking/refresh", bookingHandler.Refresh)
	patient.POST("/booking/date", bookingHandler.Date)
	patient.POST("/booking/slots/:id/reserve", bookingHandler.RequestReservation)
	patient.POST("/booking/slots/:id/cancel", bookingHandler.RequestCancellation)
	patient.POST("/booking/confirm", bookingHandler.Confirm)
	patient.POST("/booking/dismiss", bookingHandler.Dismiss)

	staff := app.Group("", middleware.RBAC(domain.RoleNutritionist, domain.RoleAdministrator))
	staff.GET("/board", boardHandler.View)
	staff.POST("/board/load", boardHandler.Load)
	staff.POST("/board/provider", boardHandler.SelectProvider)
	staff.POST("/board/date", boardHandler.Date)
	staff.GET("/board/slots/:id", boardHandler.Detail)
	staff.POST("/board/slots/:id/toggle", boardHandler.Toggle)
	staff.POST("/board/slots/:id/cancel", boardHandler.RequestCancel)
	staff.POST("/board/slots/:id/finalize", boardHandler.RequestFinalize)
	staff.POST("/board/delete-day", boardHandler.RequestDeleteDay)
	staff.POST("/board/delete-selected", boardHandler.RequestDeleteSelected)
	staff.POST("/board/confirm", boardHandler.Confirm)
	staff.POST("/board/dismiss", boardHandler.Dismiss)

	nutri := app.Group("", middleware.RBAC(domain.RoleNutritionist))
	nutri.POST("/generate", generationHandler.Generate)

	admin := app.Group("", middleware.RBAC(domain.RoleAdministrator))
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.GET("/roles", userHandler.Roles)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(svc.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	docs.SwaggerInfo.BasePath = "/"
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
