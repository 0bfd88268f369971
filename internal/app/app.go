// Package app assembles the client from its configuration: the session
// backend, the API gateway and its modules, and the screen controllers.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/api"
	"github.com/clinica-nutricion/turnos-client/internal/api/handler"
	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
	"github.com/clinica-nutricion/turnos-client/internal/core/service"
	"github.com/clinica-nutricion/turnos-client/internal/infrastructure/apiclient"
	"github.com/clinica-nutricion/turnos-client/internal/infrastructure/config"
	"github.com/clinica-nutricion/turnos-client/internal/infrastructure/db/mongo"
	"github.com/clinica-nutricion/turnos-client/internal/infrastructure/db/redis"
	"github.com/clinica-nutricion/turnos-client/internal/infrastructure/queue"
	"github.com/clinica-nutricion/turnos-client/internal/infrastructure/session"
	"github.com/clinica-nutricion/turnos-client/internal/infrastructure/storage/file"
)

const resolverWorkers = 4

// backend is a KeyValueStore that can report its own health.
type backend interface {
	ports.KeyValueStore
	Ping(ctx context.Context) error
}

// App holds one controller set. Both front ends serve a single local user,
// so one App lives for the whole process.
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	Clock  service.Clock

	Gateway *apiclient.Gateway
	Store   backend
	Session *service.SessionContext

	Auth         *service.AuthService
	Profile      *service.ProfileService
	Dashboard    *service.DashboardService
	History      *service.HistoryService
	Generation   *service.GenerationService
	Users        *service.UserAdminService
	Reservations *service.ReservationBoard
	Slots        *service.SlotBoard

	closers []func(context.Context) error
}

// New opens the configured session backend and wires everything on top of it.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Log: log, Clock: service.SystemClock(loc)}
	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	a.Gateway = apiclient.NewGateway(apiclient.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
	}, log)

	authAPI := apiclient.NewAuthClient(a.Gateway)
	userAPI := apiclient.NewUserClient(a.Gateway)
	roleAPI := apiclient.NewRoleClient(a.Gateway)
	personAPI := apiclient.NewPersonClient(a.Gateway)
	slotAPI := apiclient.NewSlotClient(a.Gateway)
	directory := queue.NewResolver(userAPI, resolverWorkers, log)

	a.Session = service.NewSessionContext(session.NewStore(a.Store, log), domain.Platform(cfg.Platform), log)

	a.Auth = service.NewAuthService(authAPI, userAPI, a.Session, log)
	a.Profile = service.NewProfileService(userAPI, personAPI, a.Session, log)
	a.Dashboard = service.NewDashboardService(userAPI, slotAPI, a.Session, log)
	a.History = service.NewHistoryService(slotAPI, directory, a.Session, a.Clock, log)
	a.Generation = service.NewGenerationService(slotAPI, a.Session, a.Clock, log)
	a.Users = service.NewUserAdminService(userAPI, roleAPI, authAPI, a.Session, log)
	a.Reservations = service.NewReservationBoard(slotAPI, userAPI, a.Session, a.Clock, log)
	a.Slots = service.NewSlotBoard(slotAPI, userAPI, a.Session, a.Clock, log)

	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config
	switch cfg.Session.Backend {
	case config.BackendRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("session backend: %w", err)
		}
		a.Store = redis.NewStore(client, cfg.Session.Prefix)
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })

	case config.BackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "turnos-client",
		})
		if err != nil {
			return fmt.Errorf("session backend: %w", err)
		}
		a.Store = mongo.NewStore(db, cfg.Session.Prefix)
		a.closers = append(a.closers, client.Disconnect)

	default:
		dir := cfg.Session.Dir
		if dir == "" {
			dir = file.DefaultDir()
		}
		store, err := file.NewStore(file.Options{Dir: dir, Passphrase: cfg.Session.Passphrase})
		if err != nil {
			return fmt.Errorf("session backend: %w", err)
		}
		a.Store = store
	}

	a.Log.Debug().Str("backend", cfg.Session.Backend).Msg("session backend ready")
	return nil
}

// Checks returns the readiness probes: the session backend and the API.
func (a *App) Checks() map[string]handler.Check {
	return map[string]handler.Check{
		"session_store": a.Store.Ping,
		"api":           a.Gateway.Ping,
	}
}

// Services exposes the controllers to the web companion.
func (a *App) Services() api.Services {
	return api.Services{
		Session:      a.Session,
		Auth:         a.Auth,
		Profile:      a.Profile,
		Dashboard:    a.Dashboard,
		History:      a.History,
		Generation:   a.Generation,
		Users:        a.Users,
		Reservations: a.Reservations,
		Slots:        a.Slots,
		Checks:       a.Checks(),
	}
}

// Close releases the session backend connection, if any.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
