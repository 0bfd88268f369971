package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

// SessionContext is handed to every controller in place of a global session
// lookup. It caches the stored session and is the only writer of the store.
type SessionContext struct {
	store    ports.SessionStore
	platform domain.Platform
	log      zerolog.Logger

	mu      sync.RWMutex
	current domain.Session
	loaded  bool

	// generation changes whenever a loaded session gives way to another identity.
	generation atomic.Uint64
}

func NewSessionContext(store ports.SessionStore, platform domain.Platform, log zerolog.Logger) *SessionContext {
	if platform == "" {
		platform = domain.PlatformNative
	}
	return &SessionContext{store: store, platform: platform, log: log}
}

// Current returns the active session, loading it from the store on first
// use. It returns domain.ErrMissingToken when nobody is logged in.
func (c *SessionContext) Current(ctx context.Context) (domain.Session, error) {
	c.mu.RLock()
	if c.loaded {
		s := c.current
		c.mu.RUnlock()
		if s.IsZero() {
			return s, domain.ErrMissingToken
		}
		if s.Expired(time.Now()) {
			if err := c.Clear(ctx); err != nil {
				c.log.Warn().Err(err).Msg("clear expired session")
			}
			return domain.Session{}, domain.ErrSessionExpired
		}
		return s, nil
	}
	c.mu.RUnlock()

	s, _ := c.Reload(ctx)
	if s.IsZero() {
		return s, domain.ErrMissingToken
	}
	return s, nil
}

// Reload re-reads the store, discarding the cached copy.
func (c *SessionContext) Reload(ctx context.Context) (domain.Session, bool) {
	s, ok := c.store.Load(ctx)
	c.mu.Lock()
	c.replaceLocked(s)
	c.mu.Unlock()
	return s, ok
}

// Set persists s and makes it current.
func (c *SessionContext) Set(ctx context.Context, s domain.Session) error {
	if err := c.store.Save(ctx, s); err != nil {
		return err
	}
	c.mu.Lock()
	c.replaceLocked(s)
	c.mu.Unlock()
	return nil
}

// UpdateUser replaces the cached profile, keeping the token.
func (c *SessionContext) UpdateUser(ctx context.Context, u domain.User) error {
	s, err := c.Current(ctx)
	if err != nil {
		return err
	}
	s.User = u
	return c.Set(ctx, s)
}

// Clear removes the session from memory and storage.
func (c *SessionContext) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.replaceLocked(domain.Session{})
	c.mu.Unlock()
	return c.store.Clear(ctx)
}

// Generation identifies who is logged in. It changes on logout, on a login
// as someone else, and when a new token replaces the old one.
func (c *SessionContext) Generation() uint64 {
	return c.generation.Load()
}

func (c *SessionContext) replaceLocked(s domain.Session) {
	if c.loaded && (c.current.Token != s.Token || c.current.User.ID != s.User.ID) {
		c.generation.Add(1)
	}
	c.current = s
	c.loaded = true
}

// Layout returns the navigation graph for the current state.
func (c *SessionContext) Layout(ctx context.Context) domain.Layout {
	s, err := c.Current(ctx)
	if err != nil {
		s = domain.Session{}
	}
	return domain.Navigation(s, c.platform)
}

// Authorize returns the session when its role may open route.
func (c *SessionContext) Authorize(ctx context.Context, route domain.Route) (domain.Session, error) {
	s, err := c.Current(ctx)
	if err != nil {
		return s, err
	}
	if !domain.Navigation(s, c.platform).Allows(route) {
		return s, domain.ErrForbidden
	}
	return s, nil
}

// Observe clears the session when err means the credential is no longer
// accepted, and returns err unchanged.
func (c *SessionContext) Observe(ctx context.Context, err error) error {
	if err == nil || !domain.IsAuthFailure(err) || errors.Is(err, domain.ErrMissingToken) {
		return err
	}
	c.log.Info().Err(err).Msg("credential rejected, clearing session")
	if cerr := c.Clear(ctx); cerr != nil {
		c.log.Warn().Err(cerr).Msg("clear session")
	}
	return err
}

// Clock supplies "today" in the clinic's time zone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock returns a Clock on the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

// Today returns the current calendar day.
func (c Clock) Today() domain.Date {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return domain.Today(now(), c.Location)
}
