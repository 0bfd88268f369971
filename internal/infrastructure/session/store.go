// Package session persists the authenticated session as two device storage
// entries: the bearer token and the user blob.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/api/metrics"
	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

const (
	KeyToken = "token"
	KeyUser  = "usuario"
)

// userBlob keeps the server's field names so the stored profile reads the
// same as the API payload it came from.
type userBlob struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	RolesID   int    `json:"roles_id"`
	NombreRol string `json:"nombre_rol,omitempty"`
}

// Store implements ports.SessionStore over a ports.KeyValueStore.
type Store struct {
	kv  ports.KeyValueStore
	log zerolog.Logger
	now func() time.Time
}

func NewStore(kv ports.KeyValueStore, log zerolog.Logger) *Store {
	return &Store{
		kv:  kv,
		log: log.With().Str("component", "session").Logger(),
		now: time.Now,
	}
}

// Load returns the persisted session. Storage failures, a corrupt user blob
// and an expired token all read as no session; the expired one is removed.
func (s *Store) Load(ctx context.Context) (domain.Session, bool) {
	token, found, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("read token")
		metrics.SessionEventsTotal.WithLabelValues("corrupt").Inc()
		return domain.Session{}, false
	}
	if !found || token == "" {
		return domain.Session{}, false
	}

	raw, found, err := s.kv.Get(ctx, KeyUser)
	if err != nil || !found {
		s.log.Warn().Err(err).Bool("found", found).Msg("read user")
		metrics.SessionEventsTotal.WithLabelValues("corrupt").Inc()
		return domain.Session{}, false
	}
	var blob userBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		s.log.Warn().Err(err).Msg("decode user")
		metrics.SessionEventsTotal.WithLabelValues("corrupt").Inc()
		return domain.Session{}, false
	}

	sess := domain.Session{
		Token: token,
		User: domain.User{
			ID:    blob.ID,
			Name:  blob.Name,
			Email: blob.Email,
			Role:  domain.RoleFromWire(blob.RolesID),
		},
	}
	if sess.Expired(s.now()) {
		s.log.Info().Int64("user_id", blob.ID).Msg("stored session expired")
		metrics.SessionEventsTotal.WithLabelValues("expired").Inc()
		if err := s.Clear(ctx); err != nil {
			s.log.Warn().Err(err).Msg("clear expired session")
		}
		return domain.Session{}, false
	}
	return sess, true
}

func (s *Store) Save(ctx context.Context, sess domain.Session) error {
	if sess.IsZero() {
		return errors.New("save session: empty token")
	}
	blob, err := json.Marshal(userBlob{
		ID:        sess.User.ID,
		Name:      sess.User.Name,
		Email:     sess.User.Email,
		RolesID:   sess.User.Role.Wire(),
		NombreRol: sess.User.Role.DisplayName(),
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.kv.Set(ctx, KeyToken, sess.Token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.kv.Set(ctx, KeyUser, string(blob)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	metrics.SessionEventsTotal.WithLabelValues("saved").Inc()
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyUser, KeyToken); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	metrics.SessionEventsTotal.WithLabelValues("cleared").Inc()
	return nil
}

var _ ports.SessionStore = (*Store)(nil)
