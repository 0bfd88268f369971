package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

// Dashboard is the patient landing screen.
type Dashboard struct {
	User     domain.User  `json:"user"`
	Reserved *domain.Slot `json:"reserved,omitempty"`
}

// DashboardService drives the role landing screens.
type DashboardService struct {
	users ports.UserAPI
	slots ports.SlotAPI
	sess  *SessionContext
	log   zerolog.Logger
}

func NewDashboardService(users ports.UserAPI, slots ports.SlotAPI, sess *SessionContext, log zerolog.Logger) *DashboardService {
	return &DashboardService{users: users, slots: slots, sess: sess, log: log}
}

// Overview re-fetches the profile (re-persisting it) and, for patients, the
// active reservation. No reservation is an empty state, not an error.
func (s *DashboardService) Overview(ctx context.Context) (*Dashboard, error) {
	sess, err := s.sess.Current(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Profile(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", s.sess.Observe(ctx, err))
	}
	if err := s.sess.UpdateUser(ctx, *u); err != nil {
		s.log.Warn().Err(err).Msg("persist refreshed profile")
	}

	d := &Dashboard{User: *u}
	if u.Role != domain.RolePatient && u.Role != domain.RoleUnknown {
		return d, nil
	}
	slot, err := s.slots.ReservedForPatient(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", s.sess.Observe(ctx, err))
	}
	d.Reserved = slot
	return d, nil
}

// ReservedSlot returns the patient's active reservation, or nil.
func (s *DashboardService) ReservedSlot(ctx context.Context) (*domain.Slot, error) {
	sess, err := s.sess.Authorize(ctx, domain.RouteDashboard)
	if err != nil {
		return nil, err
	}
	slot, err := s.slots.ReservedForPatient(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("reserved slot: %w", s.sess.Observe(ctx, err))
	}
	return slot, nil
}

// Nutritionist resolves the nutritionist behind a reservation.
func (s *DashboardService) Nutritionist(ctx context.Context, id int64) (*domain.User, error) {
	sess, err := s.sess.Current(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, sess.Token, id)
	if err != nil {
		return nil, fmt.Errorf("nutritionist %d: %w", id, s.sess.Observe(ctx, err))
	}
	return u, nil
}
