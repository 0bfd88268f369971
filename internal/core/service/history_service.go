package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

// HistoryEntry is one finished appointment with its nutritionist.
type HistoryEntry struct {
	Slot         domain.Slot `json:"slot"`
	Nutritionist domain.User `json:"nutritionist"`
}

// History is the patient's finished appointments for one day.
type History struct {
	Date    domain.Date    `json:"date"`
	Entries []HistoryEntry `json:"entries"`
}

// HistoryService drives the appointment history screen.
type HistoryService struct {
	slots     ports.SlotAPI
	directory ports.UserDirectory
	sess      *SessionContext
	clock     Clock
	log       zerolog.Logger
}

func NewHistoryService(slots ports.SlotAPI, directory ports.UserDirectory, sess *SessionContext, clock Clock, log zerolog.Logger) *HistoryService {
	return &HistoryService{slots: slots, directory: directory, sess: sess, clock: clock, log: log}
}

// Finalized lists the finalized appointments dated day (today when day is
// zero) and resolves their nutritionists. Unresolvable nutritionists show as
// domain.UnknownUser.
func (s *HistoryService) Finalized(ctx context.Context, day domain.Date) (*History, error) {
	if day.IsZero() {
		day = s.clock.Today()
	}
	sess, err := s.sess.Authorize(ctx, domain.RouteHistory)
	if err != nil {
		return nil, err
	}
	all, err := s.slots.ListForPatient(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("history: %w", s.sess.Observe(ctx, err))
	}

	var done []domain.Slot
	var ids []int64
	for _, sl := range all {
		if sl.State == domain.StateFinalized && sl.Date == day {
			done = append(done, sl)
			ids = append(ids, sl.NutritionistID)
		}
	}
	domain.SortSlots(done)

	h := &History{Date: day, Entries: make([]HistoryEntry, 0, len(done))}
	if len(done) == 0 {
		return h, nil
	}
	people := s.directory.Resolve(ctx, sess.Token, ids)
	for _, sl := range done {
		n, ok := people[sl.NutritionistID]
		if !ok {
			n = domain.UnknownUser(sl.NutritionistID)
		}
		h.Entries = append(h.Entries, HistoryEntry{Slot: sl, Nutritionist: n})
	}
	return h, nil
}
