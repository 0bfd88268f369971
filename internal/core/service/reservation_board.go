package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/api/metrics"
	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

const (
	msgReserved  = "Turno reservado correctamente"
	msgCancelled = "Turno cancelado correctamente"
	msgFinalized = "Turno finalizado correctamente"
)

// ReservationSlot is a slot with the actions the patient may take on it.
type ReservationSlot struct {
	domain.Slot
	Mine       bool `json:"mine"`
	CanReserve bool `json:"can_reserve"`
	CanCancel  bool `json:"can_cancel"`
}

// ReservationView is everything the booking screen renders.
type ReservationView struct {
	Provider             *domain.User      `json:"provider,omitempty"`
	Date                 domain.Date       `json:"date"`
	Morning              []ReservationSlot `json:"morning"`
	Afternoon            []ReservationSlot `json:"afternoon"`
	Selected             *domain.Slot      `json:"selected,omitempty"`
	Dialog               Dialog            `json:"dialog"`
	Notice               *Notice           `json:"notice,omitempty"`
	Loading              bool              `json:"loading"`
	HasActiveReservation bool              `json:"has_active_reservation"`
}

// ReservationBoard is the patient's booking state machine: pick a provider,
// browse a day, and reserve or cancel behind a confirmation dialog. Slot
// state is never changed locally; every confirmed action re-fetches.
type ReservationBoard struct {
	slots ports.SlotAPI
	users ports.UserAPI
	sess  *SessionContext
	log   zerolog.Logger

	mu       sync.Mutex
	seq      fetchSeq
	gen      uint64
	me       int64
	provider *domain.User
	date     domain.Date
	items    []domain.Slot
	selected *domain.Slot
	dialog   Dialog
	notice   *Notice
	loading  bool
}

func NewReservationBoard(slots ports.SlotAPI, users ports.UserAPI, sess *SessionContext, clock Clock, log zerolog.Logger) *ReservationBoard {
	return &ReservationBoard{
		slots:  slots,
		users:  users,
		sess:   sess,
		log:    log.With().Str("board", "reservation").Logger(),
		seq:    fetchSeq{board: "reservation"},
		gen:    sess.Generation(),
		date:   clock.Today(),
		dialog: DialogNone,
	}
}

// Reset forgets the provider, slots, selection, dialog and notice. Stale
// fetches still in flight are dropped. The viewed day is kept.
func (b *ReservationBoard) Reset() {
	b.mu.Lock()
	b.gen = b.sess.Generation()
	b.resetLocked()
	b.mu.Unlock()
}

func (b *ReservationBoard) resetLocked() {
	b.seq.next()
	b.me = 0
	b.provider = nil
	b.items = nil
	b.selected = nil
	b.dialog = DialogNone
	b.notice = nil
	b.loading = false
}

// syncLocked resets the board when someone else has logged in since it was
// last used.
func (b *ReservationBoard) syncLocked() {
	if g := b.sess.Generation(); g != b.gen {
		b.gen = g
		b.log.Debug().Msg("session identity changed, resetting board")
		b.resetLocked()
	}
}

// Providers lists the nutritionists a patient can book with.
func (b *ReservationBoard) Providers(ctx context.Context) ([]domain.User, error) {
	sess, err := b.sess.Authorize(ctx, domain.RouteBook)
	if err != nil {
		return nil, err
	}
	all, err := b.users.List(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("providers: %w", b.sess.Observe(ctx, err))
	}
	out := make([]domain.User, 0, len(all))
	for _, u := range all {
		if u.Role == domain.RoleNutritionist {
			out = append(out, u)
		}
	}
	return out, nil
}

// SelectProvider discards any pending selection or dialog and loads every
// slot of provider.
func (b *ReservationBoard) SelectProvider(ctx context.Context, provider domain.User) error {
	sess, err := b.sess.Authorize(ctx, domain.RouteBook)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.syncLocked()
	b.me = sess.User.ID
	b.provider = &provider
	b.items = nil
	b.selected = nil
	b.dialog = DialogNone
	b.notice = nil
	b.mu.Unlock()
	return b.load(ctx, sess.Token)
}

// Refresh re-fetches the selected provider's slots.
func (b *ReservationBoard) Refresh(ctx context.Context) error {
	sess, err := b.sess.Current(ctx)
	if err != nil {
		return err
	}
	return b.load(ctx, sess.Token)
}

func (b *ReservationBoard) load(ctx context.Context, token string) error {
	b.mu.Lock()
	b.syncLocked()
	if b.provider == nil {
		b.mu.Unlock()
		return domain.ErrNoProvider
	}
	providerID := b.provider.ID
	seq := b.seq.next()
	b.loading = true
	b.mu.Unlock()

	slots, err := b.slots.ListByNutritionist(ctx, token, providerID)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncLocked()
	if !b.seq.current(seq) {
		b.log.Debug().Uint64("seq", seq).Int64("provider_id", providerID).Msg("dropping stale slot fetch")
		return nil
	}
	b.loading = false
	if err != nil {
		b.notice = errorNotice(err)
		return fmt.Errorf("load slots: %w", b.sess.Observe(ctx, err))
	}
	b.items = slots
	return nil
}

// ShiftDate moves the viewed day by days. Slots are filtered in memory.
func (b *ReservationBoard) ShiftDate(days int) domain.Date {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.date = b.date.AddDays(days)
	return b.date
}

// SetDate jumps to day.
func (b *ReservationBoard) SetDate(day domain.Date) {
	b.mu.Lock()
	b.date = day
	b.mu.Unlock()
}

func (b *ReservationBoard) hasActiveLocked() bool {
	for _, s := range b.items {
		if s.ReservedBy(b.me) {
			return true
		}
	}
	return false
}

// HasActiveReservation reports whether the patient holds a reservation with
// the selected provider.
func (b *ReservationBoard) HasActiveReservation() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncLocked()
	return b.hasActiveLocked()
}

// View derives the day partitions and per-slot actions.
func (b *ReservationBoard) View() ReservationView {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncLocked()

	active := b.hasActiveLocked()
	day := domain.PartitionDay(b.items, b.date)
	decorate := func(in []domain.Slot) []ReservationSlot {
		out := make([]ReservationSlot, 0, len(in))
		for _, s := range in {
			mine := s.ReservedBy(b.me)
			out = append(out, ReservationSlot{
				Slot:       s,
				Mine:       mine,
				CanReserve: s.State == domain.StateAvailable && !active,
				CanCancel:  s.State == domain.StateReserved && mine,
			})
		}
		return out
	}

	v := ReservationView{
		Date:                 b.date,
		Morning:              decorate(day.Morning),
		Afternoon:            decorate(day.Afternoon),
		Dialog:               b.dialog,
		Loading:              b.loading,
		HasActiveReservation: active,
	}
	if b.provider != nil {
		p := *b.provider
		v.Provider = &p
	}
	if b.selected != nil {
		s := *b.selected
		v.Selected = &s
	}
	if b.notice != nil {
		n := *b.notice
		v.Notice = &n
	}
	return v
}

// RequestReservation opens the reservation dialog for an available slot,
// unless the patient already holds a reservation with this provider.
func (b *ReservationBoard) RequestReservation(slotID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncLocked()
	s, ok := domain.FindSlot(b.items, slotID)
	if !ok {
		return domain.ErrSlotNotFound
	}
	if s.State != domain.StateAvailable || b.hasActiveLocked() {
		return domain.ErrReservationNotAllowed
	}
	b.selected = &s
	b.dialog = DialogReserve
	return nil
}

// RequestCancellation opens the cancellation dialog for a slot the patient
// has reserved.
func (b *ReservationBoard) RequestCancellation(slotID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncLocked()
	s, ok := domain.FindSlot(b.items, slotID)
	if !ok {
		return domain.ErrSlotNotFound
	}
	if s.State != domain.StateReserved || !s.ReservedBy(b.me) {
		return domain.ErrCancellationNotAllowed
	}
	b.selected = &s
	b.dialog = DialogCancel
	return nil
}

// Dismiss closes the dialog and clears the selection.
func (b *ReservationBoard) Dismiss() {
	b.mu.Lock()
	b.syncLocked()
	b.dialog = DialogNone
	b.selected = nil
	b.mu.Unlock()
}

// Confirm submits the open dialog. The dialog closes and the selection is
// cleared either way; on success the slots are re-fetched, on failure they
// stay as last fetched and the server's message becomes the notice.
func (b *ReservationBoard) Confirm(ctx context.Context) (string, error) {
	b.mu.Lock()
	b.syncLocked()
	dialog, selected, gen := b.dialog, b.selected, b.gen
	b.mu.Unlock()
	if dialog == DialogNone || selected == nil {
		return "", domain.ErrNoPendingAction
	}

	sess, err := b.sess.Current(ctx)
	if err != nil {
		return "", err
	}
	if b.sess.Generation() != gen {
		b.Reset()
		return "", domain.ErrNoPendingAction
	}

	var (
		msg    string
		action string
	)
	switch dialog {
	case DialogReserve:
		action = "reserve"
		msg, err = b.slots.Reserve(ctx, sess.Token, selected.ID)
		if msg == "" {
			msg = msgReserved
		}
	case DialogCancel:
		action = "cancel"
		msg, err = b.slots.Cancel(ctx, sess.Token, selected.ID)
		if msg == "" {
			msg = msgCancelled
		}
	default:
		return "", domain.ErrNoPendingAction
	}
	metrics.SlotActionsTotal.WithLabelValues(action, actionResult(err)).Inc()

	b.mu.Lock()
	b.dialog = DialogNone
	b.selected = nil
	if err != nil {
		b.notice = errorNotice(err)
		b.mu.Unlock()
		b.log.Info().Err(err).Str("action", action).Int64("slot_id", selected.ID).Msg("slot action rejected")
		return "", fmt.Errorf("%s slot %d: %w", action, selected.ID, b.sess.Observe(ctx, err))
	}
	b.notice = infoNotice(msg)
	b.mu.Unlock()

	b.log.Info().Str("action", action).Int64("slot_id", selected.ID).Msg("slot action confirmed")
	if rerr := b.load(ctx, sess.Token); rerr != nil {
		b.log.Warn().Err(rerr).Msg("re-fetch after action")
	}
	return msg, nil
}
