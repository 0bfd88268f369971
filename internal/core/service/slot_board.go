package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/api/metrics"
	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

// BoardSlot is a slot with the actions the viewer may take on it.
type BoardSlot struct {
	domain.Slot
	Selected    bool `json:"selected"`
	CanCancel   bool `json:"can_cancel"`
	CanFinalize bool `json:"can_finalize"`
}

// SlotBoardView is everything the slot listing screen renders.
type SlotBoardView struct {
	ProviderID int64       `json:"provider_id"`
	Date       domain.Date `json:"date"`
	Morning    []BoardSlot `json:"morning"`
	Afternoon  []BoardSlot `json:"afternoon"`
	Selected   []int64     `json:"selected"`
	Target     *int64      `json:"target,omitempty"`
	Dialog     Dialog      `json:"dialog"`
	Notice     *Notice     `json:"notice,omitempty"`
	Loading    bool        `json:"loading"`
}

// SlotDetail is a slot together with its patient, when it has one.
type SlotDetail struct {
	Slot    domain.Slot  `json:"slot"`
	Patient *domain.User `json:"patient,omitempty"`
}

// SlotBoard is the nutritionist's (or an administrator's) slot listing with
// cancel, finalize and bulk delete behind confirmation dialogs.
type SlotBoard struct {
	slots ports.SlotAPI
	users ports.UserAPI
	sess  *SessionContext
	log   zerolog.Logger

	mu       sync.Mutex
	seq      fetchSeq
	gen      uint64
	viewer   domain.User
	provider int64
	date     domain.Date
	items    []domain.Slot
	marked   map[int64]bool
	target   *int64
	dialog   Dialog
	notice   *Notice
	loading  bool
}

func NewSlotBoard(slots ports.SlotAPI, users ports.UserAPI, sess *SessionContext, clock Clock, log zerolog.Logger) *SlotBoard {
	return &SlotBoard{
		slots:  slots,
		users:  users,
		sess:   sess,
		log:    log.With().Str("board", "slots").Logger(),
		seq:    fetchSeq{board: "slots"},
		gen:    sess.Generation(),
		date:   clock.Today(),
		marked: map[int64]bool{},
		dialog: DialogNone,
	}
}

// Reset forgets the viewer, provider, slots, selection, dialog and notice.
// The viewed day is kept.
func (b *SlotBoard) Reset() {
	b.mu.Lock()
	b.gen = b.sess.Generation()
	b.resetLocked()
	b.mu.Unlock()
}

func (b *SlotBoard) resetLocked() {
	b.seq.next()
	b.viewer = domain.User{}
	b.provider = 0
	b.items = nil
	b.marked = map[int64]bool{}
	b.target = nil
	b.dialog = DialogNone
	b.notice = nil
	b.loading = false
}

// syncLocked resets the board when someone else has logged in since it was
// last used.
func (b *SlotBoard) syncLocked() {
	if g := b.sess.Generation(); g != b.gen {
		b.gen = g
		b.log.Debug().Msg("session identity changed, resetting board")
		b.resetLocked()
	}
}

// authorize returns the session of a nutritionist or administrator.
func (b *SlotBoard) authorize(ctx context.Context) (domain.Session, error) {
	sess, err := b.sess.Current(ctx)
	if err != nil {
		return sess, err
	}
	switch sess.User.Role {
	case domain.RoleNutritionist, domain.RoleAdministrator:
		return sess, nil
	default:
		return sess, domain.ErrForbidden
	}
}

// SelectProvider lets an administrator browse a nutritionist's slots.
// Nutritionists always see their own.
func (b *SlotBoard) SelectProvider(ctx context.Context, nutritionistID int64) error {
	sess, err := b.authorize(ctx)
	if err != nil {
		return err
	}
	if sess.User.Role != domain.RoleAdministrator {
		return domain.ErrForbidden
	}
	b.mu.Lock()
	b.syncLocked()
	b.provider = nutritionistID
	b.items = nil
	b.marked = map[int64]bool{}
	b.target = nil
	b.dialog = DialogNone
	b.notice = nil
	b.mu.Unlock()
	return b.Load(ctx)
}

// Load fetches the slot set. Only the most recent Load may replace it.
func (b *SlotBoard) Load(ctx context.Context) error {
	sess, err := b.authorize(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.syncLocked()
	b.viewer = sess.User
	provider := b.provider
	if sess.User.Role == domain.RoleAdministrator && provider == 0 {
		b.mu.Unlock()
		return domain.ErrNoProvider
	}
	seq := b.seq.next()
	b.loading = true
	b.mu.Unlock()

	var slots []domain.Slot
	if sess.User.Role == domain.RoleNutritionist {
		slots, err = b.slots.ListOwn(ctx, sess.Token)
	} else {
		slots, err = b.slots.ListByNutritionist(ctx, sess.Token, provider)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncLocked()
	if !b.seq.current(seq) {
		b.log.Debug().Uint64("seq", seq).Msg("dropping stale slot fetch")
		return nil
	}
	b.loading = false
	if err != nil {
		b.notice = errorNotice(err)
		return fmt.Errorf("load slots: %w", b.sess.Observe(ctx, err))
	}
	b.items = slots
	for id := range b.marked {
		if _, ok := domain.FindSlot(slots, id); !ok {
			delete(b.marked, id)
		}
	}
	return nil
}

func (b *SlotBoard) ShiftDate(days int) domain.Date {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.date = b.date.AddDays(days)
	return b.date
}

func (b *SlotBoard) SetDate(day domain.Date) {
	b.mu.Lock()
	b.date = day
	b.mu.Unlock()
}

func (b *SlotBoard) canCancel(s domain.Slot) bool {
	if s.State != domain.StateReserved {
		return false
	}
	switch b.viewer.Role {
	case domain.RoleNutritionist, domain.RoleAdministrator:
		return true
	}
	return s.ReservedBy(b.viewer.ID)
}

func (b *SlotBoard) canFinalize(s domain.Slot) bool {
	if s.State != domain.StateReserved {
		return false
	}
	return b.viewer.Role == domain.RoleNutritionist || b.viewer.Role == domain.RoleAdministrator
}

func (b *SlotBoard) selectedLocked() []int64 {
	ids := make([]int64, 0, len(b.marked))
	for id := range b.marked {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// View derives the day partitions and per-slot actions.
func (b *SlotBoard) View() SlotBoardView {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncLocked()

	day := domain.PartitionDay(b.items, b.date)
	decorate := func(in []domain.Slot) []BoardSlot {
		out := make([]BoardSlot, 0, len(in))
		for _, s := range in {
			out = append(out, BoardSlot{
				Slot:        s,
				Selected:    b.marked[s.ID],
				CanCancel:   b.canCancel(s),
				CanFinalize: b.canFinalize(s),
			})
		}
		return out
	}
	v := SlotBoardView{
		ProviderID: b.provider,
		Date:       b.date,
		Morning:    decorate(day.Morning),
		Afternoon:  decorate(day.Afternoon),
		Selected:   b.selectedLocked(),
		Dialog:     b.dialog,
		Loading:    b.loading,
	}
	if b.target != nil {
		id := *b.target
		v.Target = &id
	}
	if b.notice != nil {
		n := *b.notice
		v.Notice = &n
	}
	return v
}

// ToggleSelected adds or removes a loaded slot from the bulk selection and
// reports whether it is now selected.
func (b *SlotBoard) ToggleSelected(slotID int64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncLocked()
	if _, ok := domain.FindSlot(b.items, slotID); !ok {
		return false, domain.ErrSlotNotFound
	}
	if b.marked[slotID] {
		delete(b.marked, slotID)
		return false, nil
	}
	b.marked[slotID] = true
	return true, nil
}

// Detail returns a loaded slot and, when it carries a patient, the
// patient's profile. A failed patient lookup leaves Patient nil.
func (b *SlotBoard) Detail(ctx context.Context, slotID int64) (*SlotDetail, error) {
	b.mu.Lock()
	b.syncLocked()
	s, ok := domain.FindSlot(b.items, slotID)
	b.mu.Unlock()
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	d := &SlotDetail{Slot: s}
	if !s.State.HasPatient() || s.PatientID == nil {
		return d, nil
	}
	sess, err := b.sess.Current(ctx)
	if err != nil {
		return nil, err
	}
	p, err := b.users.Get(ctx, sess.Token, *s.PatientID)
	if err != nil {
		b.log.Warn().Err(b.sess.Observe(ctx, err)).Int64("patient_id", *s.PatientID).Msg("patient lookup failed")
		return d, nil
	}
	d.Patient = p
	return d, nil
}

func (b *SlotBoard) requestOne(slotID int64, dialog Dialog, allowed func(domain.Slot) bool, denied error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncLocked()
	s, ok := domain.FindSlot(b.items, slotID)
	if !ok {
		return domain.ErrSlotNotFound
	}
	if !allowed(s) {
		return denied
	}
	id := s.ID
	b.target = &id
	b.dialog = dialog
	return nil
}

// RequestCancel opens the cancellation dialog for a reserved slot.
func (b *SlotBoard) RequestCancel(slotID int64) error {
	return b.requestOne(slotID, DialogCancel, b.canCancel, domain.ErrCancellationNotAllowed)
}

// RequestFinalize opens the finalize dialog for a reserved slot.
func (b *SlotBoard) RequestFinalize(slotID int64) error {
	return b.requestOne(slotID, DialogFinalize, b.canFinalize, domain.ErrFinalizeNotAllowed)
}

// RequestDeleteDay opens the dialog deleting every slot of the viewed day.
// The endpoint acts on the caller's own slots, so only nutritionists may.
func (b *SlotBoard) RequestDeleteDay() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncLocked()
	if b.viewer.Role != domain.RoleNutritionist {
		return domain.ErrForbidden
	}
	b.target = nil
	b.dialog = DialogDeleteDay
	return nil
}

// RequestDeleteSelected opens the dialog deleting the selected slots.
func (b *SlotBoard) RequestDeleteSelected() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncLocked()
	if b.viewer.Role != domain.RoleNutritionist {
		return domain.ErrForbidden
	}
	if len(b.marked) == 0 {
		return domain.ErrNothingSelected
	}
	b.target = nil
	b.dialog = DialogDeleteSelected
	return nil
}

// Dismiss closes the dialog. The bulk selection is kept.
func (b *SlotBoard) Dismiss() {
	b.mu.Lock()
	b.syncLocked()
	b.dialog = DialogNone
	b.target = nil
	b.mu.Unlock()
}

// Confirm submits the open dialog. Single-slot actions re-fetch on success
// and leave the slots untouched on failure; bulk deletes re-fetch either way.
func (b *SlotBoard) Confirm(ctx context.Context) (string, error) {
	b.mu.Lock()
	b.syncLocked()
	dialog, target, date, gen := b.dialog, b.target, b.date, b.gen
	ids := b.selectedLocked()
	b.mu.Unlock()
	if dialog == DialogNone {
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
		msg     string
		action  string
		refetch bool
	)
	switch dialog {
	case DialogCancel, DialogFinalize:
		if target == nil {
			return "", domain.ErrNoPendingAction
		}
		if dialog == DialogCancel {
			action = "cancel"
			msg, err = b.slots.Cancel(ctx, sess.Token, *target)
			if msg == "" {
				msg = msgCancelled
			}
		} else {
			action = "finalize"
			msg, err = b.slots.Finalize(ctx, sess.Token, *target)
			if msg == "" {
				msg = msgFinalized
			}
		}
		refetch = err == nil
	case DialogDeleteDay, DialogDeleteSelected:
		var res *ports.BulkResult
		if dialog == DialogDeleteDay {
			action = "delete_day"
			res, err = b.slots.DeleteDay(ctx, sess.Token, date)
		} else {
			action = "delete_selected"
			res, err = b.slots.DeleteMany(ctx, sess.Token, ids)
		}
		if err == nil {
			msg = fmt.Sprintf("%s (%d)", res.Message, res.Count)
		}
		refetch = true
	default:
		return "", domain.ErrNoPendingAction
	}
	metrics.SlotActionsTotal.WithLabelValues(action, actionResult(err)).Inc()

	b.mu.Lock()
	b.dialog = DialogNone
	b.target = nil
	if dialog == DialogDeleteSelected {
		b.marked = map[int64]bool{}
	}
	if err != nil {
		b.notice = errorNotice(err)
	} else {
		b.notice = infoNotice(msg)
	}
	b.mu.Unlock()

	if err != nil {
		err = b.sess.Observe(ctx, err)
		b.log.Info().Err(err).Str("action", action).Msg("slot action rejected")
	} else {
		b.log.Info().Str("action", action).Msg("slot action confirmed")
	}
	if refetch && !domain.IsAuthFailure(err) {
		if lerr := b.Load(ctx); lerr != nil {
			b.log.Warn().Err(lerr).Msg("re-fetch after action")
		}
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", action, err)
	}
	return msg, nil
}
