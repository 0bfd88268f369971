package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory session store
// ---------------------------------------------------------------------------

type memSessionStore struct {
	mu      sync.Mutex
	sess    domain.Session
	saved    int
	cleared  int
	clearErr error
}

func (m *memSessionStore) Load(context.Context) (domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess, !m.sess.IsZero()
}

func (m *memSessionStore) Save(_ context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = s
	m.saved++
	return nil
}

func (m *memSessionStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = domain.Session{}
	m.cleared++
	return m.clearErr
}

func sessionFor(u domain.User) (*SessionContext, *memSessionStore) {
	store := &memSessionStore{sess: domain.Session{Token: "tok", User: u}}
	return NewSessionContext(store, domain.PlatformNative, zerolog.Nop()), store
}

var (
	patient      = domain.User{ID: 7, Name: "Ana", Email: "ana@example.com", Role: domain.RolePatient}
	nutritionist = domain.User{ID: 2, Name: "Dra. Ruiz", Email: "ruiz@example.com", Role: domain.RoleNutritionist}
	admin        = domain.User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdministrator}
)

// fixedClock pins "today" to 2025-03-10.
func fixedClock() Clock {
	return Clock{
		Now:      func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) },
		Location: time.UTC,
	}
}

func mustDate(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func mustClock(s string) domain.ClockTime {
	c, err := domain.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func slotAt(id int64, date, start, end string, state domain.SlotState, patientID int64) domain.Slot {
	s := domain.Slot{
		ID:             id,
		NutritionistID: nutritionist.ID,
		Date:           mustDate(date),
		Start:          mustClock(start),
		End:            mustClock(end),
		State:          state,
	}
	if patientID != 0 {
		p := patientID
		s.PatientID = &p
	}
	return s
}

func businessError(msg string) error {
	return &domain.APIError{Kind: domain.KindBusiness, Status: http.StatusConflict, Message: msg}
}

func authError() error {
	return &domain.APIError{Kind: domain.KindAuth, Status: http.StatusUnauthorized, Message: "Unauthenticated."}
}

// ---------------------------------------------------------------------------
// Slot API stub
// ---------------------------------------------------------------------------

type stubSlotAPI struct {
	mu sync.Mutex

	slots     []domain.Slot
	listErr   error
	actionErr error
	actionMsg string
	bulk      *ports.BulkResult
	generated *ports.GenerateInput
	reserved  *domain.Slot

	// onList, when set, runs inside every list call before it returns.
	onList func(call int)

	listCalls int
	reserves  []int64
	cancels   []int64
	finalizes []int64
	dayDelete []domain.Date
	deleted   [][]int64
	byNutri   []int64
}

func (s *stubSlotAPI) list() ([]domain.Slot, error) {
	s.mu.Lock()
	s.listCalls++
	call := s.listCalls
	hook := s.onList
	s.mu.Unlock()
	if hook != nil {
		hook(call)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.Slot, len(s.slots))
	copy(out, s.slots)
	return out, nil
}

func (s *stubSlotAPI) Generate(_ context.Context, _ string, in ports.GenerateInput) (*ports.BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generated = &in
	if s.actionErr != nil {
		return nil, s.actionErr
	}
	if s.bulk != nil {
		return s.bulk, nil
	}
	return &ports.BulkResult{Count: 10}, nil
}

func (s *stubSlotAPI) ListOwn(context.Context, string) ([]domain.Slot, error) { return s.list() }

func (s *stubSlotAPI) ListByDate(context.Context, string, domain.Date) ([]domain.Slot, error) {
	return s.list()
}

func (s *stubSlotAPI) ListByNutritionist(_ context.Context, _ string, id int64) ([]domain.Slot, error) {
	s.mu.Lock()
	s.byNutri = append(s.byNutri, id)
	s.mu.Unlock()
	return s.list()
}

func (s *stubSlotAPI) DeleteDay(_ context.Context, _ string, d domain.Date) (*ports.BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dayDelete = append(s.dayDelete, d)
	if s.actionErr != nil {
		return nil, s.actionErr
	}
	return s.bulk, nil
}

func (s *stubSlotAPI) DeleteMany(_ context.Context, _ string, ids []int64) (*ports.BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, ids)
	if s.actionErr != nil {
		return nil, s.actionErr
	}
	return s.bulk, nil
}

// transition records the call and, on success, applies mutate to the
// server-side slot so the next list reflects it.
func (s *stubSlotAPI) transition(calls *[]int64, id int64, mutate func(*domain.Slot)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*calls = append(*calls, id)
	if s.actionErr != nil {
		return "", s.actionErr
	}
	for i := range s.slots {
		if s.slots[i].ID == id && mutate != nil {
			mutate(&s.slots[i])
		}
	}
	return s.actionMsg, nil
}

func (s *stubSlotAPI) Reserve(_ context.Context, _ string, id int64) (string, error) {
	return s.transition(&s.reserves, id, func(sl *domain.Slot) {
		p := patient.ID
		sl.State = domain.StateReserved
		sl.PatientID = &p
	})
}

func (s *stubSlotAPI) Cancel(_ context.Context, _ string, id int64) (string, error) {
	return s.transition(&s.cancels, id, func(sl *domain.Slot) { sl.State = domain.StateCancelled })
}

func (s *stubSlotAPI) Finalize(_ context.Context, _ string, id int64) (string, error) {
	return s.transition(&s.finalizes, id, func(sl *domain.Slot) { sl.State = domain.StateFinalized })
}

func (s *stubSlotAPI) ListForPatient(context.Context, string) ([]domain.Slot, error) {
	return s.list()
}

func (s *stubSlotAPI) ReservedForPatient(context.Context, string) (*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.reserved, nil
}

// ---------------------------------------------------------------------------
// User, role, person and auth stubs
// ---------------------------------------------------------------------------

type stubUserAPI struct {
	mu       sync.Mutex
	users    map[int64]domain.User
	profile  *domain.User
	err      error
	updated  *ports.ProfileUpdate
	adminUpd map[int64]ports.AdminUserUpdate
	deleted  []int64
}

func newStubUserAPI(users ...domain.User) *stubUserAPI {
	s := &stubUserAPI{users: map[int64]domain.User{}, adminUpd: map[int64]ports.AdminUserUpdate{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *stubUserAPI) Profile(context.Context, string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u := *s.profile
	return &u, nil
}

func (s *stubUserAPI) UpdateProfile(_ context.Context, _ string, in ports.ProfileUpdate) (*domain.User, error) {
	s.updated = &in
	if s.err != nil {
		return nil, s.err
	}
	u := *s.profile
	u.Name, u.Email = in.Name, in.Email
	return &u, nil
}

func (s *stubUserAPI) Get(_ context.Context, _ string, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, &domain.APIError{Kind: domain.KindNotFound, Status: http.StatusNotFound, Message: "no encontrado"}
	}
	return &u, nil
}

func (s *stubUserAPI) List(context.Context, string) ([]domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.User, 0, len(s.users))
	for id := int64(1); id <= 100; id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUserAPI) Delete(_ context.Context, _ string, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubUserAPI) AdminUpdate(_ context.Context, _ string, id int64, in ports.AdminUserUpdate) error {
	if s.err != nil {
		return s.err
	}
	s.adminUpd[id] = in
	return nil
}

type stubRoleAPI struct{ roles []domain.RoleOption }

func (s stubRoleAPI) List(context.Context) ([]domain.RoleOption, error) { return s.roles, nil }

type stubPersonAPI struct {
	existing *domain.Person
	created  *ports.PersonInput
	updated  *ports.PersonInput
	updateID int64
}

func (s *stubPersonAPI) FindByUser(context.Context, string, int64) (*domain.Person, error) {
	return s.existing, nil
}

func (s *stubPersonAPI) Create(_ context.Context, _ string, in ports.PersonInput) (*domain.Person, error) {
	s.created = &in
	return &domain.Person{ID: 50, UserID: in.UserID, Cedula: in.Cedula}, nil
}

func (s *stubPersonAPI) Update(_ context.Context, _ string, id int64, in ports.PersonInput) (*domain.Person, error) {
	s.updated = &in
	s.updateID = id
	return &domain.Person{ID: id, UserID: in.UserID, Cedula: in.Cedula}, nil
}

type stubAuthAPI struct {
	result     *ports.AuthResult
	err        error
	lastLogin  *ports.LoginInput
	registered *ports.RegisterInput
}

func (s *stubAuthAPI) Login(_ context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	s.lastLogin = &in
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubAuthAPI) Register(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	s.registered = &in
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubDirectory struct{ users map[int64]domain.User }

func (d stubDirectory) Resolve(_ context.Context, _ string, ids []int64) map[int64]domain.User {
	out := map[int64]domain.User{}
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out[id] = u
		} else {
			out[id] = domain.UnknownUser(id)
		}
	}
	return out
}
