package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

func newSlotBoardFixture(t *testing.T, viewer domain.User, slots ...domain.Slot) (*SlotBoard, *stubSlotAPI, *stubUserAPI) {
	t.Helper()
	api := &stubSlotAPI{slots: slots, bulk: &ports.BulkResult{Message: "Turnos eliminados", Count: 2}}
	users := newStubUserAPI(patient, nutritionist, admin)
	sess, _ := sessionFor(viewer)
	b := NewSlotBoard(api, users, sess, fixedClock(), zerolog.Nop())
	return b, api, users
}

func TestSlotBoard_NutritionistLoadsOwnSlots(t *testing.T) {
	b, api, _ := newSlotBoardFixture(t, nutritionist,
		slotAt(2, "2025-03-10", "13:00", "13:30", domain.StateAvailable, 0),
		slotAt(1, "2025-03-10", "12:59", "13:29", domain.StateReserved, patient.ID),
	)
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(api.byNutri) != 0 {
		t.Errorf("nutritionist should use the own-slots endpoint")
	}
	v := b.View()
	if len(v.Morning) != 1 || v.Morning[0].ID != 1 {
		t.Fatalf("morning = %+v", v.Morning)
	}
	if len(v.Afternoon) != 1 || v.Afternoon[0].ID != 2 {
		t.Fatalf("afternoon = %+v", v.Afternoon)
	}
	if !v.Morning[0].CanCancel || !v.Morning[0].CanFinalize {
		t.Errorf("reserved slot actions = %+v", v.Morning[0])
	}
	if v.Afternoon[0].CanCancel || v.Afternoon[0].CanFinalize {
		t.Errorf("available slot offers actions: %+v", v.Afternoon[0])
	}
}

func TestSlotBoard_AdminNeedsProvider(t *testing.T) {
	b, api, _ := newSlotBoardFixture(t, admin,
		slotAt(1, "2025-03-10", "09:00", "09:30", domain.StateReserved, patient.ID),
	)
	if err := b.Load(context.Background()); !errors.Is(err, domain.ErrNoProvider) {
		t.Fatalf("err = %v, want ErrNoProvider", err)
	}
	if err := b.SelectProvider(context.Background(), nutritionist.ID); err != nil {
		t.Fatalf("SelectProvider: %v", err)
	}
	if len(api.byNutri) != 1 || api.byNutri[0] != nutritionist.ID {
		t.Fatalf("byNutritionist calls = %v", api.byNutri)
	}
	if err := b.RequestDeleteDay(); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("admin bulk delete: err = %v, want ErrForbidden", err)
	}
	if err := b.RequestFinalize(1); err != nil {
		t.Errorf("admin finalize: %v", err)
	}
}

func TestSlotBoard_PatientForbidden(t *testing.T) {
	b, _, _ := newSlotBoardFixture(t, patient)
	if err := b.Load(context.Background()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestSlotBoard_FinalizeRefetches(t *testing.T) {
	b, api, _ := newSlotBoardFixture(t, nutritionist,
		slotAt(1, "2025-03-10", "09:00", "09:30", domain.StateReserved, patient.ID),
	)
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := b.RequestFinalize(1); err != nil {
		t.Fatalf("RequestFinalize: %v", err)
	}
	if v := b.View(); v.Dialog != DialogFinalize || v.Target == nil || *v.Target != 1 {
		t.Fatalf("dialog = %q target = %v", v.Dialog, v.Target)
	}
	msg, err := b.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if msg != msgFinalized {
		t.Errorf("msg = %q", msg)
	}
	if api.listCalls != 2 {
		t.Errorf("list calls = %d, want 2", api.listCalls)
	}
	v := b.View()
	if v.Morning[0].State != domain.StateFinalized {
		t.Errorf("state after re-fetch = %q", v.Morning[0].State)
	}
	if v.Morning[0].CanFinalize {
		t.Error("finalized slot still finalizable")
	}
}

func TestSlotBoard_FinalizeRequiresReserved(t *testing.T) {
	b, _, _ := newSlotBoardFixture(t, nutritionist,
		slotAt(1, "2025-03-10", "09:00", "09:30", domain.StateAvailable, 0),
	)
	_ = b.Load(context.Background())
	if err := b.RequestFinalize(1); !errors.Is(err, domain.ErrFinalizeNotAllowed) {
		t.Errorf("err = %v", err)
	}
	if err := b.RequestCancel(1); !errors.Is(err, domain.ErrCancellationNotAllowed) {
		t.Errorf("err = %v", err)
	}
}

func TestSlotBoard_DeleteSelected(t *testing.T) {
	b, api, _ := newSlotBoardFixture(t, nutritionist,
		slotAt(1, "2025-03-10", "09:00", "09:30", domain.StateAvailable, 0),
		slotAt(2, "2025-03-10", "09:30", "10:00", domain.StateAvailable, 0),
		slotAt(3, "2025-03-10", "10:00", "10:30", domain.StateAvailable, 0),
	)
	_ = b.Load(context.Background())

	if err := b.RequestDeleteSelected(); !errors.Is(err, domain.ErrNothingSelected) {
		t.Fatalf("empty selection: err = %v", err)
	}
	for _, id := range []int64{3, 1} {
		if on, err := b.ToggleSelected(id); err != nil || !on {
			t.Fatalf("ToggleSelected(%d) = %v, %v", id, on, err)
		}
	}
	if _, err := b.ToggleSelected(77); !errors.Is(err, domain.ErrSlotNotFound) {
		t.Errorf("unknown slot: err = %v", err)
	}
	if err := b.RequestDeleteSelected(); err != nil {
		t.Fatalf("RequestDeleteSelected: %v", err)
	}
	msg, err := b.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if msg != "Turnos eliminados (2)" {
		t.Errorf("msg = %q", msg)
	}
	if len(api.deleted) != 1 || len(api.deleted[0]) != 2 || api.deleted[0][0] != 1 || api.deleted[0][1] != 3 {
		t.Errorf("deleted ids = %v, want [[1 3]]", api.deleted)
	}
	if v := b.View(); len(v.Selected) != 0 {
		t.Errorf("selection not cleared: %v", v.Selected)
	}
}

func TestSlotBoard_ForgetsPreviousUser(t *testing.T) {
	ctx := context.Background()
	api := &stubSlotAPI{
		slots: []domain.Slot{
			slotAt(1, "2025-03-10", "09:00", "09:30", domain.StateAvailable, 0),
			slotAt(2, "2025-03-10", "09:30", "10:00", domain.StateReserved, patient.ID),
		},
		bulk: &ports.BulkResult{Message: "Turnos eliminados", Count: 1},
	}
	sess, _ := sessionFor(nutritionist)
	b := NewSlotBoard(api, newStubUserAPI(patient, nutritionist), sess, fixedClock(), zerolog.Nop())
	if err := b.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := b.ToggleSelected(1); err != nil {
		t.Fatalf("ToggleSelected: %v", err)
	}
	if err := b.RequestDeleteSelected(); err != nil {
		t.Fatalf("RequestDeleteSelected: %v", err)
	}

	second := domain.User{ID: 5, Name: "Dr. Paz", Email: "paz@example.com", Role: domain.RoleNutritionist}
	if err := sess.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := sess.Set(ctx, domain.Session{Token: "tok-2", User: second}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v := b.View()
	if len(v.Selected) != 0 || v.Dialog != DialogNone || len(v.Morning)+len(v.Afternoon) != 0 {
		t.Fatalf("previous board state survived: %+v", v)
	}
	if _, err := b.Confirm(ctx); !errors.Is(err, domain.ErrNoPendingAction) {
		t.Errorf("confirm after switch: err = %v, want ErrNoPendingAction", err)
	}
	if err := b.RequestCancel(2); !errors.Is(err, domain.ErrSlotNotFound) {
		t.Errorf("cancel after switch: err = %v, want ErrSlotNotFound", err)
	}
	if err := b.RequestDeleteSelected(); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("delete before load: err = %v, want ErrForbidden", err)
	}

	if err := b.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := b.RequestDeleteSelected(); !errors.Is(err, domain.ErrNothingSelected) {
		t.Errorf("selection carried over: err = %v", err)
	}
	if len(api.deleted) != 0 {
		t.Fatalf("bulk delete reached the API: %v", api.deleted)
	}
}

func TestSlotBoard_FailedBulkDeleteStillRefetches(t *testing.T) {
	b, api, _ := newSlotBoardFixture(t, nutritionist,
		slotAt(1, "2025-03-10", "09:00", "09:30", domain.StateAvailable, 0),
	)
	_ = b.Load(context.Background())
	api.actionErr = businessError("No hay turnos para eliminar")

	if err := b.RequestDeleteDay(); err != nil {
		t.Fatalf("RequestDeleteDay: %v", err)
	}
	if _, err := b.Confirm(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if api.listCalls != 2 {
		t.Errorf("list calls = %d, want re-fetch after failed delete", api.listCalls)
	}
	if len(api.dayDelete) != 1 || api.dayDelete[0] != mustDate("2025-03-10") {
		t.Errorf("day delete = %v", api.dayDelete)
	}
	if n := b.View().Notice; n == nil || n.Text != "No hay turnos para eliminar" {
		t.Errorf("notice = %+v", n)
	}
}

func TestSlotBoard_DismissKeepsSelection(t *testing.T) {
	b, _, _ := newSlotBoardFixture(t, nutritionist,
		slotAt(1, "2025-03-10", "09:00", "09:30", domain.StateAvailable, 0),
	)
	_ = b.Load(context.Background())
	_, _ = b.ToggleSelected(1)
	_ = b.RequestDeleteSelected()
	b.Dismiss()
	v := b.View()
	if v.Dialog != DialogNone {
		t.Errorf("dialog = %q", v.Dialog)
	}
	if len(v.Selected) != 1 {
		t.Errorf("selection = %v, want kept", v.Selected)
	}
}

func TestSlotBoard_Detail(t *testing.T) {
	b, _, _ := newSlotBoardFixture(t, nutritionist,
		slotAt(1, "2025-03-10", "09:00", "09:30", domain.StateReserved, patient.ID),
		slotAt(2, "2025-03-10", "10:00", "10:30", domain.StateAvailable, 0),
		slotAt(3, "2025-03-10", "11:00", "11:30", domain.StateReserved, 404),
	)
	_ = b.Load(context.Background())

	d, err := b.Detail(context.Background(), 1)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if d.Patient == nil || d.Patient.ID != patient.ID {
		t.Errorf("patient = %+v", d.Patient)
	}

	d, err = b.Detail(context.Background(), 2)
	if err != nil || d.Patient != nil {
		t.Errorf("available slot detail = %+v, %v", d, err)
	}

	d, err = b.Detail(context.Background(), 3)
	if err != nil || d.Patient != nil {
		t.Errorf("missing patient should leave Patient nil: %+v, %v", d, err)
	}
}
