package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

func TestProfileUpdate(t *testing.T) {
	users := newStubUserAPI()
	p := patient
	users.profile = &p
	sess, store := sessionFor(patient)
	svc := NewProfileService(users, &stubPersonAPI{}, sess, zerolog.Nop())

	_, err := svc.Update(context.Background(), ProfileForm{Name: "Ana", Email: "ana@example.com", Password: "a", PasswordConfirmation: "b"})
	if got := domain.MessageOf(err); got != "Las contraseñas no coinciden" {
		t.Fatalf("mismatch message = %q", got)
	}
	_, err = svc.Update(context.Background(), ProfileForm{Name: " ", Email: "ana@example.com"})
	if got := domain.MessageOf(err); got != "Nombre y correo no pueden estar vacíos" {
		t.Fatalf("empty message = %q", got)
	}
	if users.updated != nil {
		t.Fatal("API called despite invalid form")
	}

	u, err := svc.Update(context.Background(), ProfileForm{Name: "Ana Pérez", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if u.Name != "Ana Pérez" || store.sess.User.Name != "Ana Pérez" {
		t.Errorf("profile not re-persisted: %+v", store.sess.User)
	}
	if users.updated.Password != "" {
		t.Errorf("empty password sent")
	}
}

func TestSavePerson_CreatesThenUpdates(t *testing.T) {
	persons := &stubPersonAPI{}
	sess, _ := sessionFor(patient)
	svc := NewProfileService(newStubUserAPI(), persons, sess, zerolog.Nop())
	form := PersonForm{Cedula: "0102030405", BirthDate: "1990-05-01", Address: "Av. Siempre Viva", Phone: "0999999999"}

	if _, err := svc.SavePerson(context.Background(), form); err != nil {
		t.Fatalf("create: %v", err)
	}
	if persons.created == nil || persons.created.UserID != patient.ID || persons.created.BirthDate != mustDate("1990-05-01") {
		t.Fatalf("created = %+v", persons.created)
	}

	persons.existing = &domain.Person{ID: 50, UserID: patient.ID}
	if _, err := svc.SavePerson(context.Background(), form); err != nil {
		t.Fatalf("update: %v", err)
	}
	if persons.updateID != 50 {
		t.Errorf("updated id = %d", persons.updateID)
	}

	form.BirthDate = "01/05/1990"
	if _, err := svc.SavePerson(context.Background(), form); !domain.IsValidation(err) {
		t.Errorf("bad birth date: err = %v", err)
	}
}

func TestDashboardOverview(t *testing.T) {
	reserved := slotAt(4, "2025-03-12", "10:00", "10:30", domain.StateReserved, patient.ID)
	slots := &stubSlotAPI{reserved: &reserved}
	users := newStubUserAPI(nutritionist)
	p := patient
	users.profile = &p
	sess, _ := sessionFor(patient)
	svc := NewDashboardService(users, slots, sess, zerolog.Nop())

	d, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if d.Reserved == nil || d.Reserved.ID != 4 {
		t.Fatalf("reserved = %+v", d.Reserved)
	}
	n, err := svc.Nutritionist(context.Background(), d.Reserved.NutritionistID)
	if err != nil || n.ID != nutritionist.ID {
		t.Fatalf("Nutritionist = %+v, %v", n, err)
	}

	slots.reserved = nil
	d, err = svc.Overview(context.Background())
	if err != nil || d.Reserved != nil {
		t.Fatalf("empty state = %+v, %v", d, err)
	}
}

func TestDashboardOverview_SkipsReservationForStaff(t *testing.T) {
	slots := &stubSlotAPI{listErr: errors.New("must not be called")}
	users := newStubUserAPI()
	n := nutritionist
	users.profile = &n
	sess, _ := sessionFor(nutritionist)
	svc := NewDashboardService(users, slots, sess, zerolog.Nop())
	if _, err := svc.Overview(context.Background()); err != nil {
		t.Fatalf("Overview: %v", err)
	}
}

func TestHistoryFinalized(t *testing.T) {
	other := int64(55)
	slots := &stubSlotAPI{slots: []domain.Slot{
		slotAt(3, "2025-03-10", "11:00", "11:30", domain.StateFinalized, patient.ID),
		slotAt(1, "2025-03-10", "09:00", "09:30", domain.StateFinalized, patient.ID),
		slotAt(2, "2025-03-10", "10:00", "10:30", domain.StateCancelled, patient.ID),
		slotAt(4, "2025-03-11", "09:00", "09:30", domain.StateFinalized, patient.ID),
	}}
	slots.slots[0].NutritionistID = other
	sess, _ := sessionFor(patient)
	dir := stubDirectory{users: map[int64]domain.User{nutritionist.ID: nutritionist}}
	svc := NewHistoryService(slots, dir, sess, fixedClock(), zerolog.Nop())

	h, err := svc.Finalized(context.Background(), domain.Date{})
	if err != nil {
		t.Fatalf("Finalized: %v", err)
	}
	if h.Date != mustDate("2025-03-10") {
		t.Errorf("date = %s, want today", h.Date)
	}
	if len(h.Entries) != 2 || h.Entries[0].Slot.ID != 1 || h.Entries[1].Slot.ID != 3 {
		t.Fatalf("entries = %+v", h.Entries)
	}
	if h.Entries[0].Nutritionist.Name != nutritionist.Name {
		t.Errorf("resolved = %+v", h.Entries[0].Nutritionist)
	}
	if got := h.Entries[1].Nutritionist; got.Name != "Desconocido" || got.Email != "-" {
		t.Errorf("fallback = %+v", got)
	}
}

func TestUserAdmin(t *testing.T) {
	users := newStubUserAPI(admin, nutritionist, patient)
	auth := &stubAuthAPI{}
	sess, store := sessionFor(admin)
	svc := NewUserAdminService(users, stubRoleAPI{roles: []domain.RoleOption{{ID: 1, Name: "Administrador"}}}, auth, sess, zerolog.Nop())

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, u := range list {
		if u.Role == domain.RoleAdministrator {
			t.Errorf("administrator listed: %+v", u)
		}
	}
	if len(list) != 2 {
		t.Errorf("len = %d", len(list))
	}

	if err := svc.Update(context.Background(), nutritionist.ID, AdminUserForm{Name: "Dra. Ruiz", Email: "bad"}); !domain.IsValidation(err) {
		t.Errorf("invalid update: err = %v", err)
	}
	if err := svc.Update(context.Background(), nutritionist.ID, AdminUserForm{Name: "Dra. Ruiz", Email: "r@example.com", Role: domain.RolePatient}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := users.adminUpd[nutritionist.ID]; got.Role != domain.RolePatient {
		t.Errorf("update = %+v", got)
	}
	if err := svc.Delete(context.Background(), patient.ID); err != nil || users.deleted[0] != patient.ID {
		t.Fatalf("Delete: %v %v", err, users.deleted)
	}

	auth.result = &ports.AuthResult{Token: "new-token", User: domain.User{ID: 30, Name: "Nuevo", Role: domain.RoleNutritionist}}
	msg, err := svc.Create(context.Background(), CreateUserForm{
		Name: "Nuevo", Email: "n@example.com", Password: "pw", PasswordConfirmation: "pw", Role: domain.RoleNutritionist,
	})
	if err != nil || msg != msgUserCreated {
		t.Fatalf("Create = %q, %v", msg, err)
	}
	if auth.registered.Role != domain.RoleNutritionist {
		t.Errorf("role sent = %v", auth.registered.Role)
	}
	if store.sess.User.ID != admin.ID {
		t.Errorf("admin session replaced by the new account")
	}

	roles, err := svc.Roles(context.Background())
	if err != nil || len(roles) != 1 {
		t.Fatalf("Roles = %v, %v", roles, err)
	}
}

func TestUserAdmin_NonAdminForbidden(t *testing.T) {
	sess, _ := sessionFor(nutritionist)
	svc := NewUserAdminService(newStubUserAPI(), stubRoleAPI{}, &stubAuthAPI{}, sess, zerolog.Nop())
	if _, err := svc.List(context.Background()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v", err)
	}
}
