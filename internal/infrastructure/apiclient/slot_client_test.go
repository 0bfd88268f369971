package apiclient

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

func TestSlotClient_ListingShapes(t *testing.T) {
	cases := map[string]string{
		"grouped by date": `{"turnos":{"2025-07-26":[{"id":2,"nutricionista_id":5,"fecha":"2025-07-26","hora_inicio":"13:00:00","hora_fin":"13:30:00","estado":"disponible"}],"2025-07-25":[{"id":1,"nutricionista_id":5,"fecha":"2025-07-25","hora_inicio":"09:00","hora_fin":"09:30","estado":"reservado","paciente_id":9}]}}`,
		"wrapped array":   `{"turnos":[{"id":1,"nutricionista_id":5,"fecha":"2025-07-25","hora_inicio":"09:00","hora_fin":"09:30","estado":"reservado","paciente_id":9},{"id":2,"nutricionista_id":5,"fecha":"2025-07-26","hora_inicio":"13:00","hora_fin":"13:30","estado":"disponible"}]}`,
		"bare array":      `[{"id":1,"nutricionista_id":"5","fecha":"2025-07-25","hora_inicio":"09:00","hora_fin":"09:30","estado":"reservado","paciente_id":"9"},{"id":2,"nutricionista_id":5,"fecha":"2025-07-26","hora_inicio":"13:00","hora_fin":"13:30","estado":"disponible"}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/nutricionista/5/turnos" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				_, _ = io.WriteString(w, body)
			})
			slots, err := NewSlotClient(gw).ListByNutritionist(context.Background(), "tok", 5)
			if err != nil {
				t.Fatalf("ListByNutritionist returned error: %v", err)
			}
			if len(slots) != 2 {
				t.Fatalf("expected 2 slots, got %d", len(slots))
			}
			domain.SortSlots(slots)
			first := slots[0]
			if first.ID != 1 || first.State != domain.StateReserved || first.PatientID == nil || *first.PatientID != 9 {
				t.Fatalf("unexpected first slot %+v", first)
			}
			if first.Date.String() != "2025-07-25" || first.Start.String() != "09:00" {
				t.Fatalf("unexpected first slot time %s %s", first.Date, first.Start)
			}
			if slots[1].State != domain.StateAvailable || slots[1].PatientID != nil {
				t.Fatalf("unexpected second slot %+v", slots[1])
			}
		})
	}
}

func TestSlotClient_SkipsMalformedSlots(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"fecha":"nope","hora_inicio":"09:00","hora_fin":"09:30","estado":"disponible"},{"id":2,"fecha":"2025-07-25","hora_inicio":"09:00","hora_fin":"09:30","estado":"disponible"}]`)
	})
	slots, err := NewSlotClient(gw).ListOwn(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListOwn returned error: %v", err)
	}
	if len(slots) != 1 || slots[0].ID != 2 {
		t.Fatalf("expected only slot 2, got %+v", slots)
	}
}

func TestSlotClient_ReservedForPatient(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"No tiene turnos reservados"}`)
		})
		s, err := NewSlotClient(gw).ReservedForPatient(context.Background(), "tok")
		if err != nil || s != nil {
			t.Fatalf("expected nil, nil; got %+v, %v", s, err)
		}
	})
	t.Run("found", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"turno":{"id":4,"nutricionista_id":2,"paciente_id":7,"fecha":"2025-07-25","hora_inicio":"10:00:00","hora_fin":"10:30:00","estado":"reservado"}}`)
		})
		s, err := NewSlotClient(gw).ReservedForPatient(context.Background(), "tok")
		if err != nil || s == nil || s.ID != 4 || s.NutritionistID != 2 {
			t.Fatalf("unexpected %+v, %v", s, err)
		}
	})
}

func TestSlotClient_TransitionsAndBulk(t *testing.T) {
	type seen struct {
		method string
		path   string
		body   map[string]any
	}
	var calls []seen
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, seen{r.Method, r.URL.Path, body})
		switch r.URL.Path {
		case "/api/nutricionista/turnos/eliminar-dia", "/api/nutricionista/turnos/eliminar-multiples":
			_, _ = io.WriteString(w, `{"message":"Turnos eliminados","cantidad":3}`)
		default:
			_, _ = io.WriteString(w, `{"message":"ok"}`)
		}
	})
	c := NewSlotClient(gw)
	ctx := context.Background()

	if msg, err := c.Reserve(ctx, "tok", 1); err != nil || msg != "ok" {
		t.Fatalf("Reserve: %q %v", msg, err)
	}
	if _, err := c.Cancel(ctx, "tok", 2); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := c.Finalize(ctx, "tok", 3); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	day, _ := domain.ParseDate("2025-07-25")
	res, err := c.DeleteDay(ctx, "tok", day)
	if err != nil || res.Count != 3 || res.Message != "Turnos eliminados" {
		t.Fatalf("DeleteDay: %+v %v", res, err)
	}
	if _, err := c.DeleteMany(ctx, "tok", []int64{4, 5}); err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}

	want := []struct{ method, path string }{
		{http.MethodPost, "/api/turnos/1/reservar"},
		{http.MethodPost, "/api/turnos/2/cancelar"},
		{http.MethodPost, "/api/turnos/3/finalizar-turno"},
		{http.MethodDelete, "/api/nutricionista/turnos/eliminar-dia"},
		{http.MethodDelete, "/api/nutricionista/turnos/eliminar-multiples"},
	}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(calls))
	}
	for i, w := range want {
		if calls[i].method != w.method || calls[i].path != w.path {
			t.Fatalf("call %d: expected %s %s, got %s %s", i, w.method, w.path, calls[i].method, calls[i].path)
		}
	}
	if calls[3].body["fecha"] != "2025-07-25" {
		t.Fatalf("unexpected delete-day body %+v", calls[3].body)
	}
	ids, _ := calls[4].body["ids"].([]any)
	if len(ids) != 2 {
		t.Fatalf("unexpected delete-many body %+v", calls[4].body)
	}
}

func TestSlotClient_GenerateBody(t *testing.T) {
	var body map[string]string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"message":"Turnos generados","cantidad":12}`)
	})
	start, _ := domain.ParseDate("2025-07-25")
	in := ports.GenerateInput{
		StartDate: start, EndDate: start.AddDays(2),
		StartTime: 8 * 3600, EndTime: 17 * 3600,
		BreakStart: 12 * 3600, BreakEnd: 13 * 3600,
	}
	res, err := NewSlotClient(gw).Generate(context.Background(), "tok", in)
	if err != nil || res.Count != 12 {
		t.Fatalf("Generate: %+v %v", res, err)
	}
	want := map[string]string{
		"fecha_inicio": "2025-07-25", "fecha_fin": "2025-07-27",
		"hora_inicio": "08:00", "hora_fin": "17:00",
		"descanso_inicio": "12:00", "descanso_fin": "13:00",
	}
	for k, v := range want {
		if body[k] != v {
			t.Fatalf("field %s: expected %q, got %q", k, v, body[k])
		}
	}
}

func TestUserClient_ListMapsRoleNames(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"name":"Root","email":"r@x","nombre_rol":"Administrador"},{"id":2,"name":"Nora","email":"n@x","roles_id":2}]`)
	})
	users, err := NewUserClient(gw).List(context.Background(), "tok")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if users[0].Role != domain.RoleAdministrator || users[1].Role != domain.RoleNutritionist {
		t.Fatalf("unexpected roles %+v", users)
	}
}

func TestPersonClient_FindByUser(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user_id") != "7" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `[{"id":3,"cedula":"0102030405","fecha_nacimiento":"1990-05-01","direccion":"Av. 1","telefono":"099","user_id":7}]`)
	})
	p, err := NewPersonClient(gw).FindByUser(context.Background(), "tok", 7)
	if err != nil || p == nil {
		t.Fatalf("FindByUser: %+v %v", p, err)
	}
	if p.ID != 3 || p.BirthDate.String() != "1990-05-01" {
		t.Fatalf("unexpected person %+v", p)
	}
}
