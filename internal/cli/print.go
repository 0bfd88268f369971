package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/service"
)

var (
	okColor   = color.New(color.FgGreen)
	errColor  = color.New(color.FgRed)
	headColor = color.New(color.Bold)
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetBorder(false)
	t.SetHeaderLine(true)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

func printSuccess(w io.Writer, msg string) {
	okColor.Fprintln(w, msg)
}

func printNotice(w io.Writer, n *service.Notice) {
	if n == nil {
		return
	}
	if n.Kind == service.NoticeError {
		errColor.Fprintln(w, n.Text)
		return
	}
	okColor.Fprintln(w, n.Text)
}

func printUser(w io.Writer, u domain.User) {
	fmt.Fprintf(w, "ID:      %d\n", u.ID)
	fmt.Fprintf(w, "Nombre:  %s\n", u.Name)
	fmt.Fprintf(w, "Correo:  %s\n", u.Email)
	fmt.Fprintf(w, "Rol:     %s\n", u.Role.DisplayName())
}

func printUsers(w io.Writer, users []domain.User) {
	t := newTable(w, "ID", "Nombre", "Correo", "Rol")
	for _, u := range users {
		t.Append([]string{strconv.FormatInt(u.ID, 10), u.Name, u.Email, u.Role.DisplayName()})
	}
	t.Render()
}

func printPerson(w io.Writer, p domain.Person) {
	fmt.Fprintf(w, "Cédula:              %s\n", p.Cedula)
	fmt.Fprintf(w, "Fecha de nacimiento: %s\n", p.BirthDate)
	fmt.Fprintf(w, "Dirección:           %s\n", p.Address)
	fmt.Fprintf(w, "Teléfono:            %s\n", p.Phone)
}

func printLayout(w io.Writer, l domain.Layout) {
	fmt.Fprintf(w, "Inicio: %s\n", l.Initial)
	t := newTable(w, "Ruta", "Pantalla")
	for _, s := range l.Screens {
		t.Append([]string{string(s.Route), s.Title})
	}
	t.Render()
}

func slotHours(s domain.Slot) string {
	return s.Start.String() + " - " + s.End.String()
}

func mark(b bool, label string) string {
	if b {
		return label
	}
	return ""
}

func printReservationView(w io.Writer, v service.ReservationView) {
	if v.Provider != nil {
		headColor.Fprintf(w, "%s | %s\n", v.Provider.Name, v.Date)
	} else {
		headColor.Fprintf(w, "%s\n", v.Date)
	}
	section := func(title string, slots []service.ReservationSlot) {
		fmt.Fprintf(w, "\n%s\n", title)
		if len(slots) == 0 {
			fmt.Fprintln(w, "  Sin turnos")
			return
		}
		t := newTable(w, "ID", "Hora", "Estado", "")
		for _, s := range slots {
			note := mark(s.Mine, "mi turno")
			if note == "" {
				note = mark(s.CanReserve, "disponible para reservar")
			}
			t.Append([]string{strconv.FormatInt(s.ID, 10), slotHours(s.Slot), s.State.Label(), note})
		}
		t.Render()
	}
	section("Mañana", v.Morning)
	section("Tarde", v.Afternoon)
	if v.HasActiveReservation {
		fmt.Fprintln(w, "\nYa tiene un turno reservado con este nutricionista.")
	}
	printNotice(w, v.Notice)
}

func printBoardView(w io.Writer, v service.SlotBoardView) {
	headColor.Fprintf(w, "%s\n", v.Date)
	section := func(title string, slots []service.BoardSlot) {
		fmt.Fprintf(w, "\n%s\n", title)
		if len(slots) == 0 {
			fmt.Fprintln(w, "  Sin turnos")
			return
		}
		t := newTable(w, "ID", "Hora", "Estado", "Paciente", "Sel.")
		for _, s := range slots {
			patient := ""
			if s.PatientID != nil {
				patient = strconv.FormatInt(*s.PatientID, 10)
			}
			t.Append([]string{strconv.FormatInt(s.ID, 10), slotHours(s.Slot), s.State.Label(), patient, mark(s.Selected, "x")})
		}
		t.Render()
	}
	section("Mañana", v.Morning)
	section("Tarde", v.Afternoon)
	printNotice(w, v.Notice)
}

func printHistory(w io.Writer, h *service.History) {
	headColor.Fprintf(w, "Historial %s\n", h.Date)
	if len(h.Entries) == 0 {
		fmt.Fprintln(w, "No hay citas finalizadas para esta fecha.")
		return
	}
	t := newTable(w, "Hora", "Nutricionista", "Correo")
	for _, e := range h.Entries {
		t.Append([]string{slotHours(e.Slot), e.Nutritionist.Name, e.Nutritionist.Email})
	}
	t.Render()
}
