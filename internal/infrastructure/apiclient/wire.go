package apiclient

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
)

// flexID decodes ids the server sends either as numbers or numeric strings.
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", b)
	}
	*f = flexID(n)
	return nil
}

type slotDTO struct {
	ID                flexID  `json:"id"`
	NutricionistaID   flexID  `json:"nutricionista_id"`
	PacienteID        *flexID `json:"paciente_id"`
	Fecha             string  `json:"fecha"`
	HoraInicio        string  `json:"hora_inicio"`
	HoraFin           string  `json:"hora_fin"`
	Estado            string  `json:"estado"`
	NutricionistaName string  `json:"nutricionista_name,omitempty"`
	Dia               string  `json:"dia,omitempty"`
}

func (d slotDTO) toDomain() (domain.Slot, error) {
	date, err := domain.ParseDate(d.Fecha)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("slot %d: %w", d.ID, err)
	}
	start, err := domain.ParseClock(d.HoraInicio)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("slot %d: %w", d.ID, err)
	}
	end, err := domain.ParseClock(d.HoraFin)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("slot %d: %w", d.ID, err)
	}
	s := domain.Slot{
		ID:               int64(d.ID),
		NutritionistID:   int64(d.NutricionistaID),
		NutritionistName: d.NutricionistaName,
		Date:             date,
		Start:            start,
		End:              end,
		State:            domain.ParseSlotState(d.Estado),
	}
	if d.PacienteID != nil && *d.PacienteID != 0 {
		id := int64(*d.PacienteID)
		s.PatientID = &id
	}
	return s, nil
}

// mapSlots converts wire slots, dropping undecodable entries and logging
// slots whose interval is inverted.
func mapSlots(dtos []slotDTO, log zerolog.Logger) []domain.Slot {
	out := make([]domain.Slot, 0, len(dtos))
	for _, d := range dtos {
		s, err := d.toDomain()
		if err != nil {
			log.Warn().Err(err).Msg("skipping malformed slot")
			continue
		}
		if !s.Valid() {
			log.Warn().Int64("slot_id", s.ID).Str("start", s.Start.String()).Str("end", s.End.String()).
				Msg("slot start is not before end")
		}
		if s.State == domain.StateUnknown {
			log.Warn().Int64("slot_id", s.ID).Str("estado", d.Estado).Msg("unknown slot state")
		}
		out = append(out, s)
	}
	return out
}

// decodeSlotListing flattens the three listing shapes the server uses:
// {"turnos": {"YYYY-MM-DD": [...]}}, {"turnos": [...]} and a bare array.
func decodeSlotListing(raw []byte) ([]slotDTO, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == '[' {
		var list []slotDTO
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode slot list: %w", err)
		}
		return list, nil
	}

	var envelope struct {
		Turnos json.RawMessage `json:"turnos"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode slot envelope: %w", err)
	}
	inner := bytes.TrimSpace(envelope.Turnos)
	if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
		return nil, nil
	}
	if inner[0] == '[' {
		var list []slotDTO
		if err := json.Unmarshal(inner, &list); err != nil {
			return nil, fmt.Errorf("decode slot list: %w", err)
		}
		return list, nil
	}

	var byDate map[string][]slotDTO
	if err := json.Unmarshal(inner, &byDate); err != nil {
		return nil, fmt.Errorf("decode slots by date: %w", err)
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	var list []slotDTO
	for _, d := range dates {
		for _, s := range byDate[d] {
			if s.Fecha == "" {
				s.Fecha = d
			}
			list = append(list, s)
		}
	}
	return list, nil
}

type userDTO struct {
	ID        flexID `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	RolesID   flexID `json:"roles_id"`
	NombreRol string `json:"nombre_rol,omitempty"`
}

func (d userDTO) toDomain() domain.User {
	role := domain.RoleFromWire(int(d.RolesID))
	if role == domain.RoleUnknown && d.NombreRol != "" {
		if r, err := domain.ParseRole(d.NombreRol); err == nil {
			role = r
		}
	}
	return domain.User{ID: int64(d.ID), Name: d.Name, Email: d.Email, Role: role}
}

type roleDTO struct {
	ID        flexID `json:"id"`
	RolesID   flexID `json:"roles_id"`
	NombreRol string `json:"nombre_rol"`
}

func (d roleDTO) toDomain() domain.RoleOption {
	id := d.ID
	if id == 0 {
		id = d.RolesID
	}
	return domain.RoleOption{ID: int(id), Name: d.NombreRol}
}

type personDTO struct {
	ID              flexID `json:"id,omitempty"`
	Cedula          string `json:"cedula"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Direccion       string `json:"direccion"`
	Telefono        string `json:"telefono"`
	UserID          flexID `json:"user_id"`
}

func (d personDTO) toDomain() domain.Person {
	p := domain.Person{
		ID:      int64(d.ID),
		UserID:  int64(d.UserID),
		Cedula:  d.Cedula,
		Address: d.Direccion,
		Phone:   d.Telefono,
	}
	if bd, err := domain.ParseDate(d.FechaNacimiento); err == nil {
		p.BirthDate = bd
	}
	return p
}

type bulkDTO struct {
	Message  string `json:"message"`
	Cantidad int    `json:"cantidad"`
}

type messageDTO struct {
	Message string `json:"message"`
}

// decodeList reads either a bare array or an object wrapping the array
// under one of keys.
func decodeList[T any](raw []byte, keys ...string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == '[' {
		var list []T
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	for _, k := range keys {
		inner, ok := envelope[k]
		if !ok {
			continue
		}
		var list []T
		if err := json.Unmarshal(inner, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("no list under %v", keys)
}

// decodeOne reads an object either bare or wrapped under one of keys.
// ok is false when the payload carries no object at all.
func decodeOne[T any](raw []byte, keys ...string) (v T, ok bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return v, false, nil
	}
	if raw[0] == '[' {
		var list []T
		if err := json.Unmarshal(raw, &list); err != nil {
			return v, false, err
		}
		if len(list) == 0 {
			return v, false, nil
		}
		return list[0], true, nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return v, false, err
	}
	for _, k := range keys {
		if inner, found := envelope[k]; found {
			return decodeOne[T](inner)
		}
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, err
	}
	return v, true, nil
}
