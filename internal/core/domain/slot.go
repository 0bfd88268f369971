package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotState represents the server-reported lifecycle state of a slot.
type SlotState string

const (
	StateAvailable SlotState = "available"
	StateReserved  SlotState = "reserved"
	StateCancelled SlotState = "cancelled"
	StateFinalized SlotState = "finalized"
	StateExpired   SlotState = "expired"
	StateUnknown   SlotState = "unknown"
)

// wireStates maps the values the scheduling API sends in "estado".
var wireStates = map[string]SlotState{
	"disponible": StateAvailable,
	"reservado":  StateReserved,
	"cancelado":  StateCancelled,
	"finalizado": StateFinalized,
	"caducado":   StateExpired,
	"available":  StateAvailable,
	"reserved":   StateReserved,
	"cancelled":  StateCancelled,
	"finalized":  StateFinalized,
	"expired":    StateExpired,
}

// ParseSlotState translates a wire state. Unrecognised values map to StateUnknown.
func ParseSlotState(s string) SlotState {
	if st, ok := wireStates[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st
	}
	return StateUnknown
}

// Label returns the user-facing (Spanish) name of the state.
func (s SlotState) Label() string {
	switch s {
	case StateAvailable:
		return "Disponible"
	case StateReserved:
		return "Reservado"
	case StateCancelled:
		return "Cancelado"
	case StateFinalized:
		return "Finalizado"
	case StateExpired:
		return "Caducado"
	default:
		return "Desconocido"
	}
}

// HasPatient reports whether a slot in this state carries patient information.
func (s SlotState) HasPatient() bool {
	return s == StateReserved || s == StateCancelled || s == StateFinalized
}

// AfternoonStart is the first start time classified as afternoon.
const AfternoonStart = ClockTime(13 * 3600)

// ClockTime is a wall-clock time of day, in seconds since midnight.
type ClockTime int

// ParseClock accepts "HH:MM" or "HH:MM:SS".
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	limits := []int{23, 59, 59}
	total := 0
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		total = total*60 + n
	}
	if len(parts) == 2 {
		total *= 60
	}
	return ClockTime(total), nil
}

// String formats the time as HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/3600, (int(c)%3600)/60)
}

// MarshalJSON writes HH:MM, or HH:MM:SS when the seconds are not zero.
func (c ClockTime) MarshalJSON() ([]byte, error) {
	text := c.String()
	if sec := int(c) % 60; sec != 0 {
		text = fmt.Sprintf("%s:%02d", text, sec)
	}
	return []byte(`"` + text + `"`), nil
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	v, err := ParseClock(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

const dateLayout = "2006-01-02"

// Date is a calendar day without time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate accepts "YYYY-MM-DD"; a trailing time component (as some
// backends serialise dates) is ignored.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current calendar day in loc.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return DateOf(now.In(loc))
}

// AddDays moves the date by n calendar days, normalising month and year rollover.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Slot is one bookable interval [Start, End) on Date for one nutritionist.
type Slot struct {
	ID               int64     `json:"id"`
	NutritionistID   int64     `json:"nutritionist_id"`
	NutritionistName string    `json:"nutritionist_name,omitempty"`
	PatientID        *int64    `json:"patient_id,omitempty"`
	Date             Date      `json:"date"`
	Start            ClockTime `json:"start"`
	End              ClockTime `json:"end"`
	State            SlotState `json:"state"`
}

// Valid reports whether the slot honours start < end.
func (s Slot) Valid() bool { return s.Start < s.End }

// IsMorning reports whether the slot starts before AfternoonStart.
func (s Slot) IsMorning() bool { return s.Start < AfternoonStart }

// ReservedBy reports whether the slot is reserved by the given patient.
func (s Slot) ReservedBy(patientID int64) bool {
	return s.State == StateReserved && s.PatientID != nil && *s.PatientID == patientID
}

// OwnedBy reports whether the slot's patient is the given user, whatever its state.
func (s Slot) OwnedBy(patientID int64) bool {
	return s.PatientID != nil && *s.PatientID == patientID
}
