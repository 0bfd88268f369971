package domain

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func mustClock(t *testing.T, s string) ClockTime {
	t.Helper()
	c, err := ParseClock(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return c
}

func TestDate_AddDays_RoundTripAcrossBoundaries(t *testing.T) {
	cases := []struct {
		in   string
		next string
	}{
		{"2025-01-31", "2025-02-01"},
		{"2024-12-31", "2025-01-01"},
		{"2024-02-28", "2024-02-29"},
		{"2025-02-28", "2025-03-01"},
		{"2025-07-25", "2025-07-26"},
	}
	for _, tc := range cases {
		d := mustDate(t, tc.in)
		next := d.AddDays(1)
		if next.String() != tc.next {
			t.Errorf("%s +1: expected %s, got %s", tc.in, tc.next, next)
		}
		if back := next.AddDays(-1); back.String() != tc.in {
			t.Errorf("%s +1 -1: expected %s, got %s", tc.in, tc.in, back)
		}
	}
}

func TestParseDate_IgnoresTimeSuffix(t *testing.T) {
	d := mustDate(t, "2025-07-25T00:00:00.000000Z")
	if d.String() != "2025-07-25" {
		t.Fatalf("unexpected date %s", d)
	}
	if _, err := ParseDate("25/07/2025"); err == nil {
		t.Fatal("expected error for non ISO date")
	}
}

func TestToday_UsesLocation(t *testing.T) {
	loc := time.FixedZone("GYE", -5*3600)
	now := time.Date(2025, 8, 1, 3, 0, 0, 0, time.UTC)
	if got := Today(now, loc).String(); got != "2025-07-31" {
		t.Fatalf("expected 2025-07-31, got %s", got)
	}
}

func TestParseClock(t *testing.T) {
	if c := mustClock(t, "09:30"); c.String() != "09:30" {
		t.Fatalf("unexpected %s", c)
	}
	if a, b := mustClock(t, "13:00"), mustClock(t, "13:00:00"); a != b {
		t.Fatalf("HH:MM and HH:MM:SS must agree: %d vs %d", a, b)
	}
	for _, bad := range []string{"", "9:30", "24:00", "12:60", "ab:cd", "12:00:00:00"} {
		if _, err := ParseClock(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestClockTime_MarshalKeepsSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"09:30", `"09:30"`},
		{"09:30:00", `"09:30"`},
		{"09:30:15", `"09:30:15"`},
	}
	for _, tt := range tests {
		c, err := ParseClock(tt.in)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tt.in, err)
		}
		b, err := c.MarshalJSON()
		if err != nil || string(b) != tt.want {
			t.Errorf("MarshalJSON(%q) = %s, %v; want %s", tt.in, b, err, tt.want)
		}
		var back ClockTime
		if err := back.UnmarshalJSON(b); err != nil || back != c {
			t.Errorf("round trip of %q = %v, %v", tt.in, back, err)
		}
	}
}

func TestParseSlotState(t *testing.T) {
	cases := map[string]SlotState{
		"disponible": StateAvailable,
		"Reservado":  StateReserved,
		"cancelado":  StateCancelled,
		"finalizado": StateFinalized,
		"caducado":   StateExpired,
		"expired":    StateExpired,
		"pendiente":  StateUnknown,
	}
	for in, want := range cases {
		if got := ParseSlotState(in); got != want {
			t.Errorf("%q: expected %s, got %s", in, want, got)
		}
	}
}

func TestPartitionDay_Boundaries(t *testing.T) {
	day := mustDate(t, "2025-07-25")
	slots := []Slot{
		{ID: 3, Date: day, Start: mustClock(t, "13:00"), End: mustClock(t, "13:30"), State: StateAvailable},
		{ID: 2, Date: day, Start: mustClock(t, "12:59"), End: mustClock(t, "13:29"), State: StateAvailable},
		{ID: 4, Date: day, Start: mustClock(t, "08:00"), End: mustClock(t, "08:30"), State: StateExpired},
		{ID: 5, Date: day, Start: mustClock(t, "15:00"), End: mustClock(t, "15:30"), State: StateExpired},
		{ID: 6, Date: day.AddDays(1), Start: mustClock(t, "09:00"), End: mustClock(t, "09:30"), State: StateAvailable},
	}

	v := PartitionDay(slots, day)
	if len(v.Morning) != 1 || v.Morning[0].ID != 2 {
		t.Fatalf("expected slot 2 in the morning, got %+v", v.Morning)
	}
	if len(v.Afternoon) != 1 || v.Afternoon[0].ID != 3 {
		t.Fatalf("expected slot 3 in the afternoon, got %+v", v.Afternoon)
	}
}

func TestPartitionDay_TieBreakByID(t *testing.T) {
	day := mustDate(t, "2025-07-25")
	start := mustClock(t, "10:00")
	slots := []Slot{
		{ID: 9, Date: day, Start: start, End: start + 1800, State: StateAvailable},
		{ID: 1, Date: day, Start: start, End: start + 1800, State: StateAvailable},
		{ID: 5, Date: day, Start: start - 1800, End: start, State: StateReserved},
	}
	v := PartitionDay(slots, day)
	got := []int64{v.Morning[0].ID, v.Morning[1].ID, v.Morning[2].ID}
	want := []int64{5, 1, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestPartitionDay_ReservedPastSlotStaysReserved(t *testing.T) {
	day := mustDate(t, "2020-01-01")
	patient := int64(7)
	slots := []Slot{{ID: 1, Date: day, Start: 9 * 3600, End: 9*3600 + 1800, State: StateReserved, PatientID: &patient}}
	v := PartitionDay(slots, day)
	if len(v.Morning) != 1 || v.Morning[0].State != StateReserved {
		t.Fatalf("past reserved slot must be rendered as reserved: %+v", v.Morning)
	}
}

func TestSlot_ReservedBy(t *testing.T) {
	me, other := int64(1), int64(2)
	s := Slot{State: StateReserved, PatientID: &me}
	if !s.ReservedBy(me) {
		t.Fatal("expected reserved by me")
	}
	if s.ReservedBy(other) {
		t.Fatal("must not be reserved by other")
	}
	s.State = StateCancelled
	if s.ReservedBy(me) {
		t.Fatal("cancelled slot is not an active reservation")
	}
}
