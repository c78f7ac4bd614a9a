package core

import (
	"errors"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewWeekWindow(t *testing.T) {
	cases := []struct {
		ref    string
		monday string
	}{
		{"2025-10-13", "2025-10-13"}, // Monday
		{"2025-10-15", "2025-10-13"},
		{"2025-10-17", "2025-10-13"}, // Friday
		{"2025-10-18", "2025-10-13"}, // Saturday
		{"2025-10-19", "2025-10-13"}, // Sunday
		{"2025-10-03", "2025-09-29"},
		{"2025-01-01", "2024-12-30"},
	}
	for _, tc := range cases {
		w := NewWeek(day(tc.ref))
		if got := w.Monday().Format(DateLayout); got != tc.monday {
			t.Fatalf("ref %s: monday=%s, want %s", tc.ref, got, tc.monday)
		}
		dates := w.DateStrings()
		if len(dates) != 5 {
			t.Fatalf("ref %s: expected 5 dates, got %d", tc.ref, len(dates))
		}
		for i := 1; i < len(w.Dates); i++ {
			if w.Dates[i].Sub(w.Dates[i-1]) != 24*time.Hour {
				t.Fatalf("ref %s: dates not consecutive: %v", tc.ref, dates)
			}
		}
		if w.Dates[0].Weekday() != time.Monday || w.Dates[4].Weekday() != time.Friday {
			t.Fatalf("ref %s: window is not Mon..Fri: %v", tc.ref, dates)
		}
	}
}

func TestNewWeekIgnoresClockTime(t *testing.T) {
	late := time.Date(2025, 10, 15, 23, 59, 0, 0, time.FixedZone("X", 5*3600))
	w := NewWeek(late)
	if got := w.DateStrings()[0]; got != "2025-10-13" {
		t.Fatalf("monday=%s", got)
	}
}

func TestKeyFor(t *testing.T) {
	cases := []struct {
		ref  string
		want WeekKey
	}{
		{"2025-10-15", "2025_M10_W42"},
		{"2025-10-19", "2025_M10_W42"},
		{"2024-12-27", "2024_M12_W52"},
		{"2024-12-30", "2025_M01_W01"}, // late December in next year's week 1
		{"2026-01-01", "2026_M01_W01"},
		{"2020-12-31", "2020_M12_W53"},
		{"2021-01-03", "2020_M12_W53"}, // early January in previous year's week 53
	}
	for _, tc := range cases {
		if got := KeyFor(day(tc.ref)); got != tc.want {
			t.Fatalf("KeyFor(%s)=%s, want %s", tc.ref, got, tc.want)
		}
	}
}

func TestKeyStableWithinWeek(t *testing.T) {
	// Week spanning a month boundary.
	first := KeyFor(day("2025-09-29"))
	for _, d := range []string{"2025-09-30", "2025-10-01", "2025-10-02", "2025-10-03", "2025-10-04", "2025-10-05"} {
		if got := KeyFor(day(d)); got != first {
			t.Fatalf("KeyFor(%s)=%s, want %s", d, got, first)
		}
	}
	if next := KeyFor(day("2025-10-06")); next == first {
		t.Fatalf("expected a new key across the week boundary, got %s", next)
	}
}

func TestWeekContainsAndBlankRows(t *testing.T) {
	w := NewWeek(day("2025-10-15"))
	if !w.Contains("2025-10-17") || w.Contains("2025-10-18") {
		t.Fatalf("unexpected Contains result")
	}
	rows := w.BlankRows()
	if len(rows) != 5 {
		t.Fatalf("expected 5 blank rows, got %d", len(rows))
	}
	for i, r := range rows {
		if r.Date != w.DateStrings()[i] || r.Project != "" || r.Effort != 0 {
			t.Fatalf("row %d not blank: %+v", i, r)
		}
	}
}

func TestParseWeekKey(t *testing.T) {
	if _, err := ParseWeekKey("2025_M10_W42"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, bad := range []string{"", "2025_M13_W01", "2025_M10_W54", "2025-10-42", "../etc_M01_W01"} {
		if _, err := ParseWeekKey(bad); !errors.Is(err, ErrInvalidWeekKey) {
			t.Fatalf("ParseWeekKey(%q) expected ErrInvalidWeekKey, got %v", bad, err)
		}
	}
}

func TestWeekOf(t *testing.T) {
	for _, ref := range []time.Time{
		time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		want := NewWeek(ref)
		got, err := WeekOf(want.Key)
		if err != nil {
			t.Fatalf("WeekOf(%s): %v", want.Key, err)
		}
		if got != want {
			t.Errorf("WeekOf(%s) = %v, want %v", want.Key, got.DateStrings(), want.DateStrings())
		}
	}

	for _, bad := range []WeekKey{"2025_M01_W42", "2021_M01_W53", "nope"} {
		if _, err := WeekOf(bad); !errors.Is(err, ErrInvalidWeekKey) {
			t.Errorf("WeekOf(%s) err = %v, want ErrInvalidWeekKey", bad, err)
		}
	}
}
