package google

import (
	"testing"

	"worklog/internal/core"
)

func TestWeekValues_HeaderAndNumbers(t *testing.T) {
	vals := weekValues([]core.WorkLogRow{
		{Date: "2025-10-13", Project: "Alpha", Task: "Build", Effort: 2.5, Summary: "s", InternalMeetings: 1},
	})
	if len(vals) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(vals))
	}
	if vals[0][0] != core.ColDate || vals[0][6] != core.ColClientMeetings {
		t.Errorf("unexpected header: %v", vals[0])
	}
	if got, ok := vals[1][3].(float64); !ok || got != 2.5 {
		t.Errorf("effort should be numeric 2.5, got %#v", vals[1][3])
	}
}

func TestParseWeekValues_RoundTrip(t *testing.T) {
	in := []core.WorkLogRow{
		{Date: "2025-10-13", Project: "Alpha", Task: "Build", Effort: 2.5, Summary: "s", InternalMeetings: 1},
		{Date: "2025-10-14", Project: "", Effort: 0, ClientMeetings: 0.5},
	}
	got, err := parseWeekValues(weekValues(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != len(in) {
		t.Fatalf("expected %d rows, got %d", len(in), len(got))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Errorf("row %d: got %+v, want %+v", i, got[i], in[i])
		}
	}
}

func TestParseWeekValues_ShortRowsAndText(t *testing.T) {
	vals := [][]interface{}{
		{"Date", "Project Name", "Effort Spent (hrs)"},
		{"2025-10-13", "Alpha", "three"},
		{"2025-10-14"},
	}
	got, err := parseWeekValues(vals)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Effort != 0 {
		t.Errorf("unparseable effort should be 0, got %v", got[0].Effort)
	}
	if got[1].Project != core.MissingText || got[0].Task != core.MissingText {
		t.Errorf("absent cells should become %q: %+v", core.MissingText, got)
	}
}

func TestParseWeekValues_BadHeader(t *testing.T) {
	if _, err := parseWeekValues([][]interface{}{{"When", "What"}}); err == nil {
		t.Fatal("expected header error")
	}
	rows, err := parseWeekValues(nil)
	if err != nil || len(rows) != 0 {
		t.Fatalf("empty sheet: rows=%v err=%v", rows, err)
	}
}
