package core

import "testing"

func TestSummarize(t *testing.T) {
	cases := []struct {
		efforts   []float64
		total     float64
		remaining float64
	}{
		{[]float64{45}, 45, 0},
		{[]float64{4, 6}, 10, 30},
		{nil, 0, 40},
		{[]float64{40}, 40, 0},
	}
	for i, tc := range cases {
		var rows []WorkLogRow
		for _, e := range tc.efforts {
			rows = append(rows, WorkLogRow{Effort: e})
		}
		s := Summarize(rows, DefaultCapacityHours)
		if s.Total != tc.total || s.Remaining != tc.remaining {
			t.Fatalf("case %d: got (%v,%v), want (%v,%v)", i, s.Total, s.Remaining, tc.total, tc.remaining)
		}
		sl := s.Slices()
		if len(sl) != 2 || sl[0].Hours != tc.total || sl[1].Hours != tc.remaining {
			t.Fatalf("case %d: unexpected slices %+v", i, sl)
		}
	}
}

func TestDistribute(t *testing.T) {
	mon, tue, wed := "2025-10-13", "2025-10-14", "2025-10-15"
	rows := []WorkLogRow{
		{Date: mon, Project: "Alpha", Effort: 3},
		{Date: mon, Project: "Alpha", Effort: 2},
		{Date: mon, Project: "", Effort: 5},
		{Date: mon, Project: "Beta", Effort: 1},
		{Date: tue, Project: "   ", Effort: 4},
	}
	got := Distribute(rows, []string{mon, tue, wed})
	if len(got) != 3 {
		t.Fatalf("expected 3 days, got %d", len(got))
	}

	m := got[0]
	if m.Status != DayHasProjects || len(m.Projects) != 2 {
		t.Fatalf("monday: unexpected %+v", m)
	}
	if m.Projects[0].Name != "Alpha" || m.Projects[0].Hours != 5 {
		t.Fatalf("monday: expected Alpha=5, got %+v", m.Projects[0])
	}
	if m.Projects[1].Name != "Beta" || m.Projects[1].Hours != 1 {
		t.Fatalf("monday: expected Beta=1, got %+v", m.Projects[1])
	}
	if m.Hours("Gamma") != 0 || m.Hours("Alpha") != 5 {
		t.Fatalf("monday: Hours lookup mismatch")
	}

	if got[1].Status != DayNoProjects || len(got[1].Projects) != 0 {
		t.Fatalf("tuesday: expected no projects, got %+v", got[1])
	}
	if got[2].Status != DayNoData {
		t.Fatalf("wednesday: expected no data, got %+v", got[2])
	}
}

func TestMeetingTotals(t *testing.T) {
	in, cl := MeetingTotals([]WorkLogRow{
		{InternalMeetings: 1, ClientMeetings: 0.5},
		{InternalMeetings: 2.5},
	})
	if in != 3.5 || cl != 0.5 {
		t.Fatalf("got (%v,%v)", in, cl)
	}
}
