package core

import (
	"math"
	"sort"
)

// DefaultCapacityHours is the standard working week.
const DefaultCapacityHours = 40.0

// Slice labels of the weekly summary.
const (
	LabelEffort    = "Effort Spent (hrs)"
	LabelRemaining = "Remaining (hrs)"
)

// DayStatus describes what a day's distribution can show.
type DayStatus int

const (
	DayNoData DayStatus = iota
	DayNoProjects
	DayHasProjects
)

type (
	// ProjectEffort is effort aggregated by project name.
	ProjectEffort struct {
		Name  string
		Hours float64
	}

	// WeeklySummary is total effort against the week's capacity.
	WeeklySummary struct {
		Capacity  float64
		Total     float64
		Remaining float64
	}

	// DailyDistribution is per-project effort for one weekday.
	DailyDistribution struct {
		Date     string
		Status   DayStatus
		Projects []ProjectEffort
	}
)

// Summarize sums effort over all rows. Remaining is floored at 0, there is
// no cap on Total.
func Summarize(rows []WorkLogRow, capacity float64) WeeklySummary {
	var total float64
	for _, r := range rows {
		total += r.Effort
	}
	return WeeklySummary{
		Capacity:  capacity,
		Total:     total,
		Remaining: math.Max(0, capacity-total),
	}
}

// Slices returns the two chart slices (effort, remaining).
func (s WeeklySummary) Slices() []ProjectEffort {
	return []ProjectEffort{
		{Name: LabelEffort, Hours: s.Total},
		{Name: LabelRemaining, Hours: s.Remaining},
	}
}

// Distribute groups each date's rows by project name and sums effort.
// Groups are ordered by name; groups whose trimmed name is empty are dropped.
func Distribute(rows []WorkLogRow, dates []string) []DailyDistribution {
	out := make([]DailyDistribution, 0, len(dates))
	for _, date := range dates {
		dd := DailyDistribution{Date: date, Status: DayNoData}
		sums := map[string]float64{}
		var seen bool
		for _, r := range rows {
			if r.Date != date {
				continue
			}
			seen = true
			if !r.HasProject() {
				continue
			}
			sums[r.Project] += r.Effort
		}
		if seen {
			dd.Status = DayNoProjects
		}
		if len(sums) > 0 {
			dd.Status = DayHasProjects
			for name, h := range sums {
				dd.Projects = append(dd.Projects, ProjectEffort{Name: name, Hours: h})
			}
			sort.Slice(dd.Projects, func(i, j int) bool { return dd.Projects[i].Name < dd.Projects[j].Name })
		}
		out = append(out, dd)
	}
	return out
}

// Hours returns the effort of the named project, or 0.
func (d DailyDistribution) Hours(project string) float64 {
	for _, p := range d.Projects {
		if p.Name == project {
			return p.Hours
		}
	}
	return 0
}

// MeetingTotals sums the two meeting columns over rows.
func MeetingTotals(rows []WorkLogRow) (internal, client float64) {
	for _, r := range rows {
		internal += r.InternalMeetings
		client += r.ClientMeetings
	}
	return internal, client
}
