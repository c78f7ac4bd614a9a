// Package chart computes pie chart geometry that the templates render as
// inline SVG.
package chart

import (
	"fmt"
	"math"

	"worklog/internal/core"
)

// DefaultRadius is the pie radius in SVG user units.
const DefaultRadius = 100.0

// Slice is one wedge of a pie. Path is empty for slices that take no space.
type Slice struct {
	Label   string
	Value   float64
	Percent float64
	Color   string
	Path    string
	// Full is set when the slice is the whole pie; it is drawn as a circle
	// because an SVG arc cannot start and end on the same point.
	Full   bool
	LabelX float64
	LabelY float64
}

// PieChart is a titled set of slices laid out on a circle of Radius.
type PieChart struct {
	Title  string
	Radius float64
	Total  float64
	Slices []Slice
}

// ViewBox is the SVG viewBox attribute for the chart.
func (p PieChart) ViewBox() string {
	d := 2 * p.Radius
	return fmt.Sprintf("0 0 %s %s", num(d), num(d))
}

// Empty reports whether nothing can be drawn.
func (p PieChart) Empty() bool { return p.Total <= 0 }

// PercentLabel formats a slice percentage for display.
func (s Slice) PercentLabel() string { return fmt.Sprintf("%.1f%%", s.Percent) }

// Pie lays out slices clockwise from twelve o'clock. Only positive values
// take up space; the rest stay in the legend at 0%.
func Pie(title string, values []core.ProjectEffort, palette Palette) PieChart {
	p := PieChart{Title: title, Radius: DefaultRadius}
	for _, v := range values {
		if v.Hours > 0 && !math.IsInf(v.Hours, 0) {
			p.Total += v.Hours
		}
	}

	r := p.Radius
	angle := -math.Pi / 2
	for i, v := range values {
		s := Slice{Label: v.Name, Value: v.Hours, Color: palette.Color(i)}
		if p.Total > 0 && v.Hours > 0 && !math.IsInf(v.Hours, 0) {
			frac := v.Hours / p.Total
			s.Percent = frac * 100
			sweep := frac * 2 * math.Pi
			mid := angle + sweep/2
			s.LabelX = r + 0.62*r*math.Cos(mid)
			s.LabelY = r + 0.62*r*math.Sin(mid)
			if frac >= 1-1e-9 {
				s.Full = true
				s.LabelX, s.LabelY = r, r
			} else {
				s.Path = arc(r, angle, angle+sweep)
			}
			angle += sweep
		}
		p.Slices = append(p.Slices, s)
	}
	return p
}

// Weekly builds the effort against remaining capacity chart.
func Weekly(sum core.WeeklySummary) PieChart {
	return Pie("Total Effort Spent This Week", sum.Slices(), Pastel)
}

// Daily builds one chart per weekday that has named projects. Other days are
// returned with an empty chart so the caller can show the day status.
func Daily(days []core.DailyDistribution) []DayChart {
	out := make([]DayChart, 0, len(days))
	for _, d := range days {
		dc := DayChart{Date: d.Date, Status: d.Status}
		if d.Status == core.DayHasProjects {
			dc.Chart = Pie("Project Distribution for "+d.Date, d.Projects, Set3)
		}
		out = append(out, dc)
	}
	return out
}

// DayChart pairs a weekday with its chart.
type DayChart struct {
	Date   string
	Status core.DayStatus
	Chart  PieChart
}

// Message is the text shown instead of a chart.
func (d DayChart) Message() string {
	switch d.Status {
	case core.DayNoData:
		return "No data available."
	case core.DayNoProjects:
		return "No project entries."
	}
	return ""
}

func arc(r, from, to float64) string {
	x1, y1 := r+r*math.Cos(from), r+r*math.Sin(from)
	x2, y2 := r+r*math.Cos(to), r+r*math.Sin(to)
	large := 0
	if to-from > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		num(r), num(r), num(x1), num(y1), num(r), num(r), large, num(x2), num(y2))
}

func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}
