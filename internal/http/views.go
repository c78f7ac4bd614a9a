package http

import (
	"slices"
	"time"

	"worklog/internal/chart"
	"worklog/internal/core"
	"worklog/internal/services"
	"worklog/internal/session"
)

// Cell kinds select the input the grid renders.
const (
	cellDate   = "date"
	cellText   = "text"
	cellNumber = "number"
)

type (
	pageView struct {
		Title    string
		Key      string
		Dates    []string
		Grid     gridView
		Charts   chartsView
		Existing existingView
	}

	gridView struct {
		Key     string
		Columns []string
		Rows    []gridRow
	}

	gridRow struct {
		ID    string
		Cells []gridCell
	}

	gridCell struct {
		Column  string
		Value   string
		Kind    string
		Options []string
	}

	chartsView struct {
		Weekly   chart.PieChart
		Summary  core.WeeklySummary
		Days     []chart.DayChart
		Internal float64
		Client   float64
	}

	existingView struct {
		Key       string
		Columns   []string
		Rows      [][]string
		Saved     bool
		LastSaved time.Time
		Error     string
	}
)

func newGridView(sess *session.Session) gridView {
	dates := sess.Week.DateStrings()
	v := gridView{Key: sess.Key.String(), Columns: core.Columns}
	for _, row := range sess.Rows() {
		gr := gridRow{ID: row.ID}
		for _, col := range core.Columns {
			value, _ := row.Field(col)
			cell := gridCell{Column: col, Value: value, Kind: cellText}
			switch {
			case col == core.ColDate:
				cell.Kind = cellDate
				cell.Options = dateOptions(dates, value)
			case core.IsNumericColumn(col):
				cell.Kind = cellNumber
			}
			gr.Cells = append(gr.Cells, cell)
		}
		v.Rows = append(v.Rows, gr)
	}
	return v
}

// dateOptions keeps an out-of-window date selectable so re-rendering the grid
// never changes a row.
func dateOptions(dates []string, current string) []string {
	if current == "" || slices.Contains(dates, current) {
		return dates
	}
	return append([]string{current}, dates...)
}

func newChartsView(rep services.WeekReport) chartsView {
	return chartsView{
		Weekly:   chart.Weekly(rep.Summary),
		Summary:  rep.Summary,
		Days:     chart.Daily(rep.Days),
		Internal: rep.Internal,
		Client:   rep.Client,
	}
}

func newExistingView(rep services.WeekReport) existingView {
	v := existingView{
		Key:       rep.Key.String(),
		Columns:   core.Columns,
		Saved:     rep.Saved,
		LastSaved: rep.LastSaved,
	}
	for _, row := range rep.Rows {
		v.Rows = append(v.Rows, row.Record())
	}
	return v
}
