// Package core holds the work log domain: rows and their columns, the week
// window and its key, hour parsing, and the weekly aggregations.
//
// Every value crossing a storage boundary goes through Coerce, so what the
// grid shows and what ends up on disk are normalized the same way.
package core

import (
	"errors"
	"strings"
)

// Column headers, in persisted order.
const (
	ColDate             = "Date"
	ColProject          = "Project Name"
	ColTask             = "Task"
	ColEffort           = "Effort Spent (hrs)"
	ColSummary          = "Task Summary"
	ColInternalMeetings = "Internal Meetings Time (hrs)"
	ColClientMeetings   = "Client Meetings Time (hrs)"
)

// Columns is the canonical column set of a week file.
var Columns = []string{
	ColDate,
	ColProject,
	ColTask,
	ColEffort,
	ColSummary,
	ColInternalMeetings,
	ColClientMeetings,
}

// MissingText is what an absent text cell becomes after coercion.
const MissingText = "nan"

// DateLayout is the layout used for row dates.
const DateLayout = "2006-01-02"

type (
	// WorkLogRow is one entry of time logged against a date/project/task.
	WorkLogRow struct {
		Date             string
		Project          string
		Task             string
		Effort           float64
		Summary          string
		InternalMeetings float64
		ClientMeetings   float64
	}
)

var (
	ErrUnknownColumn  = errors.New("unknown column")
	ErrInvalidWeekKey = errors.New("invalid week key")
)

// BlankRow returns a row for date with every other field at its zero value.
func BlankRow(date string) WorkLogRow {
	return WorkLogRow{Date: date}
}

// IsNumericColumn reports whether col holds hours.
func IsNumericColumn(col string) bool {
	switch col {
	case ColEffort, ColInternalMeetings, ColClientMeetings:
		return true
	}
	return false
}

// Field returns the textual value of col, formatted the way it is persisted.
func (r WorkLogRow) Field(col string) (string, error) {
	switch col {
	case ColDate:
		return r.Date, nil
	case ColProject:
		return r.Project, nil
	case ColTask:
		return r.Task, nil
	case ColEffort:
		return FormatHours(r.Effort), nil
	case ColSummary:
		return r.Summary, nil
	case ColInternalMeetings:
		return FormatHours(r.InternalMeetings), nil
	case ColClientMeetings:
		return FormatHours(r.ClientMeetings), nil
	}
	return "", ErrUnknownColumn
}

// SetField assigns a textual value to col. Hours are parsed best-effort,
// anything unparseable becomes 0.
func (r *WorkLogRow) SetField(col, value string) error {
	switch col {
	case ColDate:
		r.Date = NormalizeText(value)
	case ColProject:
		r.Project = NormalizeText(value)
	case ColTask:
		r.Task = NormalizeText(value)
	case ColEffort:
		r.Effort = ParseHours(value)
	case ColSummary:
		r.Summary = NormalizeText(value)
	case ColInternalMeetings:
		r.InternalMeetings = ParseHours(value)
	case ColClientMeetings:
		r.ClientMeetings = ParseHours(value)
	default:
		return ErrUnknownColumn
	}
	return nil
}

// Record returns the row as a slice of cells in Columns order.
func (r WorkLogRow) Record() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i], _ = r.Field(c)
	}
	return out
}

// HasProject reports whether the project name is non-blank.
func (r WorkLogRow) HasProject() bool {
	return strings.TrimSpace(r.Project) != ""
}
