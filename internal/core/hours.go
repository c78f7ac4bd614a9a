package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseHours converts a cell to hours. Unparseable, empty and non-finite
// values yield 0. Negative values are kept as-is.
func ParseHours(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatHours renders hours with at least one decimal ("2.5", "0.0", "8.0").
func FormatHours(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// RawRow is a row as read from storage: cells keyed by column header.
// A missing key means the cell was absent.
type RawRow map[string]string

// CoerceRaw normalizes a raw row. Absent text cells become MissingText,
// absent or unparseable hours become 0.
func CoerceRaw(raw RawRow) WorkLogRow {
	text := func(col string) string {
		if v, ok := raw[col]; ok {
			return v
		}
		return MissingText
	}
	return WorkLogRow{
		Date:             text(ColDate),
		Project:          text(ColProject),
		Task:             text(ColTask),
		Effort:           ParseHours(raw[ColEffort]),
		Summary:          text(ColSummary),
		InternalMeetings: ParseHours(raw[ColInternalMeetings]),
		ClientMeetings:   ParseHours(raw[ColClientMeetings]),
	}
}

// Coerce normalizes typed rows the same way CoerceRaw does, so that
// non-finite hours and carriage returns never reach storage. It returns a
// new slice.
func Coerce(rows []WorkLogRow) []WorkLogRow {
	out := make([]WorkLogRow, len(rows))
	for i, r := range rows {
		r.Date = NormalizeText(r.Date)
		r.Project = NormalizeText(r.Project)
		r.Task = NormalizeText(r.Task)
		r.Summary = NormalizeText(r.Summary)
		r.Effort = finite(r.Effort)
		r.InternalMeetings = finite(r.InternalMeetings)
		r.ClientMeetings = finite(r.ClientMeetings)
		out[i] = r
	}
	return out
}

// NormalizeText turns CRLF and lone CR line breaks into LF. CSV readers
// fold CRLF inside quoted fields, so text is stored with LF only.
func NormalizeText(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
