package core

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// WorkDays is the number of weekdays in a week window (Monday..Friday).
const WorkDays = 5

type (
	// WeekKey identifies one week's persisted data, e.g. "2025_M01_W01".
	WeekKey string

	// Week is the Monday..Friday window of an ISO week plus its key.
	Week struct {
		Dates [WorkDays]time.Time
		Key   WeekKey
	}
)

var weekKeyPattern = regexp.MustCompile(`^(\d{4})_M(\d{2})_W(\d{2})$`)

// NewWeek computes the week window containing ref. Monday is ref minus its
// weekday offset, with Monday counted as 0.
func NewWeek(ref time.Time) Week {
	y, m, d := ref.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)

	var w Week
	for i := range w.Dates {
		w.Dates[i] = monday.AddDate(0, 0, i)
	}
	w.Key = KeyFor(ref)
	return w
}

// KeyFor returns the WeekKey of the ISO week containing ref. Year and month
// come from the Thursday of that week, so every day of an ISO week shares a
// key and the key's year always matches the ISO year.
func KeyFor(ref time.Time) WeekKey {
	y, m, d := ref.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	thursday := day.AddDate(0, 0, 3-offset)
	_, isoWeek := thursday.ISOWeek()
	return WeekKey(fmt.Sprintf("%d_M%02d_W%02d", thursday.Year(), int(thursday.Month()), isoWeek))
}

// ParseWeekKey validates s as a WeekKey.
func ParseWeekKey(s string) (WeekKey, error) {
	m := weekKeyPattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekKey, s)
	}
	month, _ := strconv.Atoi(m[2])
	week, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || week < 1 || week > 53 {
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekKey, s)
	}
	return WeekKey(s), nil
}

func (k WeekKey) String() string { return string(k) }

// DateStrings returns the five weekday dates as YYYY-MM-DD.
func (w Week) DateStrings() []string {
	out := make([]string, len(w.Dates))
	for i, d := range w.Dates {
		out[i] = d.Format(DateLayout)
	}
	return out
}

// Monday returns the first day of the window.
func (w Week) Monday() time.Time { return w.Dates[0] }

// Contains reports whether date is one of the window's weekday strings.
func (w Week) Contains(date string) bool {
	for _, d := range w.DateStrings() {
		if d == date {
			return true
		}
	}
	return false
}

// BlankRows returns one blank row per weekday.
func (w Week) BlankRows() []WorkLogRow {
	rows := make([]WorkLogRow, 0, WorkDays)
	for _, d := range w.DateStrings() {
		rows = append(rows, BlankRow(d))
	}
	return rows
}

// WeekOf returns the window a key names. The key's year is the ISO year, so
// the Monday is found from January 4th, which always lies in ISO week 1.
// Keys whose month disagrees with the week's Thursday are rejected.
func WeekOf(key WeekKey) (Week, error) {
	if _, err := ParseWeekKey(key.String()); err != nil {
		return Week{}, err
	}
	m := weekKeyPattern.FindStringSubmatch(key.String())
	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[3])

	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -((int(jan4.Weekday())+6)%7)+(week-1)*7)
	w := NewWeek(monday)
	if w.Key != key {
		return Week{}, fmt.Errorf("%w: %q does not name a week (expected %s)", ErrInvalidWeekKey, key, w.Key)
	}
	return w, nil
}
