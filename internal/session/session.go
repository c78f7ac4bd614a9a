// Package session holds the per-browser editing state: the active week and
// the grid rows bound to it. Nothing here touches the store; rows are
// persisted only when the caller saves them.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"worklog/internal/core"
)

var (
	ErrRowNotFound = errors.New("row not found")
	// ErrUnknownColumn aliases the core sentinel so either can be matched.
	ErrUnknownColumn = core.ErrUnknownColumn
)

// Row is a grid row: a work log row plus a stable identifier for edits.
type Row struct {
	ID string
	core.WorkLogRow
}

// Session is one browser's view of one week. Week and Key are fixed at
// creation and never recomputed, even if the session outlives the week.
type Session struct {
	ID        string
	Week      core.Week
	Key       core.WeekKey
	CreatedAt time.Time

	mu      sync.Mutex
	rows    []Row
	savedAt time.Time
}

// New builds a session over rows. An empty rows gets one blank row per weekday.
func New(id string, week core.Week, rows []core.WorkLogRow, now time.Time) *Session {
	if len(rows) == 0 {
		rows = week.BlankRows()
	}
	s := &Session{ID: id, Week: week, Key: week.Key, CreatedAt: now}
	s.rows = make([]Row, 0, len(rows))
	for _, r := range rows {
		s.rows = append(s.rows, Row{ID: uuid.NewString(), WorkLogRow: r})
	}
	return s
}

// AddRow appends a blank row dated date.
func (s *Session) AddRow(date string) Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := Row{ID: uuid.NewString(), WorkLogRow: core.BlankRow(date)}
	s.rows = append(s.rows, row)
	return row
}

// InsertRow appends a blank row dated the first weekday.
func (s *Session) InsertRow() Row {
	return s.AddRow(s.Week.DateStrings()[0])
}

// UpdateCell sets one field of the identified row and returns the updated row.
func (s *Session) UpdateCell(rowID, column, value string) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(rowID)
	if i < 0 {
		return Row{}, fmt.Errorf("update %s: %w", rowID, ErrRowNotFound)
	}
	if err := s.rows[i].SetField(column, value); err != nil {
		return Row{}, fmt.Errorf("update %s column %q: %w", rowID, column, err)
	}
	return s.rows[i], nil
}

func (s *Session) DeleteRow(rowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(rowID)
	if i < 0 {
		return fmt.Errorf("delete %s: %w", rowID, ErrRowNotFound)
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	return nil
}

// Rows returns a snapshot of the grid in display order.
func (s *Session) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows...)
}

// WorkLogRows returns the grid rows without their identifiers.
func (s *Session) WorkLogRows() []core.WorkLogRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.WorkLogRow, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.WorkLogRow
	}
	return out
}

// MarkSaved records a successful save of the session's rows.
func (s *Session) MarkSaved(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedAt = at
}

// SavedAt returns the last save made through this session.
func (s *Session) SavedAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedAt, !s.savedAt.IsZero()
}

func (s *Session) index(rowID string) int {
	for i := range s.rows {
		if s.rows[i].ID == rowID {
			return i
		}
	}
	return -1
}
