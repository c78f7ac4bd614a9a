// Package memory is a process-local WeekStore for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"worklog/internal/core"
	"worklog/internal/sheets"
	"worklog/internal/storage"
)

var _ sheets.WeekStore = (*Store)(nil)

type week struct {
	rows    []core.WorkLogRow
	savedAt time.Time
}

type Store struct {
	mu    sync.Mutex
	weeks map[core.WeekKey]week
	now   func() time.Time
}

func New() *Store {
	return &Store{weeks: map[core.WeekKey]week{}, now: time.Now}
}

// NewFromDir seeds the store from the week files found in dir. A missing or
// empty directory gives an empty store.
func NewFromDir(ctx context.Context, dir string) (*Store, error) {
	s := New()
	src, err := storage.NewCSVStore(dir)
	if err != nil {
		return nil, err
	}
	keys, err := src.Weeks(ctx)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		rows, err := src.Load(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("seed week %s: %w", k, err)
		}
		if err := s.Save(ctx, k, rows); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load returns a copy of the stored rows.
func (s *Store) Load(_ context.Context, key core.WeekKey) ([]core.WorkLogRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.weeks[key]
	if !ok {
		return []core.WorkLogRow{}, nil
	}
	return append([]core.WorkLogRow{}, w.rows...), nil
}

// Save replaces the week with a coerced copy of rows.
func (s *Store) Save(_ context.Context, key core.WeekKey, rows []core.WorkLogRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weeks[key] = week{rows: core.Coerce(rows), savedAt: s.now()}
	return nil
}

func (s *Store) LastSaved(_ context.Context, key core.WeekKey) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.weeks[key]
	return w.savedAt, ok, nil
}

func (s *Store) Weeks(_ context.Context) ([]core.WeekKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]core.WeekKey, 0, len(s.weeks))
	for k := range s.weeks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}
