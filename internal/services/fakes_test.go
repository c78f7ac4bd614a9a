package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"worklog/internal/core"
)

type fakeStore struct {
	mu      sync.Mutex
	weeks   map[core.WeekKey][]core.WorkLogRow
	savedAt map[core.WeekKey]time.Time
	saveErr error
	clock   time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		weeks:   map[core.WeekKey][]core.WorkLogRow{},
		savedAt: map[core.WeekKey]time.Time{},
		clock:   time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) Load(_ context.Context, key core.WeekKey) ([]core.WorkLogRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.WorkLogRow{}, f.weeks[key]...), nil
}

func (f *fakeStore) Save(_ context.Context, key core.WeekKey, rows []core.WorkLogRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.clock = f.clock.Add(time.Minute)
	f.weeks[key] = append([]core.WorkLogRow{}, rows...)
	f.savedAt[key] = f.clock
	return nil
}

func (f *fakeStore) LastSaved(_ context.Context, key core.WeekKey) (time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.savedAt[key]
	return at, ok, nil
}

func (f *fakeStore) Weeks(_ context.Context) ([]core.WeekKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []core.WeekKey
	for k := range f.weeks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}

type published struct {
	key   string
	rows  int
	total float64
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (f *fakePublisher) PublishWeekSaved(_ context.Context, key string, rows int, total float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{key, rows, total})
	return nil
}

type fakeMirror struct {
	mu    sync.Mutex
	calls map[core.WeekKey]int
	fail  bool
}

func (f *fakeMirror) MirrorWeek(_ context.Context, key core.WeekKey, _ []core.WorkLogRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[core.WeekKey]int{}
	}
	f.calls[key]++
	if f.fail {
		return errors.New("quota exceeded")
	}
	return nil
}
