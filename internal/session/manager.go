package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"worklog/internal/cache"
	"worklog/internal/core"
	"worklog/internal/sheets"
)

// Manager creates and looks up sessions. Sessions idle longer than the TTL,
// or pushed out by newer ones, are dropped without being saved.
type Manager struct {
	store    sheets.WeekReader
	sessions *cache.LRUCache[*Session]
	group    singleflight.Group
	now      func() time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now for week selection and expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store sheets.WeekReader, maxSessions int, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	m.sessions = cache.NewLRUCache[*Session](maxSessions, ttl,
		cache.WithClock[*Session](func() time.Time { return m.now() }),
		cache.WithEvictHook(func(id string, s *Session) {
			slog.Debug("Session evicted", "session_id", id, "week_key", s.Key.String())
		}),
	)
	return m
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	return m.sessions.Get(id)
}

// GetOrCreate returns the session for id, creating one when id is unknown or
// expired. A well-formed id is reused so the browser keeps its cookie; any
// other id is replaced. Concurrent creation for one id loads the week once.
func (m *Manager) GetOrCreate(ctx context.Context, id string) (*Session, bool, error) {
	if s, ok := m.Get(id); ok {
		return s, false, nil
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	v, err, _ := m.group.Do(id, func() (interface{}, error) {
		if s, ok := m.sessions.Get(id); ok {
			return s, nil
		}
		now := m.now()
		week := core.NewWeek(now)
		rows, err := m.store.Load(ctx, week.Key)
		if err != nil {
			return nil, fmt.Errorf("load week %s: %w", week.Key, err)
		}
		s := New(id, week, rows, now)
		m.sessions.Set(id, s)
		slog.InfoContext(ctx, "Session created",
			"session_id", id, "week_key", week.Key.String(), "loaded_rows", len(rows))
		return s, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Session), true, nil
}

// Cache exposes the session cache for periodic expiry sweeps.
func (m *Manager) Cache() cache.Cleaner { return m.sessions }

// Len returns the number of live sessions.
func (m *Manager) Len() int { return m.sessions.Size() }
