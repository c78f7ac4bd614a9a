// Package services coordinates the store with save events and the mirror.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"worklog/internal/core"
	"worklog/internal/sheets"
)

// Publisher announces saved weeks.
type Publisher interface {
	PublishWeekSaved(ctx context.Context, weekKey string, rows int, totalHours float64) error
}

// SaveResult describes a completed save.
type SaveResult struct {
	Key        core.WeekKey
	Rows       int
	TotalHours float64
	SavedAt    time.Time
}

// WeekReport is everything the views need about a persisted week.
type WeekReport struct {
	Key       core.WeekKey
	Rows      []core.WorkLogRow
	Summary   core.WeeklySummary
	Days      []core.DailyDistribution
	Internal  float64
	Client    float64
	LastSaved time.Time
	Saved     bool
}

// WorklogService saves weeks and reports on them. The store is the source
// of truth; publishing is best effort.
type WorklogService struct {
	store     sheets.WeekStore
	publisher Publisher
	capacity  float64
	now       func() time.Time
}

// NewWorklogService wires a store with an optional publisher. A capacity of
// zero or less falls back to core.DefaultCapacityHours.
func NewWorklogService(store sheets.WeekStore, publisher Publisher, capacity float64) *WorklogService {
	if capacity <= 0 {
		capacity = core.DefaultCapacityHours
	}
	return &WorklogService{store: store, publisher: publisher, capacity: capacity, now: time.Now}
}

func (s *WorklogService) Capacity() float64 { return s.capacity }

// Store returns the underlying week store.
func (s *WorklogService) Store() sheets.WeekStore { return s.store }

// Save overwrites key with rows and then publishes a week-saved event.
func (s *WorklogService) Save(ctx context.Context, key core.WeekKey, rows []core.WorkLogRow) (SaveResult, error) {
	coerced := core.Coerce(rows)
	if err := s.store.Save(ctx, key, coerced); err != nil {
		return SaveResult{}, fmt.Errorf("save week %s: %w", key, err)
	}

	res := SaveResult{
		Key:        key,
		Rows:       len(coerced),
		TotalHours: core.Summarize(coerced, s.capacity).Total,
		SavedAt:    s.now(),
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "No publisher configured, skipping week saved event", "week_key", key.String())
		return res, nil
	}
	if err := s.publisher.PublishWeekSaved(ctx, key.String(), res.Rows, res.TotalHours); err != nil {
		// The week is persisted; the mirror catches up on its next sweep.
		slog.ErrorContext(ctx, "Failed to publish week saved event", "week_key", key.String(), "error", err)
	}
	return res, nil
}

// Report loads key from the store and aggregates it.
func (s *WorklogService) Report(ctx context.Context, key core.WeekKey, dates []string) (WeekReport, error) {
	rows, err := s.store.Load(ctx, key)
	if err != nil {
		return WeekReport{}, fmt.Errorf("load week %s: %w", key, err)
	}
	at, ok, err := s.store.LastSaved(ctx, key)
	if err != nil {
		return WeekReport{}, fmt.Errorf("last saved %s: %w", key, err)
	}
	return BuildReport(key, rows, dates, s.capacity, at, ok), nil
}

// BuildReport aggregates rows that are already in hand.
func BuildReport(key core.WeekKey, rows []core.WorkLogRow, dates []string, capacity float64, lastSaved time.Time, saved bool) WeekReport {
	internal, client := core.MeetingTotals(rows)
	return WeekReport{
		Key:       key,
		Rows:      rows,
		Summary:   core.Summarize(rows, capacity),
		Days:      core.Distribute(rows, dates),
		Internal:  internal,
		Client:    client,
		LastSaved: lastSaved,
		Saved:     saved,
	}
}

// Weeks lists persisted weeks.
func (s *WorklogService) Weeks(ctx context.Context) ([]core.WeekKey, error) {
	keys, err := s.store.Weeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	return keys, nil
}
