// Package worker mirrors saved weeks to the external spreadsheet in response
// to week-saved events.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"worklog/internal/amqp"
	"worklog/internal/core"
	"worklog/internal/sheets"
)

// Recorder is told about each week the worker mirrors, so a periodic sweep
// does not repeat the work.
type Recorder interface {
	MarkMirrored(key core.WeekKey, savedAt time.Time)
}

// SyncWorker handles week-saved messages by copying the stored week to the mirror.
type SyncWorker struct {
	store    sheets.WeekStore
	mirror   sheets.WeekMirror
	recorder Recorder
}

// NewSyncWorker builds a worker. recorder may be nil.
func NewSyncWorker(store sheets.WeekStore, mirror sheets.WeekMirror, recorder Recorder) *SyncWorker {
	return &SyncWorker{store: store, mirror: mirror, recorder: recorder}
}

// HandleWeekSaved processes a single week-saved message from AMQP. The week
// is reloaded from the store so the mirror reflects the latest save even
// when messages arrive out of order.
func (w *SyncWorker) HandleWeekSaved(ctx context.Context, msg *amqp.WeekSavedMessage) error {
	key, err := core.ParseWeekKey(msg.WeekKey)
	if err != nil {
		// Not retryable; dropping keeps the queue moving
		slog.ErrorContext(ctx, "Ignoring message with invalid week key", "week_key", msg.WeekKey, "error", err)
		return nil
	}

	slog.InfoContext(ctx, "Processing week saved message",
		"week_key", key.String(),
		"rows", msg.Rows,
		"published_at", msg.Timestamp)

	return w.SyncWeek(ctx, key)
}

// SyncWeek mirrors one stored week.
func (w *SyncWorker) SyncWeek(ctx context.Context, key core.WeekKey) error {
	savedAt, _, err := w.store.LastSaved(ctx, key)
	if err != nil {
		return fmt.Errorf("last saved %s: %w", key, err)
	}
	rows, err := w.store.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("load week %s: %w", key, err)
	}
	if err := w.mirror.MirrorWeek(ctx, key, rows); err != nil {
		return fmt.Errorf("mirror week %s: %w", key, err)
	}
	if w.recorder != nil {
		w.recorder.MarkMirrored(key, savedAt)
	}

	slog.InfoContext(ctx, "Week mirrored", "week_key", key.String(), "rows", len(rows))
	return nil
}

// StartupSyncCheck mirrors every stored week once. It recovers from missed
// messages and worker downtime; failures are logged and skipped.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	keys, err := w.store.Weeks(ctx)
	if err != nil {
		return fmt.Errorf("list weeks for startup check: %w", err)
	}
	if len(keys) == 0 {
		slog.InfoContext(ctx, "No stored weeks found on startup")
		return nil
	}

	successCount, errorCount := 0, 0
	for _, key := range keys {
		if err := w.SyncWeek(ctx, key); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror week during startup", "week_key", key.String(), "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(keys),
		"synced", successCount,
		"errors", errorCount)
	return nil
}
