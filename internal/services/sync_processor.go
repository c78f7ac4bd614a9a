package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"worklog/internal/core"
	"worklog/internal/sheets"
)

// SyncProcessorConfig holds configuration for the sync processor
type SyncProcessorConfig struct {
	// PollInterval is how often saved weeks are compared with the mirror (default: 5m)
	PollInterval time.Duration

	// MaxRetries is how many consecutive sweeps may fail for one week before
	// it is skipped until its next save (default: 3)
	MaxRetries int
}

func DefaultSyncProcessorConfig() SyncProcessorConfig {
	return SyncProcessorConfig{
		PollInterval: 5 * time.Minute,
		MaxRetries:   3,
	}
}

// SyncProcessor periodically mirrors every week saved since it was last
// mirrored. It backs up the event-driven worker when messages are lost.
type SyncProcessor struct {
	store  sheets.WeekStore
	mirror sheets.WeekMirror
	config SyncProcessorConfig

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	mirrored map[core.WeekKey]time.Time
	failures map[core.WeekKey]failure
}

// failure counts failed sweeps of one saved version of a week.
type failure struct {
	savedAt time.Time
	count   int
}

func NewSyncProcessor(store sheets.WeekStore, mirror sheets.WeekMirror, config SyncProcessorConfig) *SyncProcessor {
	return &SyncProcessor{
		store:    store,
		mirror:   mirror,
		config:   config,
		mirrored: map[core.WeekKey]time.Time{},
		failures: map[core.WeekKey]failure{},
	}
}

// MarkMirrored records that key was mirrored as saved at at.
func (p *SyncProcessor) MarkMirrored(key core.WeekKey, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mirrored[key] = at
	delete(p.failures, key)
}

// Start begins the processing loop. Returns an error if already running.
func (p *SyncProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("sync processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Sync processor started", "poll_interval", p.config.PollInterval)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *SyncProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Sync processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

func (p *SyncProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *SyncProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.Sweep(ctx)
	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Sweep(ctx)
		}
	}
}

// Sweep mirrors every week whose last save is newer than its last mirror.
// It returns how many weeks were mirrored.
func (p *SyncProcessor) Sweep(ctx context.Context) int {
	keys, err := p.store.Weeks(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list weeks", "error", err)
		return 0
	}

	done := 0
	for _, key := range keys {
		if ctx.Err() != nil {
			return done
		}
		savedAt, ok, err := p.store.LastSaved(ctx, key)
		if err != nil || !ok {
			continue
		}

		p.mu.Lock()
		last, seen := p.mirrored[key]
		f := p.failures[key]
		p.mu.Unlock()
		if seen && !savedAt.After(last) {
			continue
		}
		if f.savedAt.Equal(savedAt) && f.count >= p.config.MaxRetries {
			continue
		}

		if err := p.mirrorWeek(ctx, key); err != nil {
			p.mu.Lock()
			f = p.failures[key]
			if !f.savedAt.Equal(savedAt) {
				f = failure{savedAt: savedAt}
			}
			f.count++
			p.failures[key] = f
			n := f.count
			p.mu.Unlock()
			slog.WarnContext(ctx, "Mirror sweep failed", "week_key", key.String(), "attempt", n, "error", err)
			if n >= p.config.MaxRetries {
				slog.ErrorContext(ctx, "Week skipped until next save after max retries", "week_key", key.String())
			}
			continue
		}
		p.MarkMirrored(key, savedAt)
		done++
	}
	return done
}

func (p *SyncProcessor) mirrorWeek(ctx context.Context, key core.WeekKey) error {
	rows, err := p.store.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("load week %s: %w", key, err)
	}
	if err := p.mirror.MirrorWeek(ctx, key, rows); err != nil {
		return fmt.Errorf("mirror week %s: %w", key, err)
	}
	slog.InfoContext(ctx, "Mirrored week", "week_key", key.String(), "rows", len(rows))
	return nil
}
