package services

import (
	"context"
	"testing"
	"time"

	"worklog/internal/core"
)

func TestDefaultSyncProcessorConfig(t *testing.T) {
	config := DefaultSyncProcessorConfig()

	if config.PollInterval != 5*time.Minute {
		t.Errorf("expected PollInterval 5m, got %v", config.PollInterval)
	}
	if config.MaxRetries != 3 {
		t.Errorf("expected MaxRetries 3, got %d", config.MaxRetries)
	}
}

func TestSyncProcessor_SweepMirrorsChangedWeeks(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mirror := &fakeMirror{}
	p := NewSyncProcessor(store, mirror, DefaultSyncProcessorConfig())

	_ = store.Save(ctx, "2025_M10_W41", []core.WorkLogRow{{Date: "2025-10-06"}})
	_ = store.Save(ctx, key, []core.WorkLogRow{{Date: "2025-10-13"}})

	if n := p.Sweep(ctx); n != 2 {
		t.Fatalf("first sweep mirrored %d weeks, want 2", n)
	}
	if n := p.Sweep(ctx); n != 0 {
		t.Fatalf("unchanged weeks mirrored again: %d", n)
	}

	_ = store.Save(ctx, key, []core.WorkLogRow{{Date: "2025-10-14"}})
	if n := p.Sweep(ctx); n != 1 {
		t.Fatalf("resaved week mirrored %d times, want 1", n)
	}
	if mirror.calls[key] != 2 || mirror.calls["2025_M10_W41"] != 1 {
		t.Errorf("unexpected mirror calls: %v", mirror.calls)
	}
}

func TestSyncProcessor_SweepGivesUpAfterMaxRetries(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mirror := &fakeMirror{fail: true}
	config := DefaultSyncProcessorConfig()
	config.MaxRetries = 2
	p := NewSyncProcessor(store, mirror, config)

	_ = store.Save(ctx, key, nil)
	for i := 0; i < 4; i++ {
		p.Sweep(ctx)
	}
	if mirror.calls[key] != 2 {
		t.Fatalf("expected 2 attempts, got %d", mirror.calls[key])
	}

	// A new save gets a fresh set of attempts
	_ = store.Save(ctx, key, nil)
	mirror.fail = false
	if n := p.Sweep(ctx); n != 1 {
		t.Fatalf("expected resaved week to be mirrored, got %d", n)
	}
}

func TestSyncProcessor_MarkMirroredSkipsWeek(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mirror := &fakeMirror{}
	p := NewSyncProcessor(store, mirror, DefaultSyncProcessorConfig())

	_ = store.Save(ctx, key, nil)
	at, _, _ := store.LastSaved(ctx, key)
	p.MarkMirrored(key, at)

	if n := p.Sweep(ctx); n != 0 {
		t.Fatalf("expected no mirror after MarkMirrored, got %d", n)
	}
}

func TestSyncProcessor_IsRunning(t *testing.T) {
	processor := NewSyncProcessor(nil, nil, DefaultSyncProcessorConfig())

	if processor.IsRunning() {
		t.Error("processor should not be running initially")
	}
}

func TestSyncProcessor_StartTwice(t *testing.T) {
	config := DefaultSyncProcessorConfig()
	config.PollInterval = time.Hour
	processor := NewSyncProcessor(newFakeStore(), &fakeMirror{}, config)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := processor.Start(ctx); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := processor.Start(ctx); err == nil {
		t.Error("expected error when starting already running processor")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := processor.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if processor.IsRunning() {
		t.Error("processor should not be running after stop")
	}
}

func TestSyncProcessor_StopNotRunning(t *testing.T) {
	processor := NewSyncProcessor(nil, nil, DefaultSyncProcessorConfig())

	if err := processor.Stop(context.Background()); err != nil {
		t.Errorf("stopping a stopped processor should not error, got %v", err)
	}
}
