package sheets

import (
	"context"
	"time"

	"worklog/internal/core"
)

// Ports for outbound adapters.
type (
	// WeekReader loads one week's rows. A week never saved yields no rows
	// and no error.
	WeekReader interface {
		Load(ctx context.Context, key core.WeekKey) ([]core.WorkLogRow, error)
	}

	// WeekWriter replaces one week's rows in full.
	WeekWriter interface {
		Save(ctx context.Context, key core.WeekKey, rows []core.WorkLogRow) error
	}

	// WeekStore is the persisted single table of work log rows.
	WeekStore interface {
		WeekReader
		WeekWriter
		// LastSaved returns when key was last written; ok is false if never.
		LastSaved(ctx context.Context, key core.WeekKey) (at time.Time, ok bool, err error)
		// Weeks lists the keys that have persisted data, oldest first.
		Weeks(ctx context.Context) ([]core.WeekKey, error)
	}

	// WeekMirror copies a saved week to an external spreadsheet, replacing
	// whatever the mirror held for that week.
	WeekMirror interface {
		MirrorWeek(ctx context.Context, key core.WeekKey, rows []core.WorkLogRow) error
	}
)
