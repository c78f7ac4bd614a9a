package cli

import (
	"context"
	"fmt"
	"time"

	"worklog/internal/backend"
	"worklog/internal/config"
	"worklog/internal/core"
	"worklog/internal/log"
	"worklog/internal/sheets"
)

// Exit codes used by worklogctl.
const (
	ExitError = 1
	ExitUsage = 2
)

// App carries what the worklogctl commands share. Backend and Mirror are
// opened on first use unless set up front.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Backend *backend.BackendResult
	Mirror  sheets.WeekMirror
	Now     func() time.Time

	owned bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) backend(ctx context.Context) (*backend.BackendResult, error) {
	if a.Backend != nil {
		return a.Backend, nil
	}
	res, err := OpenBackend(ctx, a.Logger, a.Config)
	if err != nil {
		return nil, err
	}
	a.Backend, a.owned = res, true
	return res, nil
}

func (a *App) mirror(ctx context.Context) (sheets.WeekMirror, error) {
	if a.Mirror != nil {
		return a.Mirror, nil
	}
	m, err := NewMirror(ctx, a.Config)
	if err != nil {
		return nil, err
	}
	a.Mirror = m
	return m, nil
}

// Close releases a backend the App opened itself.
func (a *App) Close() error {
	if !a.owned {
		return nil
	}
	a.owned = false
	return a.Backend.Close()
}

// resolveWeek picks the week named by --week, else the one containing
// --date, else the current week.
func (a *App) resolveWeek(weekFlag, dateFlag string) (core.Week, error) {
	switch {
	case weekFlag != "":
		key, err := core.ParseWeekKey(weekFlag)
		if err != nil {
			return core.Week{}, err
		}
		return core.WeekOf(key)
	case dateFlag != "":
		d, err := time.Parse(core.DateLayout, dateFlag)
		if err != nil {
			return core.Week{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", dateFlag)
		}
		return core.NewWeek(d), nil
	default:
		return core.NewWeek(a.now()), nil
	}
}
