// Package backend builds the week store and save pipeline selected by
// configuration.
package backend

import (
	"context"

	"worklog/internal/services"
	"worklog/internal/sheets"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// BackendResult is a ready store plus the service wired over it.
type BackendResult struct {
	Store   sheets.WeekStore
	Service *services.WorklogService
	// Publishing reports whether save events reach a broker.
	Publishing bool
	Cleanup    CleanupFunc
}

// Close runs Cleanup if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// CSV and memory seed directory
	DataDirectory string

	// SQLite specific
	SQLiteDBPath string

	// Save events; empty URL disables them
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	WeeklyCapacityHours float64
}

// BackendType represents the type of backend
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
