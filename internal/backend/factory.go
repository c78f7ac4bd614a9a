package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"worklog/internal/amqp"
	"worklog/internal/services"
	"worklog/internal/sheets"
	"worklog/internal/sheets/memory"
	"worklog/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
	// dial connects to the broker; replaced in tests
	dial func(url, exchange, queue string) (publisher, error)
}

type publisher interface {
	services.Publisher
	Close() error
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
		dial: func(url, exchange, queue string) (publisher, error) {
			return amqp.NewClient(url, exchange, queue)
		},
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store        sheets.WeekStore
		storeCleanup CleanupFunc
	)
	switch config.Type {
	case CSVBackend:
		csvStore, err := storage.NewCSVStore(config.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize CSV store: %w", err)
		}
		store = csvStore
		f.logger.Info("Initialized CSV backend", "data_directory", config.DataDirectory)
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		store, storeCleanup = repo, repo.Close
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		if config.DataDirectory == "" {
			store = memory.New()
		} else {
			mem, err := memory.NewFromDir(ctx, config.DataDirectory)
			if err != nil {
				return nil, fmt.Errorf("failed to seed memory backend: %w", err)
			}
			store = mem
		}
		f.logger.Info("Initialized memory backend", "seed_directory", config.DataDirectory)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	// AMQP is optional; a broker that is down must not stop the web app
	var pub publisher
	if config.AMQPURL != "" {
		p, err := f.dial(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without save events", "error", err)
		} else {
			pub = p
			f.logger.Info("Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)
		}
	}

	var eventPub services.Publisher
	if pub != nil {
		eventPub = pub
	}

	return &BackendResult{
		Store:      store,
		Service:    services.NewWorklogService(store, eventPub, config.WeeklyCapacityHours),
		Publishing: pub != nil,
		Cleanup: func() error {
			var errs []error
			if pub != nil {
				errs = append(errs, pub.Close())
			}
			if storeCleanup != nil {
				errs = append(errs, storeCleanup())
			}
			return errors.Join(errs...)
		},
	}, nil
}
