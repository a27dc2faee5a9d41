package backend

import (
	"context"
	"fmt"

	"budget/internal/amqp"
	"budget/internal/ledger"
	"budget/internal/ledger/memory"
	"budget/internal/log"
	"budget/internal/services"
	"budget/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store ledger.Store
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		store, err = f.createSQLiteStore(ctx, config)
	case MemoryBackend:
		store, err = f.createMemoryStore(ctx, config)
	default:
		err = fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	// A nil *amqp.Client must not reach the service as a non-nil interface.
	var publisher services.Publisher
	if client := f.connectAMQP(ctx, config); client != nil {
		publisher = client
	}

	svc := services.NewLedgerService(store, publisher, f.logger)
	return &BackendResult{
		Store:         store,
		Ledger:        svc,
		Cleanup:       svc.Close,
		EventsEnabled: publisher != nil,
	}, nil
}

func (f *DefaultFactory) createSQLiteStore(ctx context.Context, config Config) (ledger.Store, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return repo, nil
}

func (f *DefaultFactory) createMemoryStore(ctx context.Context, config Config) (ledger.Store, error) {
	if config.SeedDirectory == "" {
		f.logger.InfoContext(ctx, "Initialized empty memory backend")
		return memory.New(), nil
	}
	store, err := memory.NewFromFiles(config.SeedDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to load memory seed: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized memory backend", "seed_directory", config.SeedDirectory)
	return store, nil
}

// connectAMQP returns nil when events are disabled or the broker is
// unreachable; the ledger keeps working without them.
func (f *DefaultFactory) connectAMQP(ctx context.Context, config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change events", "error", err)
		return nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
