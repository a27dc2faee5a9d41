package backend

import (
	"context"

	"budget/internal/ledger"
	"budget/internal/services"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the store, the ledger service writing through it and
// a cleanup function releasing both.
type BackendResult struct {
	Store   ledger.Store
	Ledger  *services.LedgerService
	Cleanup CleanupFunc
	// EventsEnabled reports whether ledger writes publish change events.
	EventsEnabled bool
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory specific; empty starts with an empty ledger
	SeedDirectory string

	// Optional change events, used by every backend type
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
