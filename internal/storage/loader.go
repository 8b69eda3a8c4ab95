// Package storage defines the backend-agnostic contract for loading
// finished warehouse tables, plus the factory registry the backends hook
// into. The transform core never touches this package; loading is the
// concern of the CLI after a successful run.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config selects and configures a loader backend.
type Config struct {
	Kind string
	DSN  string
}

// Loader is the minimal interface the load stage needs. Warehouse tables
// are full rebuilds: ReplaceTable deletes existing rows and bulk-inserts
// the new ones in one transaction, so a failed load leaves either the old
// table or the new one, never a mix.
type Loader interface {
	// Close releases backend resources. Call once at shutdown.
	Close()

	// EnsureTables creates the warehouse tables if they do not exist.
	EnsureTables(ctx context.Context, tables []TableSpec) error

	// ReplaceTable atomically replaces the contents of table with rows.
	// Columns names the positional layout of every row. Returns the number
	// of rows inserted.
	ReplaceTable(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
}

type factory func(ctx context.Context, cfg Config) (Loader, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a loader backend under a kind (e.g. "postgres",
// "sqlite"). Called from backend init() functions.
//
// Panics:
//   - empty kind, nil factory, or a kind registered twice. Failing fast
//     here avoids ambiguous backend selection at run time.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}
	factories[kind] = f
}

// New constructs a Loader for the configured backend kind.
//
// Errors:
//   - cfg.Kind empty or not registered
//   - whatever the backend factory returns
func New(ctx context.Context, cfg Config) (Loader, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("storage: unsupported kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}
