// Package debug defines procedural-language debugger controllers and a
// registry of controller factories keyed by dialect name.
package debug

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// ErrNoController is returned when no debugger is registered for a dialect.
var ErrNoController = errors.New("no debug controller")

// Controller drives one debugging session on a data source.
type Controller interface {
	// Attach opens a debug session and returns its server-side id.
	Attach(ctx context.Context) (int, error)

	// Detach aborts the debug target and releases the session.
	Detach(ctx context.Context) error
}

// Factory creates a controller for a data source.
type Factory func(db *sql.DB, logger *slog.Logger) (Controller, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register registers a controller factory for a dialect.
// Called by controller implementations in their init() functions.
func Register(dialectName string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[strings.ToLower(dialectName)] = f
}

// NewController creates a controller for a data source of the named dialect.
func NewController(dialectName string, db *sql.DB, logger *slog.Logger) (Controller, error) {
	factoriesMu.RLock()
	f, ok := factories[strings.ToLower(dialectName)]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoController, dialectName)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return f(db, logger)
}

// Dialects returns the dialects with a registered controller (sorted).
func Dialects() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
