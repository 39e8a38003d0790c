// Package repository owns the durable side of a pipeline run: the external
// cheaters table (read-only) and the metatable sink.
package repository

import (
	"context"
	"errors"

	"github.com/evrgames/metapipe/internal/models"
)

// ErrStore wraps every failure of the persistent store. A store error aborts
// the whole run and rolls back its writes.
var ErrStore = errors.New("store error")

// Store is the durable side of a pipeline run. EnsureSchema is safe to call
// on every run; WithinRun brackets the run's reads and writes in a single
// transaction, committing only when fn returns nil.
type Store interface {
	EnsureSchema(ctx context.Context) error
	WithinRun(ctx context.Context, fn func(ctx context.Context, run Run) error) error
}

// Run is the transactional view of the store during one pipeline run.
type Run interface {
	// Bans returns every row of the cheaters table.
	Bans(ctx context.Context) ([]models.BanEntry, error)
	// Append bulk-inserts the surviving incidents into the metatable.
	Append(ctx context.Context, incidents []models.Incident) error
}
