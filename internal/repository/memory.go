package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/evrgames/metapipe/internal/models"
)

// MemoryStore implements Store in memory for tests and local development.
// WithinRun stages appends and publishes them only when the run commits, so
// a failed run leaves Rows untouched.
type MemoryStore struct {
	mu            sync.Mutex
	schemaEnsures int
	bans          []models.BanEntry
	rows          []models.Incident

	// Error injection for failure-path tests.
	BansErr   error
	AppendErr error
}

func NewMemoryStore(bans ...models.BanEntry) *MemoryStore {
	return &MemoryStore{bans: bans}
}

func (s *MemoryStore) EnsureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemaEnsures++
	return nil
}

func (s *MemoryStore) WithinRun(ctx context.Context, fn func(ctx context.Context, run Run) error) error {
	run := &memRun{store: s}
	if err := fn(ctx, run); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, run.staged...)
	return nil
}

// Rows returns the committed metatable contents.
func (s *MemoryStore) Rows() []models.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Incident, len(s.rows))
	copy(out, s.rows)
	return out
}

// SchemaEnsures returns how many times EnsureSchema was called.
func (s *MemoryStore) SchemaEnsures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schemaEnsures
}

type memRun struct {
	store  *MemoryStore
	staged []models.Incident
}

func (r *memRun) Bans(ctx context.Context) ([]models.BanEntry, error) {
	if r.store.BansErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, r.store.BansErr)
	}
	out := make([]models.BanEntry, len(r.store.bans))
	copy(out, r.store.bans)
	return out, nil
}

func (r *memRun) Append(ctx context.Context, incidents []models.Incident) error {
	if r.store.AppendErr != nil {
		// Simulate a partial write failing: whatever was staged is discarded
		// with the run.
		r.staged = append(r.staged, incidents[:len(incidents)/2]...)
		return fmt.Errorf("%w: %w", ErrStore, r.store.AppendErr)
	}
	r.staged = append(r.staged, incidents...)
	return nil
}
