// Package pipeline implements the daily incident run: load both report
// feeds for one calendar day, join them into incidents, drop incidents owned
// by banned players, persist the rest.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/evrgames/metapipe/internal/logging"
	"github.com/evrgames/metapipe/internal/repository"
	"github.com/evrgames/metapipe/internal/source"
)

// State names the linear progress of a run. A run moves strictly forward
// through the loaded/joined/filtered/persisted states; any unrecoverable
// error jumps to StateFailed. There are no retries.
type State string

const (
	StateStart         State = "start"
	StateSourcesLoaded State = "sources_loaded"
	StateJoined        State = "joined"
	StateFiltered      State = "filtered"
	StatePersisted     State = "persisted"
	StateDone          State = "done"
	StateFailed        State = "failed"
)

// Pipeline wires the loaders, the join, the cheater filter and the store for
// one target date. A run owns the store exclusively for its duration: schema
// ensure first, then every read and write inside the single transaction the
// store provides, so either all rows of a run become visible or none do.
type Pipeline struct {
	store      repository.Store
	clientPath string
	serverPath string
	log        *logging.Logger
	obs        Observer

	state State
}

// New creates a pipeline over the given store and feed paths. log and obs
// may be nil.
func New(store repository.Store, clientPath, serverPath string, log *logging.Logger, obs Observer) *Pipeline {
	if log == nil {
		log = logging.Default()
	}
	if obs == nil {
		obs = NopObserver{}
	}
	return &Pipeline{
		store:      store,
		clientPath: clientPath,
		serverPath: serverPath,
		log:        log,
		obs:        obs,
		state:      StateStart,
	}
}

// State returns the state the last run ended in.
func (p *Pipeline) State() State { return p.state }

// ProcessDate runs the whole pipeline for one calendar day. On any error the
// run ends in StateFailed with nothing written; on success every surviving
// incident is committed in one transaction.
func (p *Pipeline) ProcessDate(ctx context.Context, day time.Time) error {
	runID := uuid.NewString()
	log := p.log.With("run_id", runID, "day", day.Format("2006-01-02"))

	p.state = StateStart
	started := time.Now()
	p.obs.RunStarted(runID, day)

	fail := func(stage string, err error) error {
		p.state = StateFailed
		p.obs.RunCompleted(StateFailed, time.Since(started))
		log.Error("run failed", "stage", stage, "error", err)
		return fmt.Errorf("%s: %w", stage, err)
	}

	stageStart := time.Now()
	clients, err := source.LoadClient(p.clientPath, day)
	if err != nil {
		return fail("load client source", err)
	}
	servers, err := source.LoadServer(p.serverPath, day)
	if err != nil {
		return fail("load server source", err)
	}
	p.advance(StateSourcesLoaded, &stageStart, len(clients)+len(servers))
	log.Debug("sources loaded", "client_records", len(clients), "server_records", len(servers))

	incidents := Join(clients, servers)
	p.advance(StateJoined, &stageStart, len(incidents))
	log.Debug("sources joined", "incidents", len(incidents))

	if err := p.store.EnsureSchema(ctx); err != nil {
		return fail("ensure schema", err)
	}

	var persisted int
	err = p.store.WithinRun(ctx, func(ctx context.Context, run repository.Run) error {
		bans, err := run.Bans(ctx)
		if err != nil {
			return fmt.Errorf("load ban registry: %w", err)
		}
		registry := NewRegistry(bans)

		filtered, err := FilterCheaters(incidents, registry)
		if err != nil {
			return fmt.Errorf("filter cheaters: %w", err)
		}
		p.advance(StateFiltered, &stageStart, len(filtered))
		log.Debug("cheaters filtered", "kept", len(filtered), "dropped", len(incidents)-len(filtered))

		if err := run.Append(ctx, filtered); err != nil {
			return fmt.Errorf("append incidents: %w", err)
		}
		persisted = len(filtered)
		return nil
	})
	if err != nil {
		return fail("store run", err)
	}
	p.advance(StatePersisted, &stageStart, persisted)

	p.state = StateDone
	p.obs.RunCompleted(StateDone, time.Since(started))
	log.Info("run complete",
		"incidents", len(incidents),
		"persisted", persisted,
		"elapsed", time.Since(started).String(),
	)
	return nil
}

func (p *Pipeline) advance(next State, stageStart *time.Time, records int) {
	p.state = next
	p.obs.StageCompleted(next, time.Since(*stageStart), records)
	*stageStart = time.Now()
}
