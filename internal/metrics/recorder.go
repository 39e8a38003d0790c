package metrics

import (
	"runtime"
	"time"

	"github.com/evrgames/metapipe/internal/logging"
	"github.com/evrgames/metapipe/internal/pipeline"
)

// Recorder implements pipeline.Observer. It sits around the run as a
// diagnostics decorator: elapsed wall time, per-stage record counts and a
// heap-allocation delta go to Prometheus and the log. It never feeds
// anything back into the run.
type Recorder struct {
	log *logging.Logger

	totalAllocStart uint64
}

func NewRecorder(log *logging.Logger) *Recorder {
	if log == nil {
		log = logging.Default()
	}
	return &Recorder{log: log}
}

func (r *Recorder) RunStarted(runID string, day time.Time) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	r.totalAllocStart = ms.TotalAlloc
	r.log.Info("run started", "run_id", runID, "day", day.Format("2006-01-02"))
}

func (r *Recorder) StageCompleted(state pipeline.State, elapsed time.Duration, records int) {
	StageDuration.WithLabelValues(string(state)).Observe(elapsed.Seconds())
	StageRecords.WithLabelValues(string(state)).Set(float64(records))
	r.log.Debug("stage complete",
		"stage", string(state),
		"elapsed", elapsed.String(),
		"records", records,
	)
}

func (r *Recorder) RunCompleted(state pipeline.State, elapsed time.Duration) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	allocated := ms.TotalAlloc - r.totalAllocStart

	RunsTotal.WithLabelValues(string(state)).Inc()
	RunDuration.Observe(elapsed.Seconds())
	RunHeapBytes.Set(float64(allocated))

	r.log.Info("run finished",
		"state", string(state),
		"elapsed", elapsed.String(),
		"heap_allocated_bytes", allocated,
	)
}
