package pipeline

import "time"

// Observer receives timing and volume signals from a run. It wraps the
// pipeline from the outside: implementations report diagnostics (wall time,
// memory, metrics) and must never influence what the run does.
type Observer interface {
	RunStarted(runID string, day time.Time)
	StageCompleted(state State, elapsed time.Duration, records int)
	RunCompleted(state State, elapsed time.Duration)
}

// NopObserver is the Observer used when no diagnostics are wired in.
type NopObserver struct{}

func (NopObserver) RunStarted(string, time.Time)             {}
func (NopObserver) StageCompleted(State, time.Duration, int) {}
func (NopObserver) RunCompleted(State, time.Duration)        {}
