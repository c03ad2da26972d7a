package transfer

import (
	"time"

	"twc/internal/log"
)

// State is the lifecycle of a transfer dialog's engine. Transitions only
// move forward; Cancel before Confirm jumps straight to StateFinished.
type State int

const (
	StateAwaitingConfirmation State = iota
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "awaiting confirmation"
	}
}

// Engine drives one transfer through its confirm→running→finished life.
// It is owned by the UI goroutine; the worker goroutine it spawns shares
// nothing with it but the progress channel and the immutable path pair.
type Engine struct {
	strategy    Strategy
	source      string
	destination string

	state     State
	rx        <-chan Progress
	sample    Progress
	hasSample bool
	started   time.Time
}

// NewEngine builds an engine in StateAwaitingConfirmation. Nothing touches
// the filesystem until Confirm.
func NewEngine(strategy Strategy, source, destination string) *Engine {
	return &Engine{
		strategy:    strategy,
		source:      source,
		destination: destination,
	}
}

// Confirm spawns the worker and moves to StateRunning. It is a no-op in any
// other state. Once running, the only way out is the worker exiting; there
// is no in-flight cancellation.
func (e *Engine) Confirm() {
	if e.state != StateAwaitingConfirmation {
		return
	}
	e.state = StateRunning
	e.started = time.Now()

	progress := make(chan Progress, 64)
	e.rx = progress

	go func() {
		if err := e.strategy.Execute(e.source, e.destination, progress); err != nil {
			// Observable only in the log: channel closure looks the same
			// for success and failure (see Poll).
			log.Errorf("%s %s -> %s failed: %v", e.strategy.Name(), e.source, e.destination, err)
		}
		close(progress)
	}()
}

// Cancel discards a not-yet-confirmed transfer, performing no filesystem
// work. It is a no-op once the transfer is running.
func (e *Engine) Cancel() {
	if e.state != StateAwaitingConfirmation {
		return
	}
	e.state = StateFinished
}

// Poll drains the progress channel without blocking. New samples are stored
// and the engine stays running; a closed channel means the worker exited and
// the engine is finished. A worker that failed mid-transfer is
// indistinguishable here from one that completed; the error only reaches
// the log.
func (e *Engine) Poll() {
	if e.state != StateRunning {
		return
	}
	for {
		select {
		case sample, ok := <-e.rx:
			if !ok {
				e.state = StateFinished
				return
			}
			e.sample = sample
			e.hasSample = true
		default:
			return
		}
	}
}

// State returns the engine's lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Progress returns the most recent sample, if any arrived yet.
func (e *Engine) Progress() (Progress, bool) {
	return e.sample, e.hasSample
}

// Elapsed is the time since Confirm, for the dialog's clock.
func (e *Engine) Elapsed() time.Duration {
	if e.started.IsZero() {
		return 0
	}
	return time.Since(e.started)
}

// Source returns the path being transferred.
func (e *Engine) Source() string { return e.source }

// Destination returns the directory receiving the transfer.
func (e *Engine) Destination() string { return e.destination }

// StrategyName names the policy for dialog titles.
func (e *Engine) StrategyName() string { return e.strategy.Name() }
