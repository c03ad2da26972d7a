package transfer

import (
	"fmt"
	"os"

	"twc/internal/log"
)

// DeleterState mirrors the engine's three-phase shape. Deletion runs
// synchronously inside Confirm; there is no granular progress worth
// streaming.
type DeleterState int

const (
	DeleteAwaitingConfirmation DeleterState = iota
	Deleting
	Deleted
)

// Deleter removes a batch of paths after confirmation. Per-path failures are
// logged and skipped so one unreadable entry never aborts the batch.
type Deleter struct {
	targets []string
	state   DeleterState
}

// NewDeleter builds a deleter for the given paths.
func NewDeleter(targets []string) *Deleter {
	return &Deleter{targets: targets}
}

// Confirm removes every target: directories recursively, anything else
// (files, symlinks) directly. Valid only before confirmation.
func (d *Deleter) Confirm() {
	if d.state != DeleteAwaitingConfirmation {
		return
	}
	d.state = Deleting

	for _, target := range d.targets {
		info, err := os.Lstat(target)
		if err != nil {
			log.Warnf("skipping %s: %v", target, err)
			continue
		}

		if info.IsDir() {
			err = os.RemoveAll(target)
		} else {
			err = os.Remove(target)
		}
		if err != nil {
			log.Warnf("deleting %s: %v", target, err)
		}
	}
	d.state = Deleted
}

// Cancel discards a not-yet-confirmed deletion.
func (d *Deleter) Cancel() {
	if d.state != DeleteAwaitingConfirmation {
		return
	}
	d.state = Deleted
}

// State returns the deleter's lifecycle state.
func (d *Deleter) State() DeleterState {
	return d.state
}

// Targets returns the paths marked for deletion.
func (d *Deleter) Targets() []string {
	return d.targets
}

// ConfirmMessage words the confirmation prompt by target type and count.
func (d *Deleter) ConfirmMessage() string {
	if len(d.targets) == 1 {
		info, err := os.Lstat(d.targets[0])
		if err == nil && info.IsDir() {
			return "Are you sure you want to delete this folder and all of its content?"
		}
		return "Are you sure you want to delete this file?"
	}
	return fmt.Sprintf("Are you sure you want to delete %d items?", len(d.targets))
}
