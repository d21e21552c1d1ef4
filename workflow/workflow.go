package workflow

import (
	"context"
	"errors"
	"sync"

	"chemtrack/classifier"
	"chemtrack/model"
	"chemtrack/scanner"
)

// State is the operating state of one scan-and-resolve cycle.
type State string

const (
	StateIdle       State = "IDLE"
	StateScanning   State = "SCANNING"
	StateSearching  State = "SEARCHING"
	StateFoundType  State = "FOUND_TYPE"
	StateNotFound   State = "NOT_FOUND"
	StateUsageFound State = "USAGE_FOUND"
	StateError      State = "ERROR"
	StateViewBottle State = "VIEW_BOTTLE"
)

// Lookup resolves classified codes against the shared inventory. A miss is
// model.ErrNotFound; anything else is treated as a network failure.
type Lookup interface {
	FindChemicalType(code string) (*model.ChemicalType, error)
	FindBottle(trackingID string) (*model.Bottle, error)
}

// Result is the outcome of one completed scan cycle.
type Result struct {
	State  State
	Code   string
	Class  classifier.Class
	Type   *model.ChemicalType
	Bottle *model.Bottle
	Err    error
}

// Workflow drives scan → classify → lookup. The operating mode is an
// explicit argument to each run, never ambient state, so every resolution is
// reproducible. One cycle runs to completion (or cancellation) before the
// next is accepted; the scanner manager enforces the single active session.
type Workflow struct {
	scanner *scanner.Manager
	lookup  Lookup

	mu    sync.Mutex
	state State
}

func New(sc *scanner.Manager, lookup Lookup) *Workflow {
	return &Workflow{scanner: sc, lookup: lookup, state: StateIdle}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Reset acknowledges a terminal state and returns to idle.
func (w *Workflow) Reset() {
	w.setState(StateIdle)
}

// RunScan performs one scan-and-resolve cycle. Cancelling ctx before a code
// is decoded aborts the cycle, returns to idle and commits nothing.
func (w *Workflow) RunScan(ctx context.Context, mode model.OperatingMode) Result {
	w.setState(StateScanning)

	raw, err := w.scanner.Scan(ctx)
	if err != nil {
		w.setState(StateIdle)
		return Result{State: StateIdle, Err: err}
	}

	w.setState(StateSearching)
	code := classifier.Normalize(raw)
	return w.resolve(code, mode)
}

// Resolve classifies an already-decoded code and looks it up. Split from
// RunScan so manually keyed codes take the same path as scanned ones.
func (w *Workflow) Resolve(code string, mode model.OperatingMode) Result {
	w.setState(StateSearching)
	return w.resolve(classifier.Normalize(code), mode)
}

func (w *Workflow) resolve(code string, mode model.OperatingMode) Result {
	res := Result{Code: code, Class: classifier.Classify(code, mode)}

	switch res.Class {
	case classifier.BottleTrackingID:
		bottle, err := w.lookup.FindBottle(code)
		switch {
		case err == nil:
			res.State = StateUsageFound
			res.Bottle = bottle
		case errors.Is(err, model.ErrNotFound):
			res.State = StateNotFound
		default:
			res.State = StateError
			res.Err = err
		}
	default:
		ct, err := w.lookup.FindChemicalType(code)
		switch {
		case err == nil:
			res.State = StateFoundType
			res.Type = ct
		case errors.Is(err, model.ErrNotFound):
			res.State = StateNotFound
		default:
			res.State = StateError
			res.Err = err
		}
	}

	w.setState(res.State)
	return res
}
