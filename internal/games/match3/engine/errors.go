package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrRejected is returned when an action targets an empty, covered,
	// hole or foreign cell. Nothing changes.
	ErrRejected = errors.New("engine: action rejected")

	// ErrBusy is returned while a resolution pass is running.
	ErrBusy = fmt.Errorf("%w: resolution in progress", ErrRejected)

	// ErrFull is returned when the backpack has no free slot.
	ErrFull = errors.New("engine: backpack full")

	// ErrNotFound is returned by spatial queries that match no cell.
	ErrNotFound = errors.New("engine: cell not found")

	// ErrIndivisible is returned by FillWithRandomItems when the number of
	// fillable cells is not a multiple of three.
	ErrIndivisible = errors.New("engine: fillable cell count not divisible by 3")
)

// InvariantError reports corrupted internal state. It is raised with panic,
// never returned: once the topology or the overlap counters are wrong there
// is nothing sensible left to do.
type InvariantError struct {
	Op  string
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("engine: invariant violated in %s: %s", e.Op, e.Msg)
}

func invariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Msg: fmt.Sprintf(format, args...)})
}
