package incubator

import (
	"errors"
	"fmt"
)

var (
	ErrMateRange         = errors.New("mate must be in [3, 60)")
	ErrDestinationExists = errors.New("destination already exists")
	ErrDepthMismatch     = errors.New("position is not at the expected depth")
	ErrEmptyExpansion    = errors.New("expansion produced no positions")
	ErrEmptyAugmentation = errors.New("augmentation produced no positions")
	ErrNoSolver          = errors.New("kifu mode needs a solver")
	ErrUnknownMode       = errors.New("unknown input mode")
)

// Unrecoverable is a failure that invalidates the run. Whatever the
// corpus file holds at that point must be inspected or removed by hand
// before trying again.
type Unrecoverable struct {
	Stage Stage
	// Group is the input being processed, empty for pre-flight checks.
	Group string
	Err   error
}

func (e *Unrecoverable) Error() string {
	if e.Group == "" {
		return fmt.Sprintf("%v: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%v [%s]: %v", e.Stage, e.Group, e.Err)
}

func (e *Unrecoverable) Unwrap() error {
	return e.Err
}

// IsUnrecoverable reports whether err, or anything it wraps, is an
// *Unrecoverable. Cancellation is not.
func IsUnrecoverable(err error) bool {
	var u *Unrecoverable
	return errors.As(err, &u)
}
