package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBase is returned by SetBase for a base outside [MinBase, MaxBase].
	ErrInvalidBase = errors.New("invalid base")

	// ErrDuplicateSeries means a series index was added twice without removal.
	ErrDuplicateSeries = errors.New("series already present")

	// ErrUnknownSeries means a series index was removed that was never added.
	ErrUnknownSeries = errors.New("series not present")
)

// InvalidStateError reports misuse of the compactor's add/remove protocol.
type InvalidStateError struct {
	Op     string
	Series int
	Err    error
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("grid %s series %d: %v", e.Op, e.Series, e.Err)
}

func (e *InvalidStateError) Unwrap() error {
	return e.Err
}
