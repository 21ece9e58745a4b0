package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady indicates the economy has no snapshot yet.
	ErrNotReady = errors.New("sim: economy not initialised")

	// ErrConfig indicates an invalid simulation configuration.
	ErrConfig = errors.New("sim: invalid configuration")
)

// TickError wraps an error with the tick it was found on.
type TickError struct {
	Tick    int
	Phase   string
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("sim: tick %d (%s): %v", e.Tick, e.Phase, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
