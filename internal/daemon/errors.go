package daemon

import (
	"errors"
	"fmt"
)

// ErrLaunch indicates the daemon binary could not be started at all
// (not installed, not executable). Never retried.
var ErrLaunch = errors.New("failed to launch daemon binary")

// ParseError indicates the daemon's stdout was not the expected JSON.
// The raw output is kept so callers can inspect what the daemon actually
// printed (a query on an unknown hash lands here, since the daemon's
// error text does not match the expected schema).
type ParseError struct {
	Output []byte
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse daemon output as JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
