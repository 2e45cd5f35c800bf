package exchange

import (
	"errors"
	"fmt"
)

var (
	ErrTimedOut      = errors.New("exchange: timed out waiting for response")
	ErrReplyMismatch = errors.New("exchange: reply does not echo the request")
)

// TransportError wraps a transport failure other than a timeout.
type TransportError struct {
	Dest string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("exchange: transport to %s failed: %v", e.Dest, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
