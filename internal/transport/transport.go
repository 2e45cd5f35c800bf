// Package transport carries encoded chord frames to a responder and returns
// its reply. Handles are opened by the caller and reused across exchanges.
package transport

import "context"

// Transport sends one frame to dest and blocks for one reply until ctx is
// done. A timeout is reported as a nil reply or a deadline error.
type Transport interface {
	RoundTrip(ctx context.Context, frame []byte, dest string) ([]byte, error)
}

// Func adapts an in-process responder to Transport.
type Func func(ctx context.Context, frame []byte, dest string) ([]byte, error)

func (f Func) RoundTrip(ctx context.Context, frame []byte, dest string) ([]byte, error) {
	return f(ctx, frame, dest)
}
