// Package exchange runs one chord request/response cycle per call.
//
// Ownership boundary:
// - parse -> encode -> send -> receive -> decode orchestration
// - the per-call timeout
// - terminal state classification
//
// The controller holds no state across calls besides the transport handle it
// was given; it never opens, closes or reconfigures that handle and never
// retries.
//
// States per call:
//
//	Idle -> Building -> Sent -> {Decoded | TimedOut | ProtocolError}
//
// with ParseFailed, Overflowed and TransportFailed as early exits.
package exchange
