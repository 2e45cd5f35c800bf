// Package responder is the reference peer for chord exchanges.
//
// Ownership boundary:
// - decode inbound frames of either layout
// - fill four frequencies and echo the header
// - serve one datagram at a time on a UDP socket
//
// Voicing is a fixture for exercising the stack end to end. It is not a
// chord-theory engine and no client code depends on its exact output.
package responder
