// Package protocol owns the chord wire contract shared by requester and responder.
//
// Ownership boundary:
// - note and chord-type symbol tables
// - chord request/response value types
// - field overflow errors shared by the frame codec and request building
//
// The byte layout itself lives in protocol/frame.
package protocol
