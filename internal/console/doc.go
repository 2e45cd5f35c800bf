// Package console is the operator surface around the exchange controller.
//
// Ownership boundary:
// - interactive line loop (one request per line, "quit" ends)
// - one-shot and batch runners
// - artifact writing after a decoded exchange
// - colored operator output
//
// Errors from a single line are printed and never end the loop.
package console
