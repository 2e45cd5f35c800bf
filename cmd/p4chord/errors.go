package main

import (
	"errors"

	"github.com/danmuck/p4chord/internal/exchange"
)

const (
	exitSuccess  = 0
	exitError    = 1
	exitConfig   = 2
	exitExchange = 3
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func configError(err error) *ExitError {
	return &ExitError{Code: exitConfig, Err: err}
}

// exchangeError marks a request that did not produce a decoded response. The
// message was already printed by the console.
func exchangeError(err error) *ExitError {
	return &ExitError{Code: exitExchange, Err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, exchange.ErrTimedOut) {
		return exitExchange
	}
	return exitError
}
