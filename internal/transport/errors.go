package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrPayloadTooLarge is returned when a response body exceeds the configured cap.
var ErrPayloadTooLarge = errors.New("response payload too large")

// TransportError is a network-level failure: the request could not be sent,
// the response could not be read or decompressed, or the breaker is open.
type TransportError struct {
	Op         string // send, read, compress, decompress, status
	Path       string
	StatusCode int // HTTP status when a response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport: %s %s (http %d): %v", e.Op, e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError is returned when a call ran out of time or its context was
// cancelled. The two cases share this shape; Elapsed is wall-clock time
// since the call started.
type TimeoutError struct {
	Path    string
	Elapsed time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timeout after %.3f seconds", e.Path, e.Elapsed.Seconds())
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Timeout reports true so TimeoutError satisfies net.Error style checks.
func (e *TimeoutError) Timeout() bool { return true }

func newTimeout(path string, start time.Time, cause error) *TimeoutError {
	return &TimeoutError{Path: path, Elapsed: time.Since(start), Err: cause}
}

// isCancellation reports whether err, at any depth of its wrap chain, is a
// cancellation or deadline condition.
func isCancellation(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// IsNetworkFailure reports whether err should count against the health of
// the remote service.
func IsNetworkFailure(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr)
}

// isAbandoned reports whether err means the caller stopped waiting, which
// says nothing about whether the service is healthy.
func isAbandoned(err error) bool {
	var terr *TimeoutError
	return errors.As(err, &terr)
}
