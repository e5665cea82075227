package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork is returned when a remote cache cannot be reached.
	ErrNetwork = errors.New("cache unreachable")

	// ErrUnknownBackend is returned for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrNoDir is returned when the file backend has no directory.
	ErrNoDir = errors.New("file cache requires a directory")
)

// connectAttempts bounds how often a backend connection is tried.
const connectAttempts = 3

// backoff is the wait before the second attempt; it doubles after each try.
var backoff = 250 * time.Millisecond

// transientError marks a failure that may succeed when tried again.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

func transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err}
}

func isTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}

// withRetry calls fn until it succeeds, returns a permanent error, or
// attempts run out. The last error is returned unwrapped of its marker.
func withRetry(ctx context.Context, attempts int, fn func(context.Context) error) error {
	wait := backoff
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil || !isTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
	return errors.Unwrap(err)
}
