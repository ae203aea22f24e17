package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend is returned when a cache backend cannot be reached.
var ErrBackend = errors.New("cache backend unavailable")

// transientError marks a backend failure worth retrying, such as a refused
// connection while Redis is still starting.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient marks err as retryable by [Retry]. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err: err}
}

// IsTransient reports whether err was marked with [Transient].
func IsTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}

// Backoff controls [Retry]. The zero value means three attempts starting
// at 200ms.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

func (b Backoff) withDefaults() Backoff {
	if b.Attempts <= 0 {
		b.Attempts = 3
	}
	if b.Delay <= 0 {
		b.Delay = 200 * time.Millisecond
	}
	return b
}

// Retry calls fn until it succeeds, returns a non-transient error, or the
// attempts run out. The delay doubles after every transient failure.
func Retry(ctx context.Context, b Backoff, fn func() error) error {
	b = b.withDefaults()
	delay := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsTransient(err) || attempt == b.Attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
