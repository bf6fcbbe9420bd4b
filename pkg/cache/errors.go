package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a failure to reach a remote backend (Redis, S3).
var ErrNetwork = errors.New("backend unreachable")

// RetryableError marks a failure that may succeed on another attempt.
type RetryableError struct{ Err error }

// Retryable marks err as worth retrying. It returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, was marked Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is a bounded exponential retry schedule.
type Backoff struct {
	Attempts int           // total calls, including the first
	Delay    time.Duration // wait before the second call; doubles after each
	MaxDelay time.Duration // cap on a single wait; zero means no cap
}

// DefaultBackoff is used by the Redis cache and the S3 publisher. Chart
// documents are small, so a backend that is still failing after a couple of
// seconds is reported rather than waited on.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 250 * time.Millisecond, MaxDelay: 2 * time.Second}

// RetryWithBackoff calls fn on the DefaultBackoff schedule.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}

// Retry calls fn until it succeeds, returns an error not marked Retryable,
// runs out of attempts, or ctx is done.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := b.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := b.Delay

	var err error
	for i := 1; ; i++ {
		if err = fn(); err == nil || !IsRetryable(err) || i == attempts {
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
		if b.MaxDelay > 0 && delay > b.MaxDelay {
			delay = b.MaxDelay
		}
	}
}
