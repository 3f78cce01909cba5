package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const maxRetries = 3

// retryBackoff is the wait before attempt n (n >= 1).
var retryBackoff = func(attempt int) time.Duration {
	return time.Duration(attempt*2) * time.Second
}

// permanentError marks a failure that retrying cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error { return &permanentError{err: err} }

// withRetry calls fn up to maxRetries times with linear backoff. It stops
// early on context cancellation and on permanent errors.
func withRetry[T any](ctx context.Context, what string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryBackoff(attempt)
			log.Warn().Err(lastErr).Str("call", what).Int("attempt", attempt+1).Dur("backoff", backoff).Msg("Retrying")
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}
	}

	return zero, fmt.Errorf("%s failed after %d attempts: %w", what, maxRetries, lastErr)
}
