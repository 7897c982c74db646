// Package retry runs node operations under a bounded attempt policy.
package retry

import (
	"context"

	"github.com/pkg/errors"
)

// DefaultAttempts is the total number of tries: the first call plus four retries.
const DefaultAttempts = 5

// Policy decides how many times an operation runs and which failures are worth another try.
type Policy struct {
	Attempts  int                         // total tries, values below 1 mean DefaultAttempts
	Retryable func(error) bool            // nil means nothing is retried
	OnRetry   func(attempt int, err error) // called before each new attempt, may be nil
}

// Do runs op until it succeeds, fails with a non retryable error, the attempts run out or ctx is done. Attempts
// are strictly sequential and there is no pause between them. On exhaustion the last error is returned with a message
// attached, so errors.Is still matches its kind.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = DefaultAttempts
	}

	var (
		res T
		err error
	)

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if cerr := ctx.Err(); cerr != nil {
				var zero T
				return zero, errors.WithMessagef(err, "aborted after %d attempts: %v", attempt-1, cerr)
			}
			if p.OnRetry != nil {
				p.OnRetry(attempt, err)
			}
		}

		res, err = op(ctx)
		if err == nil {
			return res, nil
		}

		if p.Retryable == nil || !p.Retryable(err) {
			var zero T
			return zero, err
		}
	}

	var zero T
	return zero, errors.WithMessagef(err, "failed after %d attempts", attempts)
}
