package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errTransient = errors.New("transient")
	errFatal     = errors.New("fatal")
)

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func TestDo(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		failures  []error // errors returned by consecutive calls, then success
		wantCalls int
		wantErr   error
		wantRes   int
	}{
		{name: "first try succeeds", attempts: 5, wantCalls: 1, wantRes: 1},
		{name: "succeeds on last attempt", attempts: 5,
			failures:  []error{errTransient, errTransient, errTransient, errTransient},
			wantCalls: 5, wantRes: 5},
		{name: "exhausted", attempts: 5,
			failures:  []error{errTransient, errTransient, errTransient, errTransient, errTransient, errTransient},
			wantCalls: 5, wantErr: errTransient},
		{name: "fatal is not retried", attempts: 5, failures: []error{errFatal}, wantCalls: 1, wantErr: errFatal},
		{name: "fatal after transient", attempts: 5, failures: []error{errTransient, errFatal},
			wantCalls: 2, wantErr: errFatal},
		{name: "default attempts", attempts: 0,
			failures:  []error{errTransient, errTransient, errTransient, errTransient, errTransient, errTransient},
			wantCalls: DefaultAttempts, wantErr: errTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, retries := 0, 0
			p := Policy{
				Attempts:  tt.attempts,
				Retryable: isTransient,
				OnRetry:   func(int, error) { retries++ },
			}

			res, err := Do(context.Background(), p, func(context.Context) (int, error) {
				calls++
				if calls <= len(tt.failures) {
					return -1, tt.failures[calls-1]
				}
				return calls, nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantCalls-1, retries)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRes, res)
		})
	}
}

func TestDoExhaustedMessage(t *testing.T) {
	_, err := Do(context.Background(), Policy{Attempts: 2, Retryable: isTransient},
		func(context.Context) (string, error) { return "", errTransient })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
}

func TestDoStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := Do(ctx, Policy{Attempts: 5, Retryable: isTransient}, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errTransient
	})

	assert.Equal(t, 1, calls)
	require.ErrorIs(t, err, errTransient)
}
