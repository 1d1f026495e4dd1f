// File: internal/services/gemini/retry_test.go
package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}, nopLogger{}, "op", func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	failure := NewProviderError("op", "upstream unavailable", nil)
	err := RetryWithBackoff(context.Background(), RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond}, nopLogger{}, "op", func(ctx context.Context) error {
		calls++
		return failure
	})
	require.Error(t, err)
	require.Equal(t, failure, err)
	// MaxRetries of 2 means three attempts in total.
	require.Equal(t, 3, calls)
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}, nopLogger{}, "op", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return NewProviderError("op", "transient", nil)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestRetryNonRetryableShortCircuits(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), RetryConfig{MaxRetries: 5, BaseDelay: time.Millisecond}, nopLogger{}, "op", func(ctx context.Context) error {
		calls++
		return NewConfigError("missing api key")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestRetryBackoffDoubles(t *testing.T) {
	var gaps []time.Duration
	last := time.Now()
	calls := 0
	base := 5 * time.Millisecond

	err := RetryWithBackoff(context.Background(), RetryConfig{MaxRetries: 2, BaseDelay: base}, nopLogger{}, "op", func(ctx context.Context) error {
		now := time.Now()
		if calls > 0 {
			gaps = append(gaps, now.Sub(last))
		}
		last = now
		calls++
		return NewProviderError("op", "transient", nil)
	})
	require.Error(t, err)
	require.Len(t, gaps, 2)
	// Waits follow BaseDelay * 2^attempt: 2x then 4x the base.
	require.GreaterOrEqual(t, gaps[0], 2*base)
	require.GreaterOrEqual(t, gaps[1], 4*base)
	require.Greater(t, gaps[1], gaps[0])
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := RetryWithBackoff(ctx, RetryConfig{MaxRetries: 5, BaseDelay: time.Minute}, nopLogger{}, "op", func(ctx context.Context) error {
		calls++
		cancel()
		return NewProviderError("op", "transient", nil)
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	require.False(t, IsRetryable(NewConfigError("bad key")))
	require.False(t, IsRetryable(&GeminiError{Type: ErrTypeValidation, Operation: "op", Message: "empty input"}))
	require.True(t, IsRetryable(NewProviderError("op", "boom", nil)))
	require.True(t, IsRetryable(NewParseError("op", "bad json", nil)))
	require.True(t, IsRetryable(&GeminiError{Type: ErrTypeRateLimit, Operation: "op", Message: "slow down"}))
	require.True(t, IsRetryable(errors.New("plain error")))
}
