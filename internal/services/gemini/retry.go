// File: internal/services/gemini/retry.go
package gemini

import (
	"context"
	"time"
)

// Logger matches the service-level structured logger so this package
// does not import the services package.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// RetryConfig defines bounded-attempt exponential backoff. An operation
// runs MaxRetries+1 times in total; after failed attempt k (counting
// from 1) the caller waits BaseDelay * 2^k before the next attempt.
// No jitter, no circuit breaker; every call pays its own schedule.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// RetryWithBackoff executes op until it succeeds or attempts are
// exhausted, returning the last error. Non-retryable errors (config,
// validation) short-circuit immediately. Each failure is logged.
func RetryWithBackoff(ctx context.Context, config RetryConfig, logger Logger, operation string, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= config.MaxRetries+1; attempt++ {
		err := op(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info("operation succeeded after retry",
					"operation", operation, "attempts", attempt)
			}
			return nil
		}

		lastErr = err

		if !IsRetryable(err) {
			logger.Warn("operation failed with non-retryable error",
				"operation", operation, "error", err)
			return err
		}

		if attempt <= config.MaxRetries {
			wait := config.BaseDelay * time.Duration(1<<attempt)
			logger.Warn("operation failed, retrying",
				"operation", operation,
				"attempt", attempt,
				"max_retries", config.MaxRetries,
				"backoff", wait.String(),
				"error", err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	logger.Error("operation failed after all retries",
		"operation", operation, "attempts", config.MaxRetries+1, "error", lastErr)
	return lastErr
}
