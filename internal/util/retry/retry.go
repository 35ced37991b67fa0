package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

// Config holds retry configuration.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Operation names the call in log lines and errors.
	Operation string
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// DefaultConfig is tuned for object storage round trips.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Operation:    "operation",
	}
}

// WithExponentialBackoff runs operation until it succeeds, returns a Fatal
// error, runs out of retries or ctx is done. Retries are logged at V(1) on
// the logger carried by ctx.
func WithExponentialBackoff(ctx context.Context, operation func() error, opts ...Option) error {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := logr.FromContextOrDiscard(ctx)

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s cancelled after %d attempts: %w", cfg.Operation, attempt, err)
		}
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("%s failed (not retrying): %w", cfg.Operation, err)
		}
		if attempt == cfg.MaxRetries {
			break
		}

		logger.V(1).Info("retrying", "operation", cfg.Operation, "attempt", attempt+1, "delay", delay.String(), "error", err.Error())
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", cfg.Operation, attempt+1, ctx.Err())
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", cfg.Operation, cfg.MaxRetries+1, lastErr)
}

// Value is WithExponentialBackoff for operations that return a result.
func Value[T any](ctx context.Context, operation func() (T, error), opts ...Option) (T, error) {
	var out T
	err := WithExponentialBackoff(ctx, func() error {
		v, err := operation()
		if err != nil {
			return err
		}
		out = v
		return nil
	}, opts...)
	return out, err
}

// WithMaxRetries sets the maximum number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithInitialDelay sets the initial delay between retries.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithMaxDelay caps the delay between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithMultiplier sets the backoff multiplier.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		c.Multiplier = m
	}
}

// WithOperation names the retried call.
func WithOperation(name string) Option {
	return func(c *Config) {
		c.Operation = name
	}
}

// FatalError marks an error as non-retryable.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks err as non-retryable. Fatal(nil) is nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err is marked non-retryable.
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
