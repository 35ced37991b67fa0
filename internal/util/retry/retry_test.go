package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast() Option {
	return func(c *Config) {
		c.InitialDelay = time.Millisecond
		c.MaxDelay = 2 * time.Millisecond
	}
}

func TestWithExponentialBackoff_Success(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, fast())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithExponentialBackoff_MaxRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return errors.New("persistent error")
	}, fast(), WithMaxRetries(2), WithOperation("get object"))

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "get object failed after 3 attempts")
	assert.Contains(t, err.Error(), "persistent error")
}

func TestWithExponentialBackoff_Fatal(t *testing.T) {
	t.Parallel()
	attempts := 0
	cause := errors.New("access denied")
	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return Fatal(cause)
	}, fast())

	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsFatal(err))
}

func TestWithExponentialBackoff_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := WithExponentialBackoff(ctx, func() error {
		attempts++
		cancel()
		return errors.New("temporary")
	}, WithInitialDelay(time.Hour))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestValue(t *testing.T) {
	t.Parallel()
	attempts := 0
	v, err := Value(context.Background(), func() ([]byte, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("flaky")
		}
		return []byte("ok"), nil
	}, fast())
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), v)
}

func TestFatal(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Fatal(nil))
	assert.False(t, IsFatal(errors.New("plain")))
	assert.Equal(t, "boom", Fatal(errors.New("boom")).Error())
}
