package helper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	t.Run("first try succeeds", func(t *testing.T) {
		calls := 0
		out, err := RetryWithBackoff(context.Background(), 3, time.Millisecond, func(ctx context.Context) (int, error) {
			calls++
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, out)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		out, err := RetryWithBackoff(context.Background(), 3, time.Millisecond, func(ctx context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("boom")
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		_, err := RetryWithBackoff(context.Background(), 3, time.Millisecond, func(ctx context.Context) (int, error) {
			calls++
			return 0, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on context cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		go func() {
			time.Sleep(5 * time.Millisecond)
			cancel()
		}()
		_, err := RetryWithBackoff(ctx, 5, time.Second, func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("boom")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
