package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityhop/route-engine/pkg/logger"
)

func init() {
	_ = logger.Init("test")
}

func fastRetryConfig(maxAttempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:       maxAttempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        4 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "test-op", fastRetryConfig(3), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "test-op", fastRetryConfig(3), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("persistent")
	err := Retry(context.Background(), "test-op", fastRetryConfig(3), func(ctx context.Context) error {
		calls++
		return wantErr
	})

	require.Error(t, err)
	assert.Equal(t, wantErr, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_NonRetryableStopsImmediately(t *testing.T) {
	cfg := fastRetryConfig(3)
	cfg.RetryableChecker = func(err error) bool {
		return false
	}

	calls := 0
	err := Retry(context.Background(), "test-op", cfg, func(ctx context.Context) error {
		calls++
		return errors.New("fatal")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := fastRetryConfig(5)
	cfg.InitialBackoff = 100 * time.Millisecond

	calls := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- Retry(ctx, "test-op", cfg, func(ctx context.Context) error {
			calls++
			return errors.New("transient")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("retry did not observe cancellation")
	}
	assert.Equal(t, 1, calls)
}

func TestNextBackoff_CapsAtMax(t *testing.T) {
	cfg := RetryConfig{BackoffMultiplier: 2.0, MaxBackoff: 4 * time.Second}

	b := nextBackoff(1*time.Second, cfg)
	assert.Equal(t, 2*time.Second, b)

	b = nextBackoff(b, cfg)
	assert.Equal(t, 4*time.Second, b)

	b = nextBackoff(b, cfg)
	assert.Equal(t, 4*time.Second, b)
}
