package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-catalog-go/eventstore"
	"github.com/AntonStoeckl/library-catalog-go/testutil/helper"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return nil // Success on the first attempt
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn)

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_RetryOnConcurrencyConflict(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return eventstore.ErrConcurrencyConflict // Fail twice
		}
		return nil
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Millisecond))

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.Equal(t, "none", meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_NoRetryOnOtherErrors(t *testing.T) {
	ctx := context.Background()
	callCount := 0
	permanent := errors.New("permanent failure")

	fn := func(_ context.Context) error {
		callCount++
		return permanent
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn)

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "other", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_MaxAttemptsReached(t *testing.T) {
	ctx := context.Background()
	callCount := 0
	metrics := helper.NewMetricsCollectorSpy()

	fn := func(_ context.Context) error {
		callCount++
		return eventstore.ErrConcurrencyConflict
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn,
		WithMaxAttempts(3),
		WithBaseDelay(time.Millisecond),
		WithJitterFactor(0),
		WithRetryMetrics(metrics, "BorrowBook"),
	)

	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 3, callCount)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, "concurrency_conflict", meta.LastErrorType)
	assert.Equal(t, 3*time.Millisecond, meta.TotalDelay)
	assert.Equal(t, 2, metrics.CountCounterRecordsForMetric(CommandHandlerRetriesMetric))
	assert.Equal(t, 2, metrics.CountDurationRecordsForMetric(CommandHandlerRetryDelayMetric))
	assert.Equal(t, 1, metrics.CountCounterRecordsForMetric(CommandHandlerMaxRetriesReachedMetric))
}

func Test_RetryWithExponentialBackoff_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		cancel()
		return eventstore.ErrConcurrencyConflict
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Second))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "context_canceled", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	ctx := context.Background()
	fn := func(_ context.Context) error { return nil }

	testCases := []struct {
		description string
		option      RetryOption
		expectedErr error
	}{
		{description: "invalid max attempts", option: WithMaxAttempts(0), expectedErr: ErrInvalidMaxAttempts},
		{description: "negative base delay", option: WithBaseDelay(-1 * time.Second), expectedErr: ErrNegativeBaseDelay},
		{description: "invalid jitter factor", option: WithJitterFactor(1.5), expectedErr: ErrInvalidJitterFactor},
		{description: "nil metrics collector", option: WithRetryMetrics(nil, "BorrowBook"), expectedErr: ErrNilMetricsCollector},
		{description: "empty command type", option: WithRetryMetrics(helper.NewMetricsCollectorSpy(), ""), expectedErr: ErrEmptyCommandType},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, err := RetryWithExponentialBackoff(ctx, fn, tc.option)

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
