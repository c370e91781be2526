package sandbox_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/docforge/pkg/render/sandbox"
)

func TestDispatchReturnsResultBeforeTimeout(t *testing.T) {
	v, err := sandbox.Dispatch(context.Background(), time.Second, func() (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestDispatchPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	_, err := sandbox.Dispatch(context.Background(), time.Second, func() (int, error) {
		return 0, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

// Dispatch must return a Timeout error in bounded wall-clock time for any
// function taking longer than the timeout budget, rather than blocking
// until the function finishes.
func TestDispatchTimesOutOnSlowWork(t *testing.T) {
	start := time.Now()
	_, err := sandbox.Dispatch(context.Background(), 20*time.Millisecond, func() (int, error) {
		time.Sleep(time.Second)
		return 1, nil
	})
	elapsed := time.Since(start)

	var timeoutErr *sandbox.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestDispatchRecoversPanic(t *testing.T) {
	_, err := sandbox.Dispatch(context.Background(), time.Second, func() (int, error) {
		panic("compiler exploded")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
}

func TestDispatchRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := sandbox.Dispatch(ctx, time.Minute, func() (int, error) {
		time.Sleep(time.Second)
		return 1, nil
	})
	var timeoutErr *sandbox.TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}
