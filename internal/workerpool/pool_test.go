package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunPreservesOrder(t *testing.T) {
	items := []int{5, 1, 4, 2, 3}

	results := Run(context.Background(), 3, items, func(_ context.Context, n int) (string, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return fmt.Sprintf("item-%d", n), nil
	})

	require.Len(t, results, len(items))
	for i, result := range results {
		assert.Equal(t, i, result.Index)
		assert.NoError(t, result.Err)
		assert.Equal(t, fmt.Sprintf("item-%d", items[i]), result.Value)
	}
	assert.Equal(t, 0, Failures(results))
}

func TestRunFailureDoesNotCancelSiblings(t *testing.T) {
	var completed atomic.Int32
	items := []string{"ok", "fail", "ok", "panic", "ok"}

	results := Run(context.Background(), 2, items, func(_ context.Context, s string) (int, error) {
		switch s {
		case "fail":
			return 0, errors.New("boom")
		case "panic":
			panic("unexpected")
		}
		completed.Add(1)
		return 1, nil
	})

	assert.Equal(t, int32(3), completed.Load())
	assert.Equal(t, 2, Failures(results))
	assert.EqualError(t, results[1].Err, "boom")
	assert.Contains(t, results[3].Err.Error(), "panicked")
}

func TestRunRespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	items := make([]int, 20)

	Run(context.Background(), 4, items, func(_ context.Context, _ int) (struct{}, error) {
		current := running.Add(1)
		for {
			old := peak.Load()
			if current <= old || peak.CompareAndSwap(old, current) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		running.Add(-1)
		return struct{}{}, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(4))
	assert.Positive(t, peak.Load())
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Run(ctx, 0, []int{1, 2}, func(_ context.Context, n int) (int, error) {
		return n, nil
	})

	assert.Equal(t, 2, Failures(results))
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestRunEmpty(t *testing.T) {
	results := Run(context.Background(), 4, []int(nil), func(_ context.Context, n int) (int, error) {
		return n, nil
	})

	assert.Empty(t, results)
}
