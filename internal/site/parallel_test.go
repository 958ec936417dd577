package site

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOrdered_KeepsOrderAndBoundsConcurrency(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	var active, peak atomic.Int32

	results := runOrdered(t.Context(), items, 3, func(i int) (int, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		defer active.Add(-1)
		if i == 4 {
			return 0, stderrors.New("four")
		}
		return i * i, nil
	})

	require.Len(t, results, len(items))
	for i, r := range results {
		if items[i] == 4 {
			require.Error(t, r.Err)
			continue
		}
		assert.Equal(t, items[i]*items[i], r.Value)
	}
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Len(t, collectErrors(results), 1)
}

func TestRunOrdered_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := runOrdered(ctx, []string{"a", "b"}, 2, func(string) (struct{}, error) {
		t.Fatal("fn must not run after cancellation")
		return struct{}{}, nil
	})
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}
