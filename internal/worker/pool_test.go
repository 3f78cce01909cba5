package worker

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_ExecuteKeepsOrder(t *testing.T) {
	var calls atomic.Int32
	pool := NewPool[string, string](4, func(_ context.Context, in string) (string, error) {
		calls.Add(1)
		if in == "bad" {
			return "", errors.New("bad input")
		}
		return strings.ToUpper(in), nil
	})

	inputs := []string{"a", "b", "bad", "c", "d", "e"}
	results := pool.Execute(context.Background(), inputs)

	require.Len(t, results, len(inputs))
	assert.Equal(t, int32(len(inputs)), calls.Load())
	for i, r := range results {
		assert.Equal(t, inputs[i], r.Input)
		if r.Input == "bad" {
			assert.Error(t, r.Err)
			continue
		}
		require.NoError(t, r.Err)
		assert.Equal(t, strings.ToUpper(inputs[i]), r.Result)
	}
}

func TestPool_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool[int, int](0, func(_ context.Context, in int) (int, error) { return in, nil })
	results := pool.Execute(ctx, []int{1, 2, 3})

	for _, r := range results {
		if r.Err != nil {
			assert.ErrorIs(t, r.Err, context.Canceled)
		}
	}
}

func TestPool_Empty(t *testing.T) {
	pool := NewPool[int, int](2, func(_ context.Context, in int) (int, error) { return in, nil })
	assert.Empty(t, pool.Execute(context.Background(), nil))
}

func TestBatch(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Batch([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1}, {2}}, Batch([]int{1, 2}, 0))
	assert.Nil(t, Batch([]int{}, 3))
}
