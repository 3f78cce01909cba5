package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Task holds the outcome of processing one input.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc is the function signature for processing a single task.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool is a generic worker pool with configurable concurrency.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a new worker pool.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// Execute runs all inputs through the pool. Results are returned in input
// order regardless of completion order. Inputs not started before ctx is
// cancelled carry ctx.Err().
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	for i, in := range inputs {
		results[i] = Task[T, R]{Input: in, Err: context.Canceled}
	}

	inputCh := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < min(p.workers, len(inputs)); w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range inputCh {
				result, err := p.process(ctx, inputs[idx])
				results[idx] = Task[T, R]{
					Input:  inputs[idx],
					Result: result,
					Err:    err,
				}
				if err != nil {
					log.Error().Err(err).Int("worker", workerID).Int("index", idx).Msg("Task failed")
				}
			}
		}(w)
	}

send:
	for i := range inputs {
		select {
		case <-ctx.Done():
			break send
		case inputCh <- i:
		}
	}
	close(inputCh)

	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := range results {
			if results[i].Err == context.Canceled {
				results[i].Err = err
			}
		}
	}
	return results
}

// Batch splits items into consecutive batches of at most batchSize.
func Batch[T any](items []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = 1
	}
	var batches [][]T
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}
