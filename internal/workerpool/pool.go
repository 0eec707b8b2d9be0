// Package workerpool runs independent per-item tasks with bounded
// concurrency and reports a result for every item. A failing item never
// cancels its siblings.
package workerpool

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one item. Results keep the order of the input.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// Task processes one item.
type Task[I, T any] func(ctx context.Context, item I) (T, error)

// Run executes task for every item using at most limit goroutines and
// returns one result per item, in input order. A limit below 1 runs the
// items one at a time. Items not yet started when ctx is cancelled are
// reported with the context error.
func Run[I, T any](ctx context.Context, limit int, items []I, task Task[I, T]) []Result[T] {
	if limit < 1 {
		limit = 1
	}

	results := make([]Result[T], len(items))
	g := new(errgroup.Group)
	g.SetLimit(limit)

	for i, item := range items {
		g.Go(func() error {
			results[i].Index = i
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Value, results[i].Err = safeCall(ctx, task, item)
			return nil
		})
	}

	// Tasks never return an error to the group.
	_ = g.Wait()

	return results
}

// Failures counts results carrying an error.
func Failures[T any](results []Result[T]) int {
	failed := 0
	for i := range results {
		if results[i].Err != nil {
			failed++
		}
	}

	return failed
}

// safeCall turns a panicking task into a failed result.
func safeCall[I, T any](ctx context.Context, task Task[I, T], item I) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	return task(ctx, item)
}
