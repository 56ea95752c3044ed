// Package worker runs independent jobs on a bounded pool of goroutines.
package worker

import (
	"context"
	"sync"
)

// Result pairs one input with the output or error produced for it.
type Result[T any] struct {
	Input  string
	Output T
	Err    error
}

// Run calls fn for every input using at most concurrency goroutines and
// returns one Result per input, in input order.
//
// Every input gets a Result. Inputs that have not started when ctx is
// cancelled are not passed to fn; their Result carries ctx.Err().
func Run[T any](ctx context.Context, inputs []string, concurrency int, fn func(context.Context, string) (T, error)) []Result[T] {
	results := make([]Result[T], len(inputs))
	if len(inputs) == 0 {
		return results
	}
	concurrency = max(1, min(concurrency, len(inputs)))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i].Input = inputs[i]
				if err := ctx.Err(); err != nil {
					results[i].Err = err
					continue
				}
				results[i].Output, results[i].Err = fn(ctx, inputs[i])
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
