package engine

import (
	"context"
	"sync"

	og "github.com/govalid/objectgraph"
)

// BatchResult is the outcome of validating one instance of a batch.
type BatchResult struct {
	// Instance is the validated root.
	Instance any

	// Valid reports whether the walk found no domain failures. False
	// when Err is set.
	Valid bool

	// Store holds the collected failures for this instance.
	Store *og.Store

	// Err is the walk-level error, if the walk could not complete.
	Err error
}

// ValidateBatch validates independent roots in parallel, collecting all
// failures per root. Concurrency is bounded by the validator's worker
// count. Results are positionally aligned with instances.
func (v *Validator) ValidateBatch(ctx context.Context, instances []any) []*BatchResult {
	results := make([]*BatchResult, len(instances))

	v.workerPoolOnce.Do(func() {
		workers := v.options.WorkerCount
		if workers <= 0 {
			workers = 4
		}
		v.workerPool = make(chan struct{}, workers)
	})

	var wg sync.WaitGroup
	for i, instance := range instances {
		wg.Add(1)
		go func(idx int, inst any) {
			defer wg.Done()

			v.workerPool <- struct{}{}
			defer func() { <-v.workerPool }()

			store := og.NewStore()
			vc := og.NewValidationContext(inst, nil)
			ok, err := v.TryValidateObject(ctx, vc, inst, store, true)
			results[idx] = &BatchResult{
				Instance: inst,
				Valid:    ok && err == nil,
				Store:    store,
				Err:      err,
			}
		}(i, instance)
	}

	wg.Wait()
	return results
}
