package fanout

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Result captures the outcome of one task.
type Result struct {
	ID  string
	Err error
}

// Outcome aggregates all task results. Partial failure is an expected state:
// callers report succeeded/failed counts and never roll back the succeeded
// subset.
type Outcome struct {
	Succeeded int
	Failed    int
	Results   []Result
}

// Errors returns the failed results only.
func (o Outcome) Errors() []Result {
	failed := make([]Result, 0, o.Failed)
	for _, r := range o.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Run executes fn once per id with at most concurrency goroutines in flight
// and gathers every result in input order. Tasks are never retried: a retried
// award would double-apply upstream.
func Run(ctx context.Context, ids []string, concurrency int, logger *zap.Logger, fn func(ctx context.Context, id string) error) Outcome {
	if concurrency <= 0 {
		concurrency = 4
	}
	if concurrency > len(ids) {
		concurrency = len(ids)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]Result, len(ids))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				id := ids[i]
				err := fn(ctx, id)
				results[i] = Result{ID: id, Err: err}
				if err != nil {
					logger.Warn("fanout task failed", zap.String("id", id), zap.Error(err))
				}
			}
		}()
	}

	for i := range ids {
		select {
		case <-ctx.Done():
			// Remaining tasks are marked with the context error so the
			// outcome still has one result per input.
			for j := i; j < len(ids); j++ {
				results[j] = Result{ID: ids[j], Err: ctx.Err()}
			}
			close(indexes)
			wg.Wait()
			return tally(results)
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	return tally(results)
}

func tally(results []Result) Outcome {
	outcome := Outcome{Results: results}
	for _, r := range results {
		if r.Err != nil {
			outcome.Failed++
		} else {
			outcome.Succeeded++
		}
	}
	return outcome
}
