// Package parallel implements the worker-pool contract of spec.md §5: a
// bulk elementwise operation is split across a fixed pool of goroutines
// iff the result's element count exceeds a per-primitive, host-settable
// threshold. Absence of a pool (Workers==1) is a legal configuration.
// Grounded on the teacher's internal/concurrency.WorkerPool, rebuilt on
// golang.org/x/sync/errgroup instead of hand-rolled channels/WaitGroup.
package parallel

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Thresholds holds the per-primitive element-count threshold above which
// a bulk operation is split across workers (spec.md §5 "Work sizing").
type Thresholds struct {
	mu      sync.RWMutex
	byName  map[string]int
	workers int
}

// defaultThreshold is conservative: most APL expressions are small, so the
// pool only kicks in for genuinely large arrays.
const defaultThreshold = 4096

// NewThresholds builds a threshold table with GOMAXPROCS workers.
func NewThresholds() *Thresholds {
	return &Thresholds{byName: make(map[string]int), workers: runtime.GOMAXPROCS(0)}
}

// Get returns the threshold configured for name, or the default.
func (t *Thresholds) Get(name string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n, ok := t.byName[name]; ok {
		return n
	}
	return defaultThreshold
}

// Set overrides the threshold for name (the ⎕-settable host knob of
// spec.md §5 "queryable/settable from APL").
func (t *Thresholds) Set(name string, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byName[name] = n
}

// Workers returns the configured pool size; 0 or 1 disables fan-out.
func (t *Thresholds) Workers() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.workers
}

// SetWorkers configures the pool size. Setting it to 1 is a legal
// single-core configuration (spec.md §5 "Absence of a worker pool is a
// legal configuration (cores = 1)").
func (t *Thresholds) SetWorkers(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n < 1 {
		n = 1
	}
	t.workers = n
}

// For runs fn(i) for i in [0, n) — sequentially if n is below the
// primitive's threshold or the pool has a single worker, otherwise
// partitioned across Workers() goroutines and joined before returning
// (spec.md §5 "forked from a master thread context ... joined before
// control returns to the frame"). Each worker commits to disjoint indices
// only, per spec.md §5 "Ordering".
func (t *Thresholds) For(primitiveName string, n int, fn func(i int) error) error {
	workers := t.Workers()
	if n < t.Get(primitiveName) || workers <= 1 || n == 0 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}
	if workers > n {
		workers = n
	}
	g, _ := errgroup.WithContext(context.Background())
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
