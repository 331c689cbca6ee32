package sim

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/latencylab/latencylab/internal/rng"
	"github.com/latencylab/latencylab/model"
)

// ExecutorKind identifies which concrete engine an EngineStrategy selects,
// mirroring the original's default_executor_for_model dispatch-by-version.
type ExecutorKind int

const (
	ExecutorLegacy ExecutorKind = iota
	ExecutorExtended
)

// EngineStrategy drives a single run of a validated Model. runOne owns
// exactly one run's RNG and state; it never mutates shared state.
type EngineStrategy interface {
	Kind() ExecutorKind
	runOne(m *model.Model, runIndex int, seed int64) (RunResult, error)
}

// SelectEngine dispatches on schema version, per spec.md's "legacy engine
// for v1, extended engine for v2+" rule.
func SelectEngine(schemaVersion int) EngineStrategy {
	if schemaVersion == 1 {
		return legacyEngine{}
	}
	return extendedEngine{}
}

type extendedEngine struct{}

func (extendedEngine) Kind() ExecutorKind { return ExecutorExtended }

func (extendedEngine) runOne(m *model.Model, runIndex int, seed int64) (RunResult, error) {
	return RunOne(m, runIndex, seed)
}

// Options configures a RunMany batch. MaxParallelism nil/0 means unbounded
// (capped only by GOMAXPROCS-sized practicality); DeadlineMs nil means no
// deadline.
type Options struct {
	CollectTraces  bool
	MaxParallelism *uint32
	DeadlineMs     *uint64
}

// DefaultOptions mirrors spec.md's documented defaults.
func DefaultOptions() Options {
	return Options{CollectTraces: true}
}

// RunMany fans nRuns independent runs of m out across a worker pool, each
// seeded deterministically from baseSeed via internal/rng.SeedForRun, and
// returns results ordered by run index ascending regardless of completion
// order. Cancellation (ctx) and opts.DeadlineMs are sampled only between
// dispatching runs, never mid-run, per the Concurrency & Resource Model.
//
// Grounded on the teacher's sim/cluster/cluster.go shared-clock dispatch
// loop (N independent units of work sharing an orchestrator), restructured
// as a bounded worker pool in the style of
// other_examples/petal-labs-petalflow__runtime.go's
// executeGraphParallel/startParallelWorkers, since the teacher itself never
// fans out goroutines across independent simulations.
func RunMany(ctx context.Context, m *model.Model, nRuns int, baseSeed int64, opts Options) ([]RunResult, error) {
	engine := SelectEngine(m.SchemaVersion)

	workers := runtimeWorkers(opts.MaxParallelism, nRuns)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var deadline <-chan time.Time
	if opts.DeadlineMs != nil {
		timer := time.NewTimer(time.Duration(*opts.DeadlineMs) * time.Millisecond)
		defer timer.Stop()
		deadline = timer.C
	}

	type outcome struct {
		index  int
		result RunResult
		err    error
	}

	jobs := make(chan int)
	results := make(chan outcome, nRuns)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				seed := rng.SeedForRun(baseSeed, idx)
				r, err := engine.runOne(m, idx, seed)
				results <- outcome{index: idx, result: r, err: err}
			}
		}()
	}

	var stopErr error
dispatch:
	for i := 0; i < nRuns; i++ {
		select {
		case <-runCtx.Done():
			stopErr = ErrCancelled
			break dispatch
		case <-deadline:
			stopErr = ErrDeadlineExceeded
			break dispatch
		default:
		}
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]RunResult, nRuns)
	seen := make([]bool, nRuns)
	var firstErr error
	for out := range results {
		if out.err != nil {
			logrus.WithError(out.err).WithField("run_index", out.index).Warn("run failed")
			if firstErr == nil {
				firstErr = out.err
			}
			continue
		}
		ordered[out.index] = out.result
		seen[out.index] = true
	}

	if firstErr != nil {
		return nil, firstErr
	}

	final := make([]RunResult, 0, nRuns)
	for i, ok := range seen {
		if !ok {
			continue
		}
		final = append(final, ordered[i])
	}

	if stopErr != nil {
		return final, stopErr
	}

	return final, nil
}

func runtimeWorkers(maxParallelism *uint32, nRuns int) int {
	if nRuns <= 0 {
		return 1
	}
	if maxParallelism != nil && *maxParallelism > 0 {
		w := int(*maxParallelism)
		if w > nRuns {
			return nRuns
		}
		return w
	}
	return nRuns
}
