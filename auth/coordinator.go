// Package auth implements the parallel brute-force authentication solver
// coordinator that runs on dock release (spec.md §4.G). Per the redesign
// note in spec.md §9 ("manual thread coordination"), the mutex+condition
// variable pattern from the source is replaced with a one-shot latch plus
// golang.org/x/sync/errgroup fan-out, and the "found" flag workers poll
// between guesses is a github.com/tevino/abool lock-free bool.
package auth

import (
	"context"
	"fmt"

	"github.com/tevino/abool"
	"golang.org/x/sync/errgroup"

	"github.com/safing/harbor/ipc"
	"github.com/safing/harbor/keyspace"
)

// Result is the outcome of one coordinated search.
type Result struct {
	Found bool
	Value string
}

// Coordinator fans a keyspace search out across solver workers for one
// dock at a time.
type Coordinator struct {
	Keyspace *keyspace.Generator
	Solvers  []ipc.SolverQueue
}

// New returns a coordinator driving the given solver queues, one worker
// per queue (spec.md §5 Tier 2).
func New(ks *keyspace.Generator, solvers []ipc.SolverQueue) *Coordinator {
	return &Coordinator{Keyspace: ks, Solvers: solvers}
}

// Search partitions [0, CountFor(length)) into len(Solvers) contiguous,
// ceiling-divided ranges and fans the search for dockID out across every
// worker, cancelling peers as soon as one reports success (spec.md §4.G).
// It returns Result{Found: false} if every worker exhausts its range
// without a match, or if length is out of [keyspace.MinLength,
// keyspace.MaxLength] (spec.md §7 kind 6: silent skip, not an error).
func (c *Coordinator) Search(ctx context.Context, dockID, length int) (Result, error) {
	if length < keyspace.MinLength || length > keyspace.MaxLength {
		return Result{}, nil
	}
	if len(c.Solvers) == 0 {
		return Result{}, fmt.Errorf("auth: no solver workers configured")
	}

	count := c.Keyspace.CountFor(length)
	latch := newResultLatch()
	found := abool.New()

	grp, grpCtx := errgroup.WithContext(ctx)
	perWorker := ceilDiv(count, len(c.Solvers))

	for workerIdx, solver := range c.Solvers {
		workerIdx, solver := workerIdx, solver
		lo := workerIdx * perWorker
		hi := lo + perWorker
		if hi > count {
			hi = count
		}
		if lo >= hi {
			continue
		}

		grp.Go(func() error {
			return c.runWorker(grpCtx, solver, dockID, length, lo, hi, found, latch)
		})
	}

	if err := grp.Wait(); err != nil {
		return Result{}, err
	}

	value, ok := latch.get()
	return Result{Found: ok, Value: value}, nil
}

// runWorker sets the active dock on solver, then guesses every candidate
// string in [lo, hi), checking found before each send and latching the
// first correct answer it sees.
func (c *Coordinator) runWorker(ctx context.Context, solver ipc.SolverQueue, dockID, length, lo, hi int, found *abool.AtomicBool, latch *resultLatch) error {
	if err := solver.SetDock(ctx, dockID); err != nil {
		// Same as a failed guess below: this worker drops out of the search.
		return nil
	}

	for i := lo; i < hi; i++ {
		if found.IsSet() {
			return nil
		}

		candidate := c.Keyspace.StringAt(length, i)
		resp, err := solver.Guess(ctx, candidate)
		if err != nil {
			// Spec.md §7 kind 3: a solver-queue IPC failure is non-fatal;
			// this worker simply stops contributing to the search.
			return nil
		}

		switch resp.GuessIsCorrect {
		case ipc.GuessCorrect:
			if found.SetToIf(false, true) {
				latch.set(candidate)
			}
			return nil
		case ipc.GuessAbort:
			found.Set()
			return nil
		}
	}
	return nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
