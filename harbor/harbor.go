// Package harbor wires every scheduling component into one
// service/mgr.Module, following the teacher's per-subsystem module
// pattern (service/instance.go) rather than the full Instance aggregate
// it wires together for the whole Portmaster service.
package harbor

import (
	"fmt"

	"github.com/safing/harbor/config"
	"github.com/safing/harbor/dock"
	"github.com/safing/harbor/fleet"
	"github.com/safing/harbor/ipc"
	"github.com/safing/harbor/keyspace"
	"github.com/safing/harbor/service/mgr"
	"github.com/safing/harbor/timestep"
)

// Core is the harbor scheduling core as a single manageable module.
type Core struct {
	mgr *mgr.Manager

	driver *timestep.Driver
	done   chan error
}

// New builds a Core from a loaded test case configuration and the IPC
// handles the caller has already opened for it (spec.md §6, §7 kind 1:
// IPC setup is the caller's responsibility and fatal on failure).
func New(tc config.TestCase, main ipc.MainQueue, shared ipc.SharedMemory, solvers []ipc.SolverQueue) (*Core, error) {
	if len(solvers) != len(tc.SolverQueueKeys) {
		return nil, fmt.Errorf("harbor: expected %d solver queues, got %d", len(tc.SolverQueueKeys), len(solvers))
	}

	dockSpecs := make([][]int, len(tc.Docks))
	for i, d := range tc.Docks {
		dockSpecs[i] = d.CraneCapacities
	}

	driver := timestep.New(
		fleet.NewRegistry(),
		dock.NewRegistry(dockSpecs),
		keyspace.New(),
		main,
		shared,
		solvers,
	)

	return &Core{
		mgr:    mgr.New("harbor-core"),
		driver: driver,
		done:   make(chan error, 1),
	}, nil
}

// Manager implements mgr.Module.
func (c *Core) Manager() *mgr.Manager {
	return c.mgr
}

// Start launches the timestep loop in its own goroutine (spec.md §5
// Tier 1). It returns immediately; the loop runs until Stop cancels it,
// or until the driver observes the finish flag or a fatal IPC error, in
// which case the result is delivered on Done.
//
// This deliberately uses mgr.Do, not mgr.Go: Go retries its closure with
// backoff on any non-cancellation error, which would re-invoke
// driver.Run on the same IPC handles after a fatal main-queue fault —
// exactly what spec.md §7's "no retries on the main queue" rules out.
// Do runs the closure exactly once and still counts it as one of the
// manager's workers, so WaitForWorkers during Stop still sees it.
func (c *Core) Start() error {
	go func() {
		c.done <- c.mgr.Do("timestep loop", func(w *mgr.WorkerCtx) error {
			return c.driver.Run(w.Ctx())
		})
	}()
	return nil
}

// Stop cancels the manager context, unblocking any pending IPC call in
// the timestep loop.
func (c *Core) Stop() error {
	c.mgr.Cancel()
	return nil
}

// Done reports when the timestep loop has exited on its own (driver
// finish flag or fatal error per spec.md §7), distinct from an external
// Stop(). The caller uses this to decide the process exit code.
func (c *Core) Done() <-chan error {
	return c.done
}
