// Package timestep implements the Tier-1 main loop that orchestrates the
// assignment, cargo, and auth components against the main IPC handshake
// (spec.md §4.H, §5).
package timestep

import (
	"context"
	"fmt"

	"github.com/safing/harbor/assign"
	"github.com/safing/harbor/auth"
	"github.com/safing/harbor/base/metrics"
	"github.com/safing/harbor/cargo"
	"github.com/safing/harbor/dock"
	"github.com/safing/harbor/fleet"
	"github.com/safing/harbor/ipc"
	"github.com/safing/harbor/keyspace"
)

// Driver is the single owning context for one harbor's run: the fleet and
// dock registries, the keyspace generator, and the IPC handles, threaded
// explicitly through every pass instead of living as global state
// (spec.md §9 "global mutable state"; SPEC_FULL.md REDESIGN FLAGS #2).
type Driver struct {
	Fleet    *fleet.Registry
	Docks    *dock.Registry
	Keyspace *keyspace.Generator

	Main    ipc.MainQueue
	Shared  ipc.SharedMemory
	Solvers []ipc.SolverQueue

	assign *assign.Engine
	cargo  *cargo.Scheduler
	auth   *auth.Coordinator

	currentTimestep int
}

// New builds a driver wired to the given registries and IPC handles.
func New(fleetRegistry *fleet.Registry, dockRegistry *dock.Registry, ks *keyspace.Generator, main ipc.MainQueue, shared ipc.SharedMemory, solvers []ipc.SolverQueue) *Driver {
	mainAdapter := mainQueueAdapter{main}
	return &Driver{
		Fleet:    fleetRegistry,
		Docks:    dockRegistry,
		Keyspace: ks,
		Main:     main,
		Shared:   shared,
		Solvers:  solvers,
		assign:   assign.New(fleetRegistry, dockRegistry, mainAdapter),
		cargo:    cargo.New(fleetRegistry, mainAdapter),
		auth:     auth.New(ks, solvers),
	}
}

// mainQueueAdapter narrows ipc.MainQueue to the Docker/Mover interfaces
// assign and cargo depend on, threading a background context since those
// sends are expected to never meaningfully block (spec.md §5 treats a
// main-queue send as a cooperative yield, not a cancellation point).
type mainQueueAdapter struct {
	q ipc.MainQueue
}

func (a mainQueueAdapter) SendDock(shipID int, direction fleet.Direction, dockID int) error {
	return a.q.SendDock(context.Background(), ipc.DockMessage{ShipID: shipID, Direction: int(direction), DockID: dockID})
}

func (a mainQueueAdapter) SendCargoMove(shipID int, direction fleet.Direction, dockID, cargoID, craneID int) error {
	return a.q.SendCargoMove(context.Background(), ipc.CargoMoveMessage{
		ShipID: shipID, Direction: int(direction), DockID: dockID, CargoID: cargoID, CraneID: craneID,
	})
}

// RunOnce processes exactly one tick: receive, ingest, assign, move cargo,
// authenticate/undock, acknowledge. It returns isFinished as reported by
// the tick message.
func (d *Driver) RunOnce(ctx context.Context) (isFinished bool, err error) {
	tick, err := d.Main.RecvTick(ctx)
	if err != nil {
		return false, fmt.Errorf("timestep: recv tick: %w", err)
	}
	d.currentTimestep = tick.Timestep

	for _, dk := range d.Docks.All() {
		dk.ResetTick()
	}

	if tick.IsFinished {
		return true, nil
	}

	if err := d.ingest(tick.NumShipRequests); err != nil {
		return false, fmt.Errorf("timestep: ingest ship requests: %w", err)
	}

	if err := d.assign.EmergencyPass(d.currentTimestep); err != nil {
		return false, fmt.Errorf("timestep: emergency pass: %w", err)
	}
	if err := d.assign.GeneralPass(d.currentTimestep); err != nil {
		return false, fmt.Errorf("timestep: general pass: %w", err)
	}

	for _, dk := range d.Docks.All() {
		if err := d.cargo.RunTick(dk, d.currentTimestep); err != nil {
			return false, fmt.Errorf("timestep: cargo scheduling dock %d: %w", dk.ID, err)
		}
	}

	for _, dk := range d.Docks.All() {
		if err := d.tryRelease(ctx, dk); err != nil {
			return false, fmt.Errorf("timestep: release dock %d: %w", dk.ID, err)
		}
	}

	if err := d.Main.SendTickComplete(ctx); err != nil {
		return false, fmt.Errorf("timestep: send tick complete: %w", err)
	}
	metrics.TicksProcessed.Inc()
	return false, nil
}

func (d *Driver) ingest(numShipRequests int) error {
	requests, err := d.Shared.ReadNewShipRequests(numShipRequests)
	if err != nil {
		return err
	}
	for _, req := range requests {
		d.Fleet.Admit(fleet.Request{
			ShipID:      req.ShipID,
			Direction:   fleet.Direction(req.Direction),
			Category:    req.Category,
			Emergency:   req.Emergency != 0,
			Timestep:    req.Timestep,
			WaitingTime: req.WaitingTime,
			Cargo:       req.Cargo,
		})
		metrics.ShipsAdmitted.Inc()
	}
	return nil
}

// tryRelease runs the auth solver coordinator for dk if it just went
// idle (occupied, no remaining cargo, last move strictly before this
// tick) and, on success, writes the auth string and undocks (spec.md
// §4.G).
func (d *Driver) tryRelease(ctx context.Context, dk *dock.Dock) error {
	if !dk.Occupied || dk.RemainingCargo != 0 || !dk.HasMovedCargo || dk.LastCargoMovedTimestep >= d.currentTimestep {
		return nil
	}

	length := dk.LastCargoMovedTimestep - dk.DockingTimestep
	metrics.AuthAttempts.Inc()
	result, err := d.auth.Search(ctx, dk.ID, length)
	if err != nil {
		return err
	}
	if !result.Found {
		return nil
	}
	metrics.AuthSuccesses.Inc()

	if err := d.Shared.WriteAuthString(dk.ID, result.Value); err != nil {
		return err
	}
	if err := d.Main.SendUndock(ctx, ipc.UndockMessage{ShipID: dk.ShipID, Direction: int(dk.Direction), DockID: dk.ID}); err != nil {
		return err
	}

	if ship := d.Fleet.FindByIDDir(dk.ShipID, dk.Direction); ship != nil {
		d.Fleet.MarkServiced(ship)
	}
	d.Docks.Release(dk.ID)
	metrics.ShipsServiced.Inc()
	return nil
}

// Run drives RunOnce in a loop until the driver reports isFinished or ctx
// is cancelled (spec.md §4.H, §5 Tier 1).
func (d *Driver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		finished, err := d.RunOnce(ctx)
		if err != nil {
			return err
		}
		if finished {
			return nil
		}
	}
}
