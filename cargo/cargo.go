// Package cargo implements the per-dock, per-timestep crane-to-cargo
// matching scheduler (spec.md §4.F).
package cargo

import (
	"github.com/safing/harbor/base/metrics"
	"github.com/safing/harbor/dock"
	"github.com/safing/harbor/fleet"
)

// Mover is the effect a successful cargo move has on the outside world:
// emitting the cargo-move message on the main queue.
type Mover interface {
	SendCargoMove(shipID int, direction fleet.Direction, dockID, cargoID, craneID int) error
}

// Scheduler drives cargo movement for occupied docks.
type Scheduler struct {
	Fleet *fleet.Registry
	Out   Mover
}

// New returns a cargo scheduler wired to the fleet registry for updating
// ship-side remaining-cargo counts.
func New(fleetRegistry *fleet.Registry, out Mover) *Scheduler {
	return &Scheduler{Fleet: fleetRegistry, Out: out}
}

// RunTick repeatedly moves one cargo unit on d until no further move is
// possible this tick (spec.md §4.F).
func (s *Scheduler) RunTick(d *dock.Dock, currentTimestep int) error {
	if !d.Occupied || d.RemainingCargo == 0 || d.DockingTimestep == currentTimestep {
		return nil
	}

	ship := s.Fleet.FindByIDDir(d.ShipID, d.Direction)

	for {
		cargoIdx, craneIdx, ok := bestMove(d)
		if !ok {
			return nil
		}

		if err := s.Out.SendCargoMove(d.ShipID, d.Direction, d.ID, cargoIdx, craneIdx); err != nil {
			return err
		}

		d.RemainingCargoWeights[cargoIdx] = 0
		d.RemainingCargo--
		d.CraneUsed[craneIdx] = true
		d.LastCargoMovedTimestep = currentTimestep
		d.HasMovedCargo = true
		if ship != nil {
			ship.RemainingCargo--
		}
		metrics.CargoMoves.Inc()

		if d.RemainingCargo == 0 {
			return nil
		}
	}
}

// bestMove scans remaining cargo in index order and, for the first cargo
// with nonzero weight, picks the tightest-fitting unused crane (minimum
// non-negative slack, ties by smallest crane index). If no crane can lift
// that cargo it advances to the next cargo unit.
func bestMove(d *dock.Dock) (cargoIdx, craneIdx int, ok bool) {
	for ci, weight := range d.RemainingCargoWeights {
		if weight == 0 {
			continue
		}
		bestCrane := -1
		bestSlack := -1
		for k, capacity := range d.CraneCapacities {
			if d.CraneUsed[k] || capacity < weight {
				continue
			}
			slack := capacity - weight
			if bestCrane == -1 || slack < bestSlack {
				bestCrane = k
				bestSlack = slack
			}
		}
		if bestCrane != -1 {
			return ci, bestCrane, true
		}
	}
	return 0, 0, false
}
