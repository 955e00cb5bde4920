package dock

import (
	"fmt"

	"github.com/safing/harbor/fleet"
)

// Registry holds every dock for the program's lifetime (spec.md §3
// "Lifecycles").
type Registry struct {
	docks []*Dock
}

// NewRegistry builds a registry from the static per-dock crane capacities
// read from the input file (spec.md §6).
func NewRegistry(craneCapacitiesByDock [][]int) *Registry {
	r := &Registry{docks: make([]*Dock, len(craneCapacitiesByDock))}
	for i, capacities := range craneCapacitiesByDock {
		r.docks[i] = New(i, capacities)
	}
	return r
}

// Dock returns the dock at the given index.
func (r *Registry) Dock(idx int) *Dock {
	return r.docks[idx]
}

// Len returns the number of docks.
func (r *Registry) Len() int {
	return len(r.docks)
}

// All returns every dock, in ID order.
func (r *Registry) All() []*Dock {
	return r.docks
}

// FreeDocks returns every unoccupied dock, in ID order.
func (r *Registry) FreeDocks() []*Dock {
	out := make([]*Dock, 0, len(r.docks))
	for _, d := range r.docks {
		if !d.Occupied {
			out = append(out, d)
		}
	}
	return out
}

// Occupy assigns ship to dockIdx, asserting the category invariant
// (spec.md §3 invariant 4) and initializing the per-ship cargo mirror.
func (r *Registry) Occupy(dockIdx int, ship *fleet.Ship, currentTimestep int) error {
	d := r.docks[dockIdx]
	if d.Occupied {
		return fmt.Errorf("dock: dock %d is already occupied", d.ID)
	}
	if d.Category < ship.Category {
		return fmt.Errorf("dock: dock %d category %d cannot host ship category %d", d.ID, d.Category, ship.Category)
	}

	d.Occupied = true
	d.ShipID = ship.ID
	d.Direction = ship.Direction
	d.DockingTimestep = currentTimestep
	d.HasMovedCargo = false
	d.RemainingCargo = ship.NumCargo()
	d.RemainingCargoWeights = append([]int(nil), ship.CargoWeights...)
	return nil
}

// Release frees dockIdx and resets its transient fields (spec.md §4.C).
func (r *Registry) Release(dockIdx int) {
	d := r.docks[dockIdx]
	d.Occupied = false
	d.ShipID = 0
	d.Direction = 0
	d.DockingTimestep = 0
	d.LastCargoMovedTimestep = 0
	d.HasMovedCargo = false
	d.RemainingCargo = 0
	d.RemainingCargoWeights = nil
}

// BestDock returns the unoccupied dock with the smallest category that is
// still >= the ship's category, ties broken by smallest dock ID, or nil if
// none exists (spec.md §4.E "bestDock"). Docks are stored and scanned in ID
// order, so the first (and therefore smallest-ID) dock at the minimum
// qualifying category wins ties automatically.
func (r *Registry) BestDock(ship *fleet.Ship) *Dock {
	var best *Dock
	for _, d := range r.docks {
		if d.Occupied || d.Category < ship.Category {
			continue
		}
		if best == nil || d.Category < best.Category {
			best = d
		}
	}
	return best
}
