// Package dock maintains dock occupancy, crane inventory, and per-dock
// cargo state (spec.md §3, §4.C).
package dock

import "github.com/safing/harbor/fleet"

// Dock is one berth: a fixed category (== number of cranes) and crane
// capacities, plus transient occupancy state.
type Dock struct {
	ID               int
	Category         int
	CraneCapacities  []int

	Occupied bool
	// The following are only meaningful while Occupied.
	ShipID                 int
	Direction              fleet.Direction
	DockingTimestep        int
	LastCargoMovedTimestep int
	HasMovedCargo          bool // distinguishes "never moved" from moved-at-timestep-0
	RemainingCargo         int
	RemainingCargoWeights  []int

	// CraneUsed is reset to all-false at the start of every tick (spec.md
	// §3 Crane: "usage is tracked by a per-tick bitmap").
	CraneUsed []bool
}

// New returns an unoccupied dock with the given category and crane
// capacities (category == len(craneCapacities) per spec.md §3).
func New(id int, craneCapacities []int) *Dock {
	return &Dock{
		ID:              id,
		Category:        len(craneCapacities),
		CraneCapacities: append([]int(nil), craneCapacities...),
		CraneUsed:       make([]bool, len(craneCapacities)),
	}
}

// ResetTick clears the per-tick crane-usage bitmap (spec.md §4.H).
func (d *Dock) ResetTick() {
	for i := range d.CraneUsed {
		d.CraneUsed[i] = false
	}
}
