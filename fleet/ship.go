// Package fleet maintains the population of ships and their lifecycle
// state (spec.md §3, §4.B).
package fleet

import "math"

// Direction distinguishes inbound ships (arriving to be loaded/unloaded)
// from outbound ships (departing).
type Direction int

const (
	Inbound  Direction = 1
	Outbound Direction = -1
)

// Status is a ship's place in its lifecycle (spec.md §3 invariant 1).
type Status int

const (
	Waiting Status = iota
	Docked
	Serviced
)

// NoDeadline marks ships that are never subject to a deadline check:
// emergency inbound ships and all outbound ships.
const NoDeadline = math.MaxInt

// Ship is one vessel, identified by the pair (ID, Direction) — the same
// numeric ID may appear once inbound and once outbound as two distinct
// ships (spec.md §3 "Identity").
type Ship struct {
	ID              int
	Direction       Direction
	Category        int
	Emergency       bool // only meaningful when Direction == Inbound
	ArrivalTimestep int
	WaitingTime     int
	CargoWeights    []int
	Deadline        int // ArrivalTimestep + WaitingTime, or NoDeadline

	Status        Status
	DockID        int // meaningful only when Status == Docked
	RemainingCargo int
}

// Request is what the driver hands the core for one new or re-sent ship
// arrival (spec.md §6 ShipRequest).
type Request struct {
	ShipID      int
	Direction   Direction
	Category    int
	Emergency   bool
	Timestep    int
	WaitingTime int
	Cargo       []int
}

func newShipFromRequest(r Request) *Ship {
	s := &Ship{
		ID:              r.ShipID,
		Direction:       r.Direction,
		Category:        r.Category,
		Emergency:       r.Emergency,
		ArrivalTimestep: r.Timestep,
		WaitingTime:     r.WaitingTime,
		CargoWeights:    append([]int(nil), r.Cargo...),
		Status:          Waiting,
		RemainingCargo:  len(r.Cargo),
	}
	s.Deadline = deadlineFor(s)
	return s
}

func deadlineFor(s *Ship) int {
	if s.Direction == Inbound && !s.Emergency {
		return s.ArrivalTimestep + s.WaitingTime
	}
	return NoDeadline
}

// NumCargo returns the ship's total cargo unit count (fixed at arrival).
func (s *Ship) NumCargo() int {
	return len(s.CargoWeights)
}
