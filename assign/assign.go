// Package assign implements the emergency and general assignment passes
// that dock ships (spec.md §4.E).
package assign

import (
	"github.com/safing/harbor/base/metrics"
	"github.com/safing/harbor/dock"
	"github.com/safing/harbor/fleet"
	"github.com/safing/harbor/priority"
)

// Docker is the effect a successful assignment has on the outside world:
// sending the dock message on the main queue. Kept as a narrow interface
// so the engine doesn't depend on the IPC package directly.
type Docker interface {
	SendDock(shipID int, direction fleet.Direction, dockID int) error
}

// Engine runs the two assignment passes against a fleet and dock registry.
type Engine struct {
	Fleet *fleet.Registry
	Docks *dock.Registry
	Out   Docker
}

// New returns an assignment engine wired to the given registries.
func New(fleetRegistry *fleet.Registry, dockRegistry *dock.Registry, out Docker) *Engine {
	return &Engine{Fleet: fleetRegistry, Docks: dockRegistry, Out: out}
}

// EmergencyPass docks every unserviced, undocked, inbound, emergency ship
// in registry order that has an available dock. Deadlines never apply.
func (e *Engine) EmergencyPass(currentTimestep int) error {
	for _, s := range e.Fleet.All() {
		if s.Status != fleet.Waiting || s.Direction != fleet.Inbound || !s.Emergency {
			continue
		}
		if err := e.tryDock(s, currentTimestep); err != nil {
			return err
		}
	}
	return nil
}

// GeneralPass sorts unserviced ships by priority.Less and docks each in
// turn, skipping non-emergency inbound ships past their deadline.
func (e *Engine) GeneralPass(currentTimestep int) error {
	for _, s := range priority.Sort(e.Fleet.Unserviced()) {
		if s.Status != fleet.Waiting {
			continue
		}
		if s.Direction == fleet.Inbound && !s.Emergency && currentTimestep > s.Deadline {
			continue
		}
		if err := e.tryDock(s, currentTimestep); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) tryDock(s *fleet.Ship, currentTimestep int) error {
	best := e.Docks.BestDock(s)
	if best == nil {
		return nil
	}
	// Dock IDs are assigned in registry order at construction (dock.NewRegistry),
	// so a dock's ID doubles as its slice index.
	if err := e.Docks.Occupy(best.ID, s, currentTimestep); err != nil {
		return err
	}
	e.Fleet.MarkDocked(s, best.ID)
	metrics.DocksOccupied.Inc()
	return e.Out.SendDock(s.ID, s.Direction, best.ID)
}
