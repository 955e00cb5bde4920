package fleet

import "fmt"

// Registry holds every ship the core has ever admitted. It never shrinks:
// serviced ships stay in place as the retention marker (spec.md §4.B).
type Registry struct {
	ships []*Ship
}

// NewRegistry returns an empty fleet registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Admit is an idempotent upsert keyed by (ShipID, Direction), restricted to
// non-serviced rows: a request matching a still-unserviced ship updates it
// in place (supporting driver-side retransmission of the same arrival);
// otherwise a new record is appended, even if a serviced ship with the same
// ID and direction already exists (spec.md §4.B, §9 "duplicate ship
// admission").
func (r *Registry) Admit(req Request) *Ship {
	for _, s := range r.ships {
		if s.ID == req.ShipID && s.Direction == req.Direction && s.Status != Serviced {
			s.Category = req.Category
			s.Emergency = req.Emergency
			s.ArrivalTimestep = req.Timestep
			s.WaitingTime = req.WaitingTime
			s.CargoWeights = append([]int(nil), req.Cargo...)
			s.RemainingCargo = len(req.Cargo)
			s.Deadline = deadlineFor(s)
			return s
		}
	}

	s := newShipFromRequest(req)
	r.ships = append(r.ships, s)
	return s
}

// FindByIDDir returns the single active (non-serviced, or the most
// recently admitted) record for (shipID, direction), or nil.
func (r *Registry) FindByIDDir(shipID int, direction Direction) *Ship {
	var found *Ship
	for _, s := range r.ships {
		if s.ID == shipID && s.Direction == direction {
			found = s
			if s.Status != Serviced {
				return s
			}
		}
	}
	return found
}

// MarkDocked transitions a ship to Docked at the given dock.
func (r *Registry) MarkDocked(s *Ship, dockID int) {
	s.Status = Docked
	s.DockID = dockID
}

// MarkServiced transitions a ship to the terminal Serviced state.
func (r *Registry) MarkServiced(s *Ship) {
	s.Status = Serviced
}

// All returns the live backing slice. Callers must not retain it across a
// call to Admit, which may append and invalidate prior slice headers.
func (r *Registry) All() []*Ship {
	return r.ships
}

// Unserviced returns every ship not yet in the terminal Serviced state, in
// registry order.
func (r *Registry) Unserviced() []*Ship {
	out := make([]*Ship, 0, len(r.ships))
	for _, s := range r.ships {
		if s.Status != Serviced {
			out = append(out, s)
		}
	}
	return out
}

// Waiting returns every ship in the Waiting state, in registry order.
func (r *Registry) Waiting() []*Ship {
	out := make([]*Ship, 0, len(r.ships))
	for _, s := range r.ships {
		if s.Status == Waiting {
			out = append(out, s)
		}
	}
	return out
}

// String supports debugging/log output.
func (s *Ship) String() string {
	return fmt.Sprintf("ship{id=%d dir=%d cat=%d status=%d dock=%d}", s.ID, s.Direction, s.Category, s.Status, s.DockID)
}
