// Package priority implements the total order over unserviced ships used
// by the assignment engine (spec.md §4.D).
package priority

import (
	"sort"

	"github.com/safing/harbor/fleet"
)

// Less reports whether ship a has strictly higher dispatch priority than
// ship b. Serviced or already-docked ships sort to the end regardless of
// the remaining rules.
func Less(a, b *fleet.Ship) bool {
	aPending := a.Status == fleet.Waiting
	bPending := b.Status == fleet.Waiting
	if aPending != bPending {
		return aPending
	}
	if !aPending {
		// Neither is waiting; order among them is irrelevant.
		return false
	}

	if a.Emergency != b.Emergency {
		return a.Emergency
	}

	aInbound := a.Direction == fleet.Inbound
	bInbound := b.Direction == fleet.Inbound
	if aInbound && bInbound {
		if a.Deadline != b.Deadline {
			return a.Deadline < b.Deadline
		}
	} else if aInbound != bInbound {
		return aInbound
	}

	return a.ArrivalTimestep < b.ArrivalTimestep
}

// Sort returns a stable priority-ordered copy of ships, waiting ships
// first (per Less), without mutating the input slice.
func Sort(ships []*fleet.Ship) []*fleet.Ship {
	out := append([]*fleet.Ship(nil), ships...)
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}
