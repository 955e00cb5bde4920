// Package metrics is a thin wrapper over github.com/VictoriaMetrics/metrics,
// adapted from the teacher's base/metrics package but without its
// persistence, API, and config-option machinery (that exists to survive
// metrics across process restarts, explicitly a Non-goal here per
// SPEC_FULL.md).
package metrics

import (
	"io"

	vm "github.com/VictoriaMetrics/metrics"
)

var set = vm.NewSet()

// Counters tracked for the harbor scheduling core (spec.md §2 AMBIENT STACK).
var (
	TicksProcessed  = set.NewCounter("harbor_ticks_processed_total")
	ShipsAdmitted   = set.NewCounter("harbor_ships_admitted_total")
	DocksOccupied   = set.NewCounter("harbor_docks_occupied_total")
	AuthAttempts    = set.NewCounter("harbor_auth_attempts_total")
	AuthSuccesses   = set.NewCounter("harbor_auth_successes_total")
	CargoMoves      = set.NewCounter("harbor_cargo_moves_total")
	ShipsServiced   = set.NewCounter("harbor_ships_serviced_total")
)

// WritePrometheus writes every registered metric in Prometheus exposition
// format, mirroring the teacher's debug /metrics endpoint.
func WritePrometheus(w io.Writer) {
	set.WritePrometheus(w)
}
