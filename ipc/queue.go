package ipc

import "context"

// MainQueue is the core's end of the main message queue (spec.md §6). The
// core only ever receives mtype=1 and only ever sends mtype=2..5, and the
// send ordering within a tick (dock* < cargo-move* < undock* < tick-complete)
// is the caller's responsibility — see timestep.Driver.
type MainQueue interface {
	// RecvTick blocks until the driver sends the next tick message.
	RecvTick(ctx context.Context) (TickMessage, error)

	SendDock(ctx context.Context, msg DockMessage) error
	SendUndock(ctx context.Context, msg UndockMessage) error
	SendCargoMove(ctx context.Context, msg CargoMoveMessage) error
	SendTickComplete(ctx context.Context) error
}

// SolverQueue is the core's end of one solver worker's message queue
// (spec.md §6).
type SolverQueue interface {
	// SetDock tells the solver which dock the coming guesses are for.
	SetDock(ctx context.Context, dockID int) error

	// Guess sends one candidate authentication string and blocks for the
	// solver's verdict.
	Guess(ctx context.Context, candidate string) (SolverResponse, error)
}

// SharedMemory is the core's view of the shared memory segment (spec.md
// §6): the driver writes newShipRequests, the core writes authStrings.
type SharedMemory interface {
	// ReadNewShipRequests returns the first n ship requests currently
	// staged by the driver.
	ReadNewShipRequests(n int) ([]ShipRequest, error)

	// WriteAuthString writes the winning authentication string into the
	// dock's slot. It is only ever called once per dock release, after all
	// solver workers for that dock have quiesced (spec.md §5).
	WriteAuthString(dockID int, value string) error
}

// Compile-time limits from spec.md §6.
const (
	MaxDocks         = 30
	MaxCargoCount    = 200
	MaxAuthStringLen = 100
	MaxNewRequests   = 100
	MaxShips         = 1100
	MaxSolvers       = 8
	MaxCranes        = 25
)
