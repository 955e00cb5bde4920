// Package ipc defines the wire contract between the harbor scheduling core
// and the external driver/solver processes (spec.md §6), plus the
// implementations that speak it.
package ipc

// Main message queue discriminators (spec.md §6).
const (
	MsgTick         = 1 // driver -> core
	MsgDockShip     = 2 // core -> driver
	MsgUndockShip   = 3 // core -> driver
	MsgMoveCargo    = 4 // core -> driver
	MsgTickComplete = 5 // core -> driver
)

// Solver queue discriminators (spec.md §6).
const (
	SolverMsgSetDock = 1 // core -> solver
	SolverMsgGuess   = 2 // core -> solver
	SolverMsgReply   = 3 // solver -> core
)

// Solver response codes.
const (
	GuessWrong   = 0
	GuessCorrect = 1
	GuessAbort   = -1
)

// TickMessage is mtype=1: the driver telling the core a new timestep has
// started, optionally carrying new ship requests and the finish flag.
type TickMessage struct {
	Timestep         int
	NumShipRequests  int
	IsFinished       bool
}

// DockMessage is mtype=2: the core informs the driver that a ship has been
// docked.
type DockMessage struct {
	ShipID    int
	Direction int
	DockID    int
}

// UndockMessage is mtype=3: the core informs the driver that a ship has
// been released.
type UndockMessage struct {
	ShipID    int
	Direction int
	DockID    int
}

// CargoMoveMessage is mtype=4: the core informs the driver that one cargo
// unit has been moved by one crane.
type CargoMoveMessage struct {
	ShipID    int
	Direction int
	DockID    int
	CargoID   int
	CraneID   int
}

// ShipRequest mirrors the C ShipRequest record read from shared memory.
type ShipRequest struct {
	ShipID    int
	Timestep  int
	Category  int
	Direction int
	Emergency int
	// WaitingTime is only meaningful for non-emergency inbound ships.
	WaitingTime int
	NumCargo    int
	Cargo       []int
}

// SolverResponse is mtype=3 on a solver queue: the solver's verdict on the
// most recent guess.
type SolverResponse struct {
	GuessIsCorrect int // GuessWrong, GuessCorrect, or GuessAbort
}
