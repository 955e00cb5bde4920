package ipc

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by fake queue operations after Close has been
// called, standing in for a lost connection to the external process.
var ErrClosed = errors.New("ipc: queue closed")

// FakeMainQueue is an in-process stand-in for the driver's end of the main
// message queue, used by tests in place of a real System V queue. It is
// grounded on the teacher's ships.NewTestShip pattern (spn/ships): a
// duplex, in-memory transport that exercises the exact same interface the
// real IPC backend does.
type FakeMainQueue struct {
	ticks chan TickMessage

	mu     sync.Mutex
	closed bool

	Docked   []DockMessage
	Undocked []UndockMessage
	Moved    []CargoMoveMessage
	Acks     int
}

// NewFakeMainQueue returns a ready-to-use fake main queue with no buffered
// ticks; call PushTick to enqueue one before RecvTick is called.
func NewFakeMainQueue() *FakeMainQueue {
	return &FakeMainQueue{
		ticks: make(chan TickMessage, MaxNewRequests),
	}
}

// PushTick enqueues a tick message as if sent by the driver.
func (f *FakeMainQueue) PushTick(msg TickMessage) {
	f.ticks <- msg
}

func (f *FakeMainQueue) RecvTick(ctx context.Context) (TickMessage, error) {
	select {
	case msg, ok := <-f.ticks:
		if !ok {
			return TickMessage{}, ErrClosed
		}
		return msg, nil
	case <-ctx.Done():
		return TickMessage{}, ctx.Err()
	}
}

func (f *FakeMainQueue) SendDock(_ context.Context, msg DockMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.Docked = append(f.Docked, msg)
	return nil
}

func (f *FakeMainQueue) SendUndock(_ context.Context, msg UndockMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.Undocked = append(f.Undocked, msg)
	return nil
}

func (f *FakeMainQueue) SendCargoMove(_ context.Context, msg CargoMoveMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.Moved = append(f.Moved, msg)
	return nil
}

func (f *FakeMainQueue) SendTickComplete(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.Acks++
	return nil
}

// Close marks the fake queue as closed; further sends return ErrClosed and
// a pending RecvTick unblocks with it too.
func (f *FakeMainQueue) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.ticks)
}

// FakeSolverQueue is an in-process stand-in for one solver worker. Replies
// are computed by a caller-supplied function, so tests can plant the
// correct key at a known index.
type FakeSolverQueue struct {
	Reply func(dockID int, candidate string) SolverResponse

	mu      sync.Mutex
	dockID  int
	guesses []string
}

// NewFakeSolverQueue returns a fake solver queue that replies correctly
// only for the given wantDockID/wantString pair, and wrong otherwise.
func NewFakeSolverQueue(wantDockID int, wantString string) *FakeSolverQueue {
	return &FakeSolverQueue{
		Reply: func(dockID int, candidate string) SolverResponse {
			if dockID == wantDockID && candidate == wantString {
				return SolverResponse{GuessIsCorrect: GuessCorrect}
			}
			return SolverResponse{GuessIsCorrect: GuessWrong}
		},
	}
}

func (f *FakeSolverQueue) SetDock(_ context.Context, dockID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dockID = dockID
	return nil
}

func (f *FakeSolverQueue) Guess(_ context.Context, candidate string) (SolverResponse, error) {
	f.mu.Lock()
	dockID := f.dockID
	f.guesses = append(f.guesses, candidate)
	f.mu.Unlock()
	return f.Reply(dockID, candidate), nil
}

// Guesses returns a copy of every candidate string sent to this worker, in
// order. Useful for asserting that cancellation actually stopped the
// search early (spec.md §8, scenario 5).
func (f *FakeSolverQueue) Guesses() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.guesses))
	copy(out, f.guesses)
	return out
}

// MemorySharedMemory is an in-process fake of the shared-memory segment.
type MemorySharedMemory struct {
	mu          sync.Mutex
	newRequests []ShipRequest
	authStrings map[int]string
}

// NewMemorySharedMemory returns a fake shared memory segment staged with
// the given ship requests (as if the driver had just written them).
func NewMemorySharedMemory(staged []ShipRequest) *MemorySharedMemory {
	return &MemorySharedMemory{
		newRequests: staged,
		authStrings: make(map[int]string),
	}
}

func (m *MemorySharedMemory) ReadNewShipRequests(n int) ([]ShipRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.newRequests) {
		n = len(m.newRequests)
	}
	out := make([]ShipRequest, n)
	copy(out, m.newRequests[:n])
	return out, nil
}

func (m *MemorySharedMemory) WriteAuthString(dockID int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authStrings[dockID] = value
	return nil
}

// AuthString returns the string written for the given dock, for assertions.
func (m *MemorySharedMemory) AuthString(dockID int) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.authStrings[dockID]
	return v, ok
}

// Stage replaces the staged new-ship-request table, as if the driver had
// written a fresh batch for the next tick.
func (m *MemorySharedMemory) Stage(requests []ShipRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.newRequests = requests
}
