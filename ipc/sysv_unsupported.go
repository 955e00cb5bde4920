//go:build !linux

package ipc

import (
	"context"
	"errors"
	"runtime"
)

// ErrUnsupportedPlatform is returned by the System V IPC backend on any
// OS other than Linux, mirroring the teacher's per-OS split
// (base/log/formatting_unix.go vs formatting_windows.go) for a backend
// that is inherently Linux-only (System V message queues and shared
// memory are a Linux/POSIX facility, not available on Windows/macOS
// through golang.org/x/sys/unix the way this core needs).
var ErrUnsupportedPlatform = errors.New("ipc: sysv backend unsupported on " + runtime.GOOS)

type SysvMainQueue struct{}

func OpenSysvMainQueue(key int) (*SysvMainQueue, error) {
	return nil, ErrUnsupportedPlatform
}

func (*SysvMainQueue) RecvTick(ctx context.Context) (TickMessage, error) {
	return TickMessage{}, ErrUnsupportedPlatform
}
func (*SysvMainQueue) SendDock(ctx context.Context, msg DockMessage) error {
	return ErrUnsupportedPlatform
}
func (*SysvMainQueue) SendUndock(ctx context.Context, msg UndockMessage) error {
	return ErrUnsupportedPlatform
}
func (*SysvMainQueue) SendCargoMove(ctx context.Context, msg CargoMoveMessage) error {
	return ErrUnsupportedPlatform
}
func (*SysvMainQueue) SendTickComplete(ctx context.Context) error {
	return ErrUnsupportedPlatform
}

type SysvSolverQueue struct{}

func OpenSysvSolverQueue(key int) (*SysvSolverQueue, error) {
	return nil, ErrUnsupportedPlatform
}

func (*SysvSolverQueue) SetDock(ctx context.Context, dockID int) error {
	return ErrUnsupportedPlatform
}
func (*SysvSolverQueue) Guess(ctx context.Context, candidate string) (SolverResponse, error) {
	return SolverResponse{}, ErrUnsupportedPlatform
}

type SysvSharedMemory struct{}

func OpenSysvSharedMemory(key, size int) (*SysvSharedMemory, error) {
	return nil, ErrUnsupportedPlatform
}

func (*SysvSharedMemory) Detach() error { return ErrUnsupportedPlatform }
func (*SysvSharedMemory) ReadNewShipRequests(n int) ([]ShipRequest, error) {
	return nil, ErrUnsupportedPlatform
}
func (*SysvSharedMemory) WriteAuthString(dockID int, value string) error {
	return ErrUnsupportedPlatform
}

// SharedMemorySize returns the fixed shared-memory segment size (spec.md
// §6). Defined here too so callers on non-Linux can still compute it
// without a build-tag branch of their own.
func SharedMemorySize() int {
	return MaxDocks*MaxAuthStringLen + MaxNewRequests*shipRequestSizeUnsupported()
}

func shipRequestSizeUnsupported() int {
	// 7 int32 scalar fields + MaxCargoCount int32 cargo entries, matching
	// shmShipRequest's layout in sharedmem_layout.go.
	return (7 + MaxCargoCount) * 4
}
