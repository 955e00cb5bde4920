//go:build linux

package ipc

import (
	"context"
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// sysvMsgBuf mirrors the C MessageStruct layout, including the leading
// long mtype that msgsnd/msgrcv expect at the start of the buffer (the size
// passed to them excludes it).
// golang.org/x/sys/unix does not expose msgget/msgsnd/msgrcv directly (there
// is no higher-level wrapper for System V message queues the way there is
// for shared memory), so we go through the raw syscall numbers it does
// export. This is the standard way Go programs reach System V IPC absent a
// dedicated package, and is the only third-party surface in the retrieved
// corpus that touches this corner of the kernel at all.
type sysvMsgBuf struct {
	Mtype            int64
	Timestep         int32
	ShipID           int32
	Direction        int32
	DockID           int32
	CargoID          int32
	IsFinished       int32
	NumShipOrCraneID int32
}

// SysvMainQueue is the production MainQueue backed by a real System V
// message queue.
type SysvMainQueue struct {
	id int
}

// OpenSysvMainQueue attaches to a pre-existing message queue identified by
// key (created externally by the harness, per spec.md §6 — raw key/channel
// setup is out of scope for the core).
func OpenSysvMainQueue(key int) (*SysvMainQueue, error) {
	id, err := msgget(key, 0o666)
	if err != nil {
		return nil, fmt.Errorf("ipc: open main queue: %w", err)
	}
	return &SysvMainQueue{id: id}, nil
}

func (q *SysvMainQueue) RecvTick(ctx context.Context) (TickMessage, error) {
	var buf sysvMsgBuf
	if err := msgrcvCtx(ctx, q.id, &buf, MsgTick); err != nil {
		return TickMessage{}, fmt.Errorf("ipc: recv tick: %w", err)
	}
	return TickMessage{
		Timestep:        int(buf.Timestep),
		NumShipRequests: int(buf.NumShipOrCraneID),
		IsFinished:      buf.IsFinished != 0,
	}, nil
}

func (q *SysvMainQueue) SendDock(_ context.Context, msg DockMessage) error {
	buf := sysvMsgBuf{
		Mtype:     MsgDockShip,
		ShipID:    int32(msg.ShipID),
		Direction: int32(msg.Direction),
		DockID:    int32(msg.DockID),
	}
	return wrapSend("dock", msgsnd(q.id, &buf))
}

func (q *SysvMainQueue) SendUndock(_ context.Context, msg UndockMessage) error {
	buf := sysvMsgBuf{
		Mtype:     MsgUndockShip,
		ShipID:    int32(msg.ShipID),
		Direction: int32(msg.Direction),
		DockID:    int32(msg.DockID),
	}
	return wrapSend("undock", msgsnd(q.id, &buf))
}

func (q *SysvMainQueue) SendCargoMove(_ context.Context, msg CargoMoveMessage) error {
	buf := sysvMsgBuf{
		Mtype:            MsgMoveCargo,
		ShipID:           int32(msg.ShipID),
		Direction:        int32(msg.Direction),
		DockID:           int32(msg.DockID),
		CargoID:          int32(msg.CargoID),
		NumShipOrCraneID: int32(msg.CraneID),
	}
	return wrapSend("cargo move", msgsnd(q.id, &buf))
}

func (q *SysvMainQueue) SendTickComplete(_ context.Context) error {
	buf := sysvMsgBuf{Mtype: MsgTickComplete}
	return wrapSend("tick complete", msgsnd(q.id, &buf))
}

func wrapSend(what string, err error) error {
	if err != nil {
		return fmt.Errorf("ipc: send %s: %w", what, err)
	}
	return nil
}

// sysvGuessBuf mirrors SolverRequest; sysvReplyBuf mirrors SolverResponse.
type sysvGuessBuf struct {
	Mtype   int64
	DockID  int32
	Guess   [MaxAuthStringLen]byte
}

type sysvReplyBuf struct {
	Mtype          int64
	GuessIsCorrect int32
}

// SysvSolverQueue is the production SolverQueue backed by a real System V
// message queue, one per solver worker.
type SysvSolverQueue struct {
	id int
}

// OpenSysvSolverQueue attaches to the solver's pre-existing message queue.
func OpenSysvSolverQueue(key int) (*SysvSolverQueue, error) {
	id, err := msgget(key, 0o666)
	if err != nil {
		return nil, fmt.Errorf("ipc: open solver queue: %w", err)
	}
	return &SysvSolverQueue{id: id}, nil
}

func (q *SysvSolverQueue) SetDock(_ context.Context, dockID int) error {
	buf := sysvGuessBuf{Mtype: SolverMsgSetDock, DockID: int32(dockID)}
	return wrapSend("solver set-dock", msgsndRaw(q.id, unsafe.Pointer(&buf), unsafe.Sizeof(buf)-8))
}

func (q *SysvSolverQueue) Guess(ctx context.Context, candidate string) (SolverResponse, error) {
	var guess sysvGuessBuf
	guess.Mtype = SolverMsgGuess
	copy(guess.Guess[:], candidate)
	if err := msgsndRaw(q.id, unsafe.Pointer(&guess), unsafe.Sizeof(guess)-8); err != nil {
		return SolverResponse{}, fmt.Errorf("ipc: send guess: %w", err)
	}

	var reply sysvReplyBuf
	if err := msgrcvCtx(ctx, q.id, &reply, SolverMsgReply); err != nil {
		return SolverResponse{}, fmt.Errorf("ipc: recv solver reply: %w", err)
	}
	return SolverResponse{GuessIsCorrect: int(reply.GuessIsCorrect)}, nil
}

// msgget/msgsnd/msgrcv wrap the raw syscalls; x/sys/unix exports the
// syscall numbers (SYS_MSGGET et al.) but not typed helpers for them.
func msgget(key, flag int) (int, error) {
	id, _, errno := unix.Syscall(unix.SYS_MSGGET, uintptr(key), uintptr(flag), 0)
	if errno != 0 {
		return 0, errno
	}
	return int(id), nil
}

func msgsnd(id int, buf *sysvMsgBuf) error {
	return msgsndRaw(id, unsafe.Pointer(buf), unsafe.Sizeof(*buf)-8)
}

func msgsndRaw(id int, buf unsafe.Pointer, size uintptr) error {
	_, _, errno := unix.Syscall6(unix.SYS_MSGSND, uintptr(id), uintptr(buf), size, 0, 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// msgrcvCtx blocks on msgrcv for a message of the given mtype, honoring
// ctx cancellation by polling with IPC_NOWAIT on a short interval — the
// raw syscall interface gives us no native way to interrupt a blocking
// msgrcv from another goroutine.
func msgrcvCtx(ctx context.Context, id int, buf interface{}, mtype int64) error {
	var (
		ptr  unsafe.Pointer
		size uintptr
	)
	switch v := buf.(type) {
	case *sysvMsgBuf:
		ptr, size = unsafe.Pointer(v), unsafe.Sizeof(*v)-8
	case *sysvReplyBuf:
		ptr, size = unsafe.Pointer(v), unsafe.Sizeof(*v)-8
	default:
		return fmt.Errorf("ipc: unsupported message buffer type %T", buf)
	}

	for {
		_, _, errno := unix.Syscall6(unix.SYS_MSGRCV, uintptr(id), uintptr(ptr), size, uintptr(mtype), unix.IPC_NOWAIT, 0)
		switch errno {
		case 0:
			return nil
		case unix.ENOMSG:
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Millisecond):
			}
		default:
			return errno
		}
	}
}

// SysvSharedMemory maps the fixed-layout MainSharedMemory segment
// (authStrings + newShipRequests) via SysV shm, using x/sys/unix's
// Sysv Shm* helpers directly.
type SysvSharedMemory struct {
	id   int
	addr uintptr
}

// OpenSysvSharedMemory attaches to a pre-existing shared memory segment.
func OpenSysvSharedMemory(key, size int) (*SysvSharedMemory, error) {
	id, err := unix.SysvShmGet(key, size, 0o666)
	if err != nil {
		return nil, fmt.Errorf("ipc: shmget: %w", err)
	}
	addr, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("ipc: shmat: %w", err)
	}
	return &SysvSharedMemory{id: id, addr: addr}, nil
}

// Detach detaches from the segment; the driver owns destroying it.
func (s *SysvSharedMemory) Detach() error {
	return unix.SysvShmDetach(s.addr)
}

func (s *SysvSharedMemory) ReadNewShipRequests(n int) ([]ShipRequest, error) {
	if n > MaxNewRequests {
		n = MaxNewRequests
	}
	out := make([]ShipRequest, 0, n)
	for i := 0; i < n; i++ {
		rec := (*shmShipRequest)(unsafe.Pointer(s.addr + uintptr(i)*shmShipRequestSize + shmAuthStringsSize))
		out = append(out, rec.decode())
	}
	return out, nil
}

func (s *SysvSharedMemory) WriteAuthString(dockID int, value string) error {
	if dockID < 0 || dockID >= MaxDocks {
		return fmt.Errorf("ipc: dock id %d out of range", dockID)
	}
	slot := (*[MaxAuthStringLen]byte)(unsafe.Pointer(s.addr + uintptr(dockID)*MaxAuthStringLen))
	clear(slot[:])
	copy(slot[:], value)
	return nil
}
