//go:build linux

package ipc

import "unsafe"

// shmShipRequest mirrors the C ShipRequest record exactly (field order and
// widths matter: this is read directly out of raw shared memory).
type shmShipRequest struct {
	ShipID      int32
	Timestep    int32
	Category    int32
	Direction   int32
	Emergency   int32
	WaitingTime int32
	NumCargo    int32
	Cargo       [MaxCargoCount]int32
}

func (r *shmShipRequest) decode() ShipRequest {
	n := int(r.NumCargo)
	if n > MaxCargoCount {
		n = MaxCargoCount
	}
	cargo := make([]int, n)
	for i := 0; i < n; i++ {
		cargo[i] = int(r.Cargo[i])
	}
	return ShipRequest{
		ShipID:      int(r.ShipID),
		Timestep:    int(r.Timestep),
		Category:    int(r.Category),
		Direction:   int(r.Direction),
		Emergency:   int(r.Emergency),
		WaitingTime: int(r.WaitingTime),
		NumCargo:    n,
		Cargo:       cargo,
	}
}

const (
	shmAuthStringsSize  = uintptr(MaxDocks * MaxAuthStringLen)
	shmShipRequestSize  = unsafe.Sizeof(shmShipRequest{})
	shmSharedMemorySize = shmAuthStringsSize + uintptr(MaxNewRequests)*shmShipRequestSize
)

// SharedMemorySize is the byte size the driver must allocate for the shared
// memory segment, mirroring sizeof(MainSharedMemory) in the C source.
func SharedMemorySize() int {
	return int(shmSharedMemorySize)
}
