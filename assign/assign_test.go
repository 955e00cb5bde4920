package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/harbor/dock"
	"github.com/safing/harbor/fleet"
)

type recordingDocker struct {
	docked []docked
}

type docked struct {
	shipID    int
	direction fleet.Direction
	dockID    int
}

func (r *recordingDocker) SendDock(shipID int, direction fleet.Direction, dockID int) error {
	r.docked = append(r.docked, docked{shipID, direction, dockID})
	return nil
}

func TestEmergencyPassPreemptsDeadlineBoundShip(t *testing.T) {
	fleetReg := fleet.NewRegistry()
	a := fleetReg.Admit(fleet.Request{ShipID: 1, Direction: fleet.Inbound, Category: 1, Timestep: 0, WaitingTime: 20})
	b := fleetReg.Admit(fleet.Request{ShipID: 2, Direction: fleet.Inbound, Category: 1, Emergency: true, Timestep: 0})

	dockReg := dock.NewRegistry([][]int{{10}})
	out := &recordingDocker{}
	engine := New(fleetReg, dockReg, out)

	require.NoError(t, engine.EmergencyPass(0))

	assert.Equal(t, fleet.Docked, b.Status)
	assert.Equal(t, fleet.Waiting, a.Status)
	require.Len(t, out.docked, 1)
	assert.Equal(t, 2, out.docked[0].shipID)
}

func TestGeneralPassSkipsShipPastDeadline(t *testing.T) {
	fleetReg := fleet.NewRegistry()
	a := fleetReg.Admit(fleet.Request{ShipID: 1, Direction: fleet.Inbound, Category: 1, Timestep: 0, WaitingTime: 5})

	dockReg := dock.NewRegistry([][]int{{10}})
	out := &recordingDocker{}
	engine := New(fleetReg, dockReg, out)

	require.NoError(t, engine.GeneralPass(7))

	assert.Equal(t, fleet.Waiting, a.Status)
	assert.Empty(t, out.docked)
}

func TestGeneralPassDoesNotSkipAtExactDeadline(t *testing.T) {
	fleetReg := fleet.NewRegistry()
	a := fleetReg.Admit(fleet.Request{ShipID: 1, Direction: fleet.Inbound, Category: 1, Timestep: 0, WaitingTime: 5})

	dockReg := dock.NewRegistry([][]int{{10}})
	out := &recordingDocker{}
	engine := New(fleetReg, dockReg, out)

	require.NoError(t, engine.GeneralPass(5))

	assert.Equal(t, fleet.Docked, a.Status)
}

func TestGeneralPassInboundBeatsOutboundOnTie(t *testing.T) {
	fleetReg := fleet.NewRegistry()
	inbound := fleetReg.Admit(fleet.Request{ShipID: 1, Direction: fleet.Inbound, Category: 1, Timestep: 5, WaitingTime: 10})
	outbound := fleetReg.Admit(fleet.Request{ShipID: 2, Direction: fleet.Outbound, Category: 1, Timestep: 3})

	dockReg := dock.NewRegistry([][]int{{10}})
	out := &recordingDocker{}
	engine := New(fleetReg, dockReg, out)

	require.NoError(t, engine.GeneralPass(6))

	assert.Equal(t, fleet.Docked, inbound.Status)
	assert.Equal(t, fleet.Waiting, outbound.Status)
}

func TestBestDockRespectsCategoryFit(t *testing.T) {
	fleetReg := fleet.NewRegistry()
	s := fleetReg.Admit(fleet.Request{ShipID: 1, Direction: fleet.Outbound, Category: 2})

	dockReg := dock.NewRegistry([][]int{{10, 10, 10}, {10, 10}, {10, 10}})
	out := &recordingDocker{}
	engine := New(fleetReg, dockReg, out)

	require.NoError(t, engine.GeneralPass(0))

	assert.Equal(t, 1, s.DockID)
}
