package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safing/harbor/fleet"
)

func waitingShip(id int, dir fleet.Direction, emergency bool, deadline, arrival int) *fleet.Ship {
	return &fleet.Ship{
		ID:              id,
		Direction:       dir,
		Emergency:       emergency,
		Deadline:        deadline,
		ArrivalTimestep: arrival,
		Status:          fleet.Waiting,
	}
}

func TestEmergencyBeatsEverything(t *testing.T) {
	emergency := waitingShip(1, fleet.Inbound, true, fleet.NoDeadline, 100)
	deadlineBound := waitingShip(2, fleet.Inbound, false, 1, 0)

	assert.True(t, Less(emergency, deadlineBound))
	assert.False(t, Less(deadlineBound, emergency))
}

func TestEarlierDeadlineWinsAmongInbound(t *testing.T) {
	soon := waitingShip(1, fleet.Inbound, false, 5, 0)
	later := waitingShip(2, fleet.Inbound, false, 20, 0)

	assert.True(t, Less(soon, later))
}

func TestInboundBeatsOutboundOnDeadlineTie(t *testing.T) {
	inbound := waitingShip(1, fleet.Inbound, false, 15, 5)
	outbound := waitingShip(2, fleet.Outbound, false, fleet.NoDeadline, 3)

	assert.True(t, Less(inbound, outbound))
}

func TestEarlierArrivalWinsAsFinalTiebreak(t *testing.T) {
	early := waitingShip(1, fleet.Outbound, false, fleet.NoDeadline, 1)
	late := waitingShip(2, fleet.Outbound, false, fleet.NoDeadline, 5)

	assert.True(t, Less(early, late))
}

func TestDockedAndServicedSortLast(t *testing.T) {
	docked := waitingShip(1, fleet.Inbound, true, fleet.NoDeadline, 0)
	docked.Status = fleet.Docked
	waiting := waitingShip(2, fleet.Inbound, false, 100, 50)

	assert.True(t, Less(waiting, docked))
	assert.False(t, Less(docked, waiting))
}

func TestSortOrdersByAllRulesAndIsStable(t *testing.T) {
	serviced := waitingShip(5, fleet.Inbound, true, fleet.NoDeadline, 0)
	serviced.Status = fleet.Serviced
	emergency := waitingShip(1, fleet.Inbound, true, fleet.NoDeadline, 10)
	earlyDeadline := waitingShip(2, fleet.Inbound, false, 5, 1)
	lateDeadline := waitingShip(3, fleet.Inbound, false, 50, 1)
	outbound := waitingShip(4, fleet.Outbound, false, fleet.NoDeadline, 0)

	sorted := Sort([]*fleet.Ship{lateDeadline, serviced, outbound, earlyDeadline, emergency})

	assert.Equal(t, []*fleet.Ship{emergency, earlyDeadline, lateDeadline, outbound, serviced}, sorted)
}
