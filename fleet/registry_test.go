package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmitIdempotentOnUnservicedShip(t *testing.T) {
	r := NewRegistry()
	req := Request{ShipID: 1, Direction: Inbound, Category: 2, Timestep: 0, WaitingTime: 10, Cargo: []int{3, 4}}

	s1 := r.Admit(req)
	s2 := r.Admit(req)

	require.Same(t, s1, s2, "admit should update in place, not append")
	assert.Len(t, r.All(), 1)
}

func TestAdmitAppendsNewRecordAfterServicing(t *testing.T) {
	r := NewRegistry()
	req := Request{ShipID: 1, Direction: Inbound, Category: 1, Cargo: []int{1}}

	first := r.Admit(req)
	r.MarkServiced(first)

	second := r.Admit(req)
	require.NotSame(t, first, second)
	assert.Len(t, r.All(), 2)
}

func TestSameIDOppositeDirectionIsDistinctShip(t *testing.T) {
	r := NewRegistry()
	in := r.Admit(Request{ShipID: 7, Direction: Inbound, Category: 1})
	out := r.Admit(Request{ShipID: 7, Direction: Outbound, Category: 1})

	assert.NotSame(t, in, out)
	assert.Len(t, r.All(), 2)
}

func TestDeadlineComputation(t *testing.T) {
	r := NewRegistry()

	nonEmergency := r.Admit(Request{ShipID: 1, Direction: Inbound, Timestep: 5, WaitingTime: 10})
	assert.Equal(t, 15, nonEmergency.Deadline)

	emergency := r.Admit(Request{ShipID: 2, Direction: Inbound, Emergency: true, Timestep: 5, WaitingTime: 10})
	assert.Equal(t, NoDeadline, emergency.Deadline)

	outbound := r.Admit(Request{ShipID: 3, Direction: Outbound, Timestep: 5, WaitingTime: 10})
	assert.Equal(t, NoDeadline, outbound.Deadline)
}

func TestFindByIDDir(t *testing.T) {
	r := NewRegistry()
	s := r.Admit(Request{ShipID: 42, Direction: Inbound})

	found := r.FindByIDDir(42, Inbound)
	require.NotNil(t, found)
	assert.Same(t, s, found)

	assert.Nil(t, r.FindByIDDir(42, Outbound))
}

func TestMarkDockedAndServiced(t *testing.T) {
	r := NewRegistry()
	s := r.Admit(Request{ShipID: 1, Direction: Inbound})

	r.MarkDocked(s, 3)
	assert.Equal(t, Docked, s.Status)
	assert.Equal(t, 3, s.DockID)

	r.MarkServiced(s)
	assert.Equal(t, Serviced, s.Status)
}

func TestWaitingAndUnservicedFilters(t *testing.T) {
	r := NewRegistry()
	a := r.Admit(Request{ShipID: 1, Direction: Inbound})
	b := r.Admit(Request{ShipID: 2, Direction: Inbound})
	r.MarkDocked(b, 0)
	c := r.Admit(Request{ShipID: 3, Direction: Inbound})
	r.MarkServiced(c)

	assert.ElementsMatch(t, []*Ship{a}, r.Waiting())
	assert.ElementsMatch(t, []*Ship{a, b}, r.Unserviced())
}
