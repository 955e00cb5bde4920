package dock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/harbor/fleet"
)

func TestBestDockPrefersTightestCategoryThenSmallestID(t *testing.T) {
	r := NewRegistry([][]int{
		{10, 5, 7}, // dock 0, category 3
		{10, 10},   // dock 1, category 2
		{10, 10},   // dock 2, category 2 (tie with dock 1)
	})
	ship := &fleet.Ship{Category: 2}

	best := r.BestDock(ship)
	require.NotNil(t, best)
	assert.Equal(t, 1, best.ID)
}

func TestBestDockReturnsNilWhenNoneQualify(t *testing.T) {
	r := NewRegistry([][]int{{1, 1}})
	ship := &fleet.Ship{Category: 3}

	assert.Nil(t, r.BestDock(ship))
}

func TestBestDockSkipsOccupiedDocks(t *testing.T) {
	r := NewRegistry([][]int{{1}, {1}})
	ship := &fleet.Ship{ID: 1, Category: 1}
	require.NoError(t, r.Occupy(0, ship, 0))

	best := r.BestDock(ship)
	require.NotNil(t, best)
	assert.Equal(t, 1, best.ID)
}

func TestOccupyRejectsUndersizedDock(t *testing.T) {
	r := NewRegistry([][]int{{1}})
	ship := &fleet.Ship{ID: 1, Category: 5}

	err := r.Occupy(0, ship, 0)
	assert.Error(t, err)
}

func TestOccupyInitializesCargoMirrorAndRelease(t *testing.T) {
	r := NewRegistry([][]int{{10, 10}})
	ship := &fleet.Ship{ID: 1, Category: 1, CargoWeights: []int{3, 4, 5}}

	require.NoError(t, r.Occupy(0, ship, 7))
	d := r.Dock(0)
	assert.True(t, d.Occupied)
	assert.Equal(t, 7, d.DockingTimestep)
	assert.Equal(t, 3, d.RemainingCargo)
	assert.Equal(t, []int{3, 4, 5}, d.RemainingCargoWeights)

	r.Release(0)
	assert.False(t, d.Occupied)
	assert.Nil(t, d.RemainingCargoWeights)
	assert.Equal(t, 0, d.RemainingCargo)
}

func TestResetTickClearsCraneUsage(t *testing.T) {
	d := New(0, []int{1, 2, 3})
	d.CraneUsed[1] = true
	d.ResetTick()
	assert.Equal(t, []bool{false, false, false}, d.CraneUsed)
}
