package order_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
)

func TestRepairUnit_FullHPCompletesWithoutDebit(t *testing.T) {
	// Arrange
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 2, 0, 30)
	farm := f.place(f.farm, f.human, 3, 0, 100)
	o := order.NewRepair(f.units, worker, farm)

	// Act
	done, reason := o.RepairUnit(f.env, worker, farm)

	// Assert
	assert.True(t, done)
	assert.Equal(t, order.ReasonRepaired, reason)
	assert.Equal(t, 100, farm.HP)
	assert.Empty(t, f.human.Resources.Journal())
	assert.Empty(t, f.notes.notes)
}

func TestRepairUnit_AnyShortKindAbortsWithoutDebit(t *testing.T) {
	for _, short := range resource.Spendable() {
		t.Run(short.String(), func(t *testing.T) {
			// Arrange
			f := newFixture(t)
			for _, k := range resource.Spendable() {
				f.farm.RepairCosts[k] = 5
			}
			stock := resource.Costs{0, 10, 10, 10, 10, 10, 10}
			stock[short] = 4
			f.human.Resources.RestoreForLoad(stock, 0)
			worker := f.place(f.peasant, f.human, 2, 0, 30)
			farm := f.place(f.farm, f.human, 3, 0, 50)
			o := order.NewRepair(f.units, worker, farm)

			// Act
			done, reason := o.RepairUnit(f.env, worker, farm)

			// Assert
			assert.True(t, done)
			assert.Equal(t, order.ReasonInsufficientResources, reason)
			assert.Equal(t, 50, farm.HP)
			assert.Equal(t, stock, f.human.Resources.Stocks(), "no kind may be debited")
			require.Len(t, f.notes.notes, 1)
			assert.Equal(t, fmt.Sprintf("We need more %s for repair!", short), f.notes.notes[0].Message)
		})
	}
}

func TestRepairUnit_ExactStockIsEnough(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.human.Resources.RestoreForLoad(resource.Costs{0, 5, 2}, 7)
	worker := f.place(f.peasant, f.human, 2, 0, 30)
	farm := f.place(f.farm, f.human, 3, 0, 50)
	o := order.NewRepair(f.units, worker, farm)

	// Act
	done, reason := o.RepairUnit(f.env, worker, farm)

	// Assert
	assert.False(t, done)
	assert.Empty(t, reason)
	assert.Equal(t, 60, farm.HP)
	assert.Equal(t, 0, f.human.Resources.Stock(resource.Gold))
	assert.Equal(t, 0, f.human.Resources.Stock(resource.Wood))

	journal := f.human.Resources.Journal()
	require.Len(t, journal, 2)
	assert.Equal(t, int64(8), journal[0].Sequence())
	assert.Equal(t, resource.Gold, journal[0].Kind())
	assert.Equal(t, -5, journal[0].Amount())
	assert.Equal(t, resource.CategoryRepairCosts, journal[0].Category())
	assert.Equal(t, int64(9), journal[1].Sequence())
	assert.Equal(t, resource.Wood, journal[1].Kind())
}

func TestRepairUnit_HPNeverExceedsMaximum(t *testing.T) {
	tests := []struct {
		name     string
		startHP  int
		repairHP int
	}{
		{name: "one below max", startHP: 99, repairHP: 10},
		{name: "exact landing", startHP: 90, repairHP: 10},
		{name: "oversized step", startHP: 1, repairHP: 500},
		{name: "small steps", startHP: 3, repairHP: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)
			f.farm.RepairHP = tt.repairHP
			f.farm.RepairCosts = resource.Costs{}
			worker := f.place(f.peasant, f.human, 2, 0, 30)
			farm := f.place(f.farm, f.human, 3, 0, tt.startHP)
			o := order.NewRepair(f.units, worker, farm)

			// Act
			steps := 0
			done, reason := o.RepairUnit(f.env, worker, farm)
			for !done {
				steps++
				require.LessOrEqual(t, farm.HP, farm.Type.MaxHP)
				require.Less(t, steps, 1000)
				done, reason = o.RepairUnit(f.env, worker, farm)
			}

			// Assert
			assert.Equal(t, farm.Type.MaxHP, farm.HP)
			assert.Equal(t, order.ReasonRepaired, reason)
		})
	}
}

func TestRepairUnit_TimeCostIsNeverCharged(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.farm.RepairCosts = resource.Costs{50, 1}
	worker := f.place(f.peasant, f.human, 2, 0, 30)
	farm := f.place(f.farm, f.human, 3, 0, 50)
	o := order.NewRepair(f.units, worker, farm)

	// Act
	done, _ := o.RepairUnit(f.env, worker, farm)

	// Assert
	assert.False(t, done)
	assert.Equal(t, 60, farm.HP)
	assert.Equal(t, 999, f.human.Resources.Stock(resource.Gold))
	assert.Len(t, f.human.Resources.Journal(), 1)
}
