package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineBinding(t *testing.T) {
	testCases := []struct {
		food    Food
		machine MachineType
		display string
	}{
		{Soda, MachineTypeFountain, "Fountain"},
		{Wings, MachineTypeFryer, "Fryer"},
		{Sub, MachineTypeGrillPress, "Grill Press"},
		{Pizza, MachineTypeOven, "Oven"},
	}

	for _, tc := range testCases {
		mt, ok := MachineFor(tc.food)
		require.True(t, ok, tc.food.Name)
		assert.Equal(t, tc.machine, mt)
		assert.Equal(t, tc.display, mt.String())

		back, ok := FoodFor(mt)
		require.True(t, ok)
		assert.Equal(t, tc.food, back)
	}

	_, ok := MachineFor(Food{Name: "salad"})
	assert.False(t, ok)
	assert.Len(t, MachineTypes, len(Menu))
}

func TestFoodDuration(t *testing.T) {
	assert.Equal(t, 350*time.Millisecond, Wings.Duration(time.Millisecond))
	assert.Equal(t, 20*time.Microsecond, Soda.Duration(time.Microsecond))
}

func TestItemsMultiset(t *testing.T) {
	a := Items{Wings, Wings, Soda}
	b := Items{Soda, Wings, Wings}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Items{Wings, Soda, Soda}))
	assert.Equal(t, 2, a.Count(Wings))
	assert.True(t, Items{Wings}.SubsetOf(a))
	assert.False(t, Items{Pizza}.SubsetOf(a))
	assert.Equal(t, "[soda, wings, wings]", a.String())

	c := a.Clone()
	require.True(t, c.Remove(Wings))
	assert.Equal(t, 2, a.Count(Wings), "clone must not alias")
	assert.Equal(t, 1, c.Count(Wings))
	assert.False(t, c.Remove(Pizza))

	var empty Items
	assert.NotNil(t, empty.Clone())
	assert.True(t, empty.Equal(Items{}))
}

func TestFixedOrder(t *testing.T) {
	order := FixedOrder()
	assert.Len(t, order, 4)
	for _, f := range Menu {
		assert.Equal(t, 1, order.Count(f))
	}
}
