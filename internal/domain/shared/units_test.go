package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeasurementUnit(t *testing.T) {
	assert.True(t, UnitTablespoon.IsValid())
	assert.False(t, MeasurementUnit("handful").IsValid())

	assert.Equal(t, "tbsp", UnitTablespoon.Abbreviation())
	assert.Equal(t, "L", UnitLiter.Abbreviation())
	assert.Equal(t, "handful", MeasurementUnit("handful").Abbreviation())

	assert.Equal(t, UnitItem, MeasurementUnit("").OrDefault())
	assert.Equal(t, UnitCup, UnitCup.OrDefault())
}

func TestAggregateRoot_EventsDrains(t *testing.T) {
	var root AggregateRoot
	root.AddEvent(nil)
	root.AddEvent(nil)

	assert.Len(t, root.Events(), 2)
	assert.Empty(t, root.Events())
}

func TestParseServingUnit(t *testing.T) {
	cases := map[string]MeasurementUnit{
		"cup, chopped": UnitCup,
		"Tbsp":         UnitTablespoon,
		"teaspoon":     UnitTeaspoon,
		"oz":           UnitOunce,
		"lb":           UnitPound,
		"g":            UnitGram,
		"kg":           UnitKilogram,
		"ml":           UnitMilliliter,
		"liter":        UnitLiter,
		"large":        UnitGram,
		"medium":       UnitItem,
		"slice":        UnitLiter,
		"":             UnitItem,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseServingUnit(in), in)
	}
}
