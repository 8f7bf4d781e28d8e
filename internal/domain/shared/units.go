package shared

import "strings"

// MeasurementUnit is the unit an ingredient quantity is expressed in
type MeasurementUnit string

const (
	UnitItem       MeasurementUnit = "item"
	UnitGram       MeasurementUnit = "gram"
	UnitKilogram   MeasurementUnit = "kilogram"
	UnitOunce      MeasurementUnit = "ounce"
	UnitPound      MeasurementUnit = "pound"
	UnitCup        MeasurementUnit = "cup"
	UnitTablespoon MeasurementUnit = "tablespoon"
	UnitTeaspoon   MeasurementUnit = "teaspoon"
	UnitMilliliter MeasurementUnit = "milliliter"
	UnitLiter      MeasurementUnit = "liter"
)

var unitAbbreviations = map[MeasurementUnit]string{
	UnitItem:       "item",
	UnitGram:       "g",
	UnitKilogram:   "kg",
	UnitOunce:      "oz",
	UnitPound:      "lb",
	UnitCup:        "cup",
	UnitTablespoon: "tbsp",
	UnitTeaspoon:   "tsp",
	UnitMilliliter: "ml",
	UnitLiter:      "L",
}

// IsValid reports whether u is one of the known units
func (u MeasurementUnit) IsValid() bool {
	_, ok := unitAbbreviations[u]
	return ok
}

// Abbreviation returns the short display form of the unit
func (u MeasurementUnit) Abbreviation() string {
	if abbr, ok := unitAbbreviations[u]; ok {
		return abbr
	}
	return string(u)
}

// OrDefault returns u, or UnitItem when u is empty
func (u MeasurementUnit) OrDefault() MeasurementUnit {
	if u == "" {
		return UnitItem
	}
	return u
}

// ParseServingUnit maps a free-text serving unit such as "cup, chopped" or
// "oz" to a MeasurementUnit. The checks run in a fixed order and are
// substring based, so anything unrecognized falls through to UnitItem.
func ParseServingUnit(text string) MeasurementUnit {
	unit := strings.ToLower(text)
	has := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(unit, s) {
				return true
			}
		}
		return false
	}

	switch {
	case has("cup"):
		return UnitCup
	case has("tbsp", "tablespoon"):
		return UnitTablespoon
	case has("tsp", "teaspoon"):
		return UnitTeaspoon
	case has("oz", "ounce"):
		return UnitOunce
	case has("lb", "pound"):
		return UnitPound
	case has("g") && !has("k"):
		return UnitGram
	case has("kg", "kilogram"):
		return UnitKilogram
	case has("ml", "milliliter"):
		return UnitMilliliter
	case has("l", "liter"):
		return UnitLiter
	}
	return UnitItem
}
