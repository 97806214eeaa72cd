// Package units provides shared constants and validation for length units
package units

import "strings"

// Unit constants
const (
	MM = "mm"
	CM = "cm"
	M  = "m"
	IN = "in"
	FT = "ft"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MM, CM, M, IN, FT}

// millimetres per unit
var toMM = map[string]float64{
	MM: 1,
	CM: 10,
	M:  1000,
	IN: 25.4,
	FT: 304.8,
}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	_, ok := toMM[unit]
	return ok
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ToMillimetres converts a length in fromUnit to millimetres.
// Unknown units are returned unchanged.
func ToMillimetres(v float64, fromUnit string) float64 {
	f, ok := toMM[fromUnit]
	if !ok {
		return v
	}
	return v * f
}

// ConvertLength converts a length between two units.
// Unknown units on either side leave the value unchanged.
func ConvertLength(v float64, fromUnit, toUnit string) float64 {
	from, okFrom := toMM[fromUnit]
	to, okTo := toMM[toUnit]
	if !okFrom || !okTo {
		return v
	}
	return v * from / to
}
