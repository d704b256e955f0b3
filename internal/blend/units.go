package blend

import "strings"

// Unit is a volume unit accepted on tank records.
type Unit string

const (
	Liters      Unit = "L"
	Hectoliters Unit = "hL"
)

// ParseUnit maps user input onto a known unit. Anything that is not
// recognisably hectoliters is treated as liters.
func ParseUnit(value string) Unit {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "hl":
		return Hectoliters
	default:
		return Liters
	}
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	return u == Liters || u == Hectoliters
}

// ToLiters converts value expressed in unit to liters.
func ToLiters(value float64, unit Unit) float64 {
	if unit == Hectoliters {
		return value * 100
	}
	return value
}
