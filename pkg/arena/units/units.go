// Package units converts configured lengths and angles into the mm/rad
// values the geometry engines work in.
package units

import "math"

// MMPerInch is exact: 1 inch is defined as 25.4 mm.
const MMPerInch = 25.4

// LengthUnit identifies the length unit a configuration uses.
type LengthUnit string

// AngleUnit identifies the angle unit a configuration uses.
type AngleUnit string

const (
	Millimeters LengthUnit = "mm"
	Inches      LengthUnit = "inch"

	Degrees AngleUnit = "deg"
	Radians AngleUnit = "rad"
)

// Converter normalizes configuration values to mm and radians.
// The zero value converts nothing; build one from the config's unit
// section instead.
type Converter struct {
	Length LengthUnit
	Angle  AngleUnit
}

// ToMM returns v in millimeters.
func (c Converter) ToMM(v float64) float64 {
	if c.Length == Inches {
		return v * MMPerInch
	}
	return v
}

// ToRad returns v in radians.
func (c Converter) ToRad(v float64) float64 {
	if c.Angle == Degrees {
		return v * math.Pi / 180.0
	}
	return v
}

// MMToLength converts a millimeter value back into the configured
// length unit (used for printing and round trips).
func (c Converter) MMToLength(v float64) float64 {
	if c.Length == Inches {
		return v / MMPerInch
	}
	return v
}

// RadToAngle converts a radian value back into the configured angle unit.
func (c Converter) RadToAngle(v float64) float64 {
	if c.Angle == Degrees {
		return v * 180.0 / math.Pi
	}
	return v
}

// InchToMM converts inches to millimeters.
func InchToMM(v float64) float64 { return v * MMPerInch }

// MMToInch converts millimeters to inches.
func MMToInch(v float64) float64 { return v / MMPerInch }
