package domain

import "math"

// Sizing maps task values to rendered widths and back.
//
//	size  = round(value^Exponent * Factor + Base)
//	value = max(MinValue, snap(((size - Base) / Factor)^(1/Exponent)))
//
// An Exponent below 1 compresses large values so outliers do not dominate
// the layout.
type Sizing struct {
	Base      float64 `yaml:"base"`
	Factor    float64 `yaml:"factor"`
	Exponent  float64 `yaml:"exponent"`
	MinValue  float64 `yaml:"min_value"`
	SnapDelta float64 `yaml:"snap_delta"`
}

// DefaultSizing is the reference transform.
func DefaultSizing() Sizing {
	return Sizing{Base: 10, Factor: 2, Exponent: 0.75, MinValue: 10, SnapDelta: 10}
}

// ValueToSize converts a value to a whole-pixel width.
func (s Sizing) ValueToSize(value float64) int {
	if value < 0 {
		value = 0
	}
	return int(roundHalfUp(math.Pow(value, s.Exponent)*s.Factor + s.Base))
}

// SizeToValue converts an observed width back to a snapped value.
// Widths at or below Base floor to MinValue.
func (s Sizing) SizeToValue(size float64) float64 {
	x := (size - s.Base) / s.Factor
	if x <= 0 || math.IsNaN(x) {
		return s.MinValue
	}
	return math.Max(s.MinValue, s.SnapToGrid(math.Pow(x, 1/s.Exponent)))
}

// SnapToGrid rounds v to the nearest multiple of SnapDelta.
func (s Sizing) SnapToGrid(v float64) float64 {
	if s.SnapDelta <= 0 {
		return v
	}
	return roundHalfUp(v/s.SnapDelta) * s.SnapDelta
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
