package coord

import "math"

// Normalize carries seconds overflow into minutes and minutes overflow into
// the major unit (degrees or hours), then applies sign to the major unit.
// a, b and c must be non-negative. The returned minutes and seconds lie in
// [0, 60).
func Normalize(sign int, a, b, c float64) (signedA, minutes, seconds float64) {
	b += math.Floor(c / 60)
	c = math.Mod(c, 60)
	a += math.Floor(b / 60)
	b = math.Mod(b, 60)
	if sign < 0 {
		a = -a
	}
	return a, b, c
}

// Sexagesimal converts a (sign, major, minutes, seconds) triple to a decimal
// value in the major unit. The sign applies to the whole angle, so
// -1°30′ is -(1 + 30/60).
func Sexagesimal(sign int, a, b, c float64) float64 {
	signedA, m, s := Normalize(sign, a, b, c)
	v := math.Abs(signedA) + m/60 + s/3600
	if sign < 0 {
		return -v
	}
	return v
}
