// Package sky converts equatorial positions to horizon coordinates for a
// ground observer.
//
// Sidereal time uses the IAU-82 GMST model through go-satellite. Nutation,
// aberration and precession from J2000 to date are ignored; for planning
// plots the resulting altitude error is well under a degree.
package sky

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// JulianDate converts t to a Julian Date, keeping sub-second precision.
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	if m <= 2 {
		y--
		m += 12
	}

	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	jd := math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + d + b - 1524.5
	dayFrac := float64(t.Hour())/24 +
		float64(t.Minute())/1440 +
		(float64(t.Second())+float64(t.Nanosecond())/1e9)/86400
	return jd + dayFrac
}

// GMST returns Greenwich Mean Sidereal Time in radians, [0, 2π).
func GMST(t time.Time) float64 {
	return wrap2Pi(satellite.ThetaG_JD(JulianDate(t)))
}

// LocalSiderealTime returns local mean sidereal time in radians for an
// observer at east longitude lonDeg.
func LocalSiderealTime(t time.Time, lonDeg float64) float64 {
	return wrap2Pi(GMST(t) + lonDeg*math.Pi/180)
}

func wrap2Pi(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x
}
