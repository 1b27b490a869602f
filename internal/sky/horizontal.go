package sky

import (
	"math"
	"time"

	"github.com/varghesereji/VOPlanner/internal/coord"
)

const deg = math.Pi / 180

// Observer is a ground site reduced to what the horizon transform needs.
type Observer struct {
	LatDeg, LonDeg float64 // geodetic, east-positive longitude
	ElevationM     float64
	PressureBar    float64 // 0 disables refraction
	TempC          float64
}

// Horizontal is a target's horizon position at one instant.
type Horizontal struct {
	Time            time.Time
	AltitudeDeg     float64 // apparent, refraction applied
	TrueAltitudeDeg float64 // geometric
	AzimuthDeg      float64 // 0 = North, clockwise
	HourAngleHours  float64 // (-12, 12]
}

// ToHorizontal computes altitude and azimuth of pos seen by obs at t.
func ToHorizontal(pos coord.Position, obs Observer, t time.Time) Horizontal {
	lst := LocalSiderealTime(t, obs.LonDeg)
	ha := lst - pos.RA().Rad()
	dec := pos.Dec().Rad()
	lat := obs.LatDeg * deg

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	sinAlt = math.Max(-1, math.Min(1, sinAlt))
	alt := math.Asin(sinAlt)

	az := math.Atan2(-math.Sin(ha)*math.Cos(dec),
		math.Cos(lat)*math.Sin(dec)-math.Sin(lat)*math.Cos(dec)*math.Cos(ha))
	if az < 0 {
		az += 2 * math.Pi
	}

	haHours := wrap2Pi(ha) / deg / 15
	if haHours > 12 {
		haHours -= 24
	}

	trueAlt := alt / deg
	return Horizontal{
		Time:            t,
		AltitudeDeg:     trueAlt + Refraction(trueAlt, obs.PressureBar, obs.TempC),
		TrueAltitudeDeg: trueAlt,
		AzimuthDeg:      az / deg,
		HourAngleHours:  haHours,
	}
}

// Refraction returns the atmospheric refraction in degrees for a geometric
// altitude, using Saemundsson's formula scaled for pressure and temperature.
// It is zero for pressure <= 0 and for altitudes below -1°.
func Refraction(trueAltDeg, pressureBar, tempC float64) float64 {
	if pressureBar <= 0 || trueAltDeg < -1 {
		return 0
	}
	h := math.Min(trueAltDeg, 90)
	rArcmin := 1.02 / math.Tan((h+10.3/(h+5.11))*deg)
	// Saemundsson is normalised to 1010 mbar and 10 °C.
	rArcmin *= (pressureBar * 1000 / 1010) * (283 / (273 + tempC))
	if rArcmin < 0 {
		return 0
	}
	return rArcmin / 60
}

// Airmass returns the relative airmass for an apparent altitude using
// Pickering (2002). ok is false at or below the horizon.
func Airmass(altDeg float64) (float64, bool) {
	if altDeg <= 0 {
		return 0, false
	}
	x := 1 / math.Sin((altDeg+244/(165+47*math.Pow(altDeg, 1.1)))*deg)
	return x, true
}
