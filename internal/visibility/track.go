// Package visibility computes altitude/airmass tracks over a time grid and
// the windows in which a target is observable.
package visibility

import (
	"time"

	"github.com/varghesereji/VOPlanner/internal/coord"
	"github.com/varghesereji/VOPlanner/internal/site"
	"github.com/varghesereji/VOPlanner/internal/sky"
	"github.com/varghesereji/VOPlanner/internal/timegrid"
)

// Sample is a target's horizon position at one grid instant.
type Sample struct {
	Time         time.Time `json:"time"`
	AltitudeDeg  float64   `json:"altitude_deg"` // apparent
	AzimuthDeg   float64   `json:"azimuth_deg"`
	Airmass      float64   `json:"airmass,omitempty"` // 0 at or below the horizon
	HourAngle    float64   `json:"hour_angle_hours"`
	AboveHorizon bool      `json:"above_horizon"`
	Observable   bool      `json:"observable"`
}

// Window is a maximal run of consecutive observable samples.
type Window struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationHours   float64   `json:"duration_hours"`
	MaxAltitudeDeg  float64   `json:"max_altitude_deg"`
	MaxAltitudeTime time.Time `json:"max_altitude_time"`
}

// Summary condenses a track.
type Summary struct {
	MaxAltitudeDeg  float64   `json:"max_altitude_deg"`
	MaxAltitudeTime time.Time `json:"max_altitude_time"`
	MinAirmass      float64   `json:"min_airmass,omitempty"`
	ObservableHours float64   `json:"observable_hours"`
}

// Track is the full visibility result for one target.
type Track struct {
	Target   string         `json:"target"`
	Position coord.Position `json:"position"`
	Samples  []Sample       `json:"samples"`
	Windows  []Window       `json:"windows"`
	Summary  Summary        `json:"summary"`
}

// Request holds the parameters shared by every target in a run.
type Request struct {
	Observer       sky.Observer
	Grid           timegrid.Grid
	MinAltitudeDeg float64
	MaxAltitudeDeg float64
}

// ObserverFor reduces a site to the horizon-transform observer.
func ObserverFor(s site.Site) sky.Observer {
	return sky.Observer{
		LatDeg:      s.LatDeg,
		LonDeg:      s.LonDeg,
		ElevationM:  s.ElevationM,
		PressureBar: s.PressureBar,
		TempC:       s.TempC,
	}
}

// Compute samples pos at every grid instant and derives windows and summary.
func Compute(target string, pos coord.Position, req Request) Track {
	maxAlt := req.MaxAltitudeDeg
	if maxAlt <= req.MinAltitudeDeg {
		maxAlt = 90
	}

	samples := make([]Sample, 0, req.Grid.Len())
	for _, t := range req.Grid.Samples {
		h := sky.ToHorizontal(pos, req.Observer, t)
		am, above := sky.Airmass(h.AltitudeDeg)
		samples = append(samples, Sample{
			Time:         t,
			AltitudeDeg:  h.AltitudeDeg,
			AzimuthDeg:   h.AzimuthDeg,
			Airmass:      am,
			HourAngle:    h.HourAngleHours,
			AboveHorizon: above,
			Observable:   above && h.AltitudeDeg >= req.MinAltitudeDeg && h.AltitudeDeg <= maxAlt,
		})
	}

	windows := findWindows(samples)
	return Track{
		Target:   target,
		Position: pos,
		Samples:  samples,
		Windows:  windows,
		Summary:  summarize(samples, windows),
	}
}

func findWindows(samples []Sample) []Window {
	var (
		windows []Window
		cur     *Window
	)
	for _, s := range samples {
		if !s.Observable {
			if cur != nil {
				windows = append(windows, *cur)
				cur = nil
			}
			continue
		}
		if cur == nil {
			cur = &Window{
				Start:           s.Time,
				MaxAltitudeDeg:  s.AltitudeDeg,
				MaxAltitudeTime: s.Time,
			}
		}
		cur.End = s.Time
		cur.DurationHours = cur.End.Sub(cur.Start).Hours()
		if s.AltitudeDeg > cur.MaxAltitudeDeg {
			cur.MaxAltitudeDeg = s.AltitudeDeg
			cur.MaxAltitudeTime = s.Time
		}
	}
	if cur != nil {
		windows = append(windows, *cur)
	}
	return windows
}

func summarize(samples []Sample, windows []Window) Summary {
	var sum Summary
	for i, s := range samples {
		if i == 0 || s.AltitudeDeg > sum.MaxAltitudeDeg {
			sum.MaxAltitudeDeg = s.AltitudeDeg
			sum.MaxAltitudeTime = s.Time
		}
		if s.AboveHorizon && (sum.MinAirmass == 0 || s.Airmass < sum.MinAirmass) {
			sum.MinAirmass = s.Airmass
		}
	}
	for _, w := range windows {
		sum.ObservableHours += w.DurationHours
	}
	return sum
}
