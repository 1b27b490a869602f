// Package timegrid builds the sampled observation window shared by every
// target in a run.
package timegrid

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Layout is the local timestamp format accepted by Build.
const Layout = "2006-01-02 15:04:05"

// epsilonHours keeps the final sample when span/interval lands a hair short
// of an integer because of float rounding.
const epsilonHours = 0.001

// DefaultMaxSamples caps grid size for Builder values with no explicit cap.
const DefaultMaxSamples = 100000

var (
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrInvalidInterval   = errors.New("invalid interval")
)

// Grid is an ordered, strictly increasing sequence of UTC instants.
type Grid struct {
	Samples  []time.Time
	Interval time.Duration
	Location *time.Location
}

// Start returns the first sample.
func (g Grid) Start() time.Time { return g.Samples[0] }

// End returns the last sample.
func (g Grid) End() time.Time { return g.Samples[len(g.Samples)-1] }

// Len returns the number of samples.
func (g Grid) Len() int { return len(g.Samples) }

// Local returns sample i in the grid's location.
func (g Grid) Local(i int) time.Time { return g.Samples[i].In(g.Location) }

// Builder constructs grids. The zero value uses DefaultMaxSamples.
type Builder struct {
	MaxSamples int
}

// Build parses startLocal and endLocal in loc and samples the window every
// intervalHours. The first sample is always the window start; the grid is
// never empty.
func (b Builder) Build(startLocal, endLocal string, intervalHours float64, loc *time.Location) (Grid, error) {
	if loc == nil {
		loc = time.UTC
	}
	if math.IsNaN(intervalHours) || math.IsInf(intervalHours, 0) || intervalHours <= 0 {
		return Grid{}, fmt.Errorf("%w: interval must be a positive number of hours, got %v", ErrInvalidInterval, intervalHours)
	}

	start, err := ParseLocal(startLocal, loc)
	if err != nil {
		return Grid{}, fmt.Errorf("start: %w", err)
	}
	end, err := ParseLocal(endLocal, loc)
	if err != nil {
		return Grid{}, fmt.Errorf("end: %w", err)
	}

	spanHours := end.Sub(start).Hours()
	n := 1
	if spanHours > 0 {
		n = int(math.Floor((spanHours+epsilonHours)/intervalHours)) + 1
	}

	limit := b.MaxSamples
	if limit <= 0 {
		limit = DefaultMaxSamples
	}
	if n > limit {
		return Grid{}, fmt.Errorf("%w: %d samples exceeds limit %d", ErrInvalidInterval, n, limit)
	}

	step := time.Duration(intervalHours * float64(time.Hour))
	if step <= 0 {
		return Grid{}, fmt.Errorf("%w: interval %v hours is below clock resolution", ErrInvalidInterval, intervalHours)
	}

	samples := make([]time.Time, 0, n)
	for k := 0; k < n; k++ {
		samples = append(samples, start.Add(time.Duration(k)*step).UTC())
	}

	return Grid{Samples: samples, Interval: step, Location: loc}, nil
}

// Build uses a zero Builder.
func Build(startLocal, endLocal string, intervalHours float64, loc *time.Location) (Grid, error) {
	return Builder{}.Build(startLocal, endLocal, intervalHours, loc)
}

// ParseLocal parses a Layout timestamp as wall-clock time in loc.
func ParseLocal(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match %q", ErrInvalidTimeFormat, s, "YYYY-MM-DD HH:MM:SS")
	}
	return t, nil
}
