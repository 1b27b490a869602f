// Package coord turns raw right-ascension/declination strings into normalized
// equatorial positions.
//
// Parsing is two-tiered: a strict parser for well-formed decimal and
// sexagesimal input, then a permissive token-based parser for the messy
// formats found in hand-edited target tables.
package coord

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/soniakeys/unit"
)

// Frame identifies the reference frame of a position.
type Frame string

// FrameICRS is the only frame used by the planner.
const FrameICRS Frame = "icrs"

// Source records which path produced a position.
type Source string

const (
	SourceStrict     Source = "strict"
	SourcePermissive Source = "permissive"
	SourceRemote     Source = "remote"
)

// Position is an equatorial sky position. It is immutable once built.
type Position struct {
	ra     unit.RA
	dec    unit.Angle
	frame  Frame
	source Source
}

// NewPosition builds a Position from degree values. RA is wrapped into
// [0, 360); Dec must lie in [-90, 90].
func NewPosition(raDeg, decDeg float64, src Source) (Position, error) {
	if math.IsNaN(raDeg) || math.IsInf(raDeg, 0) {
		return Position{}, fmt.Errorf("ra %v is not finite", raDeg)
	}
	if math.IsNaN(decDeg) || math.IsInf(decDeg, 0) {
		return Position{}, fmt.Errorf("dec %v is not finite", decDeg)
	}
	if decDeg < -90 || decDeg > 90 {
		return Position{}, fmt.Errorf("dec %.6f outside [-90, 90]", decDeg)
	}
	return Position{
		ra:     unit.RAFromDeg(unit.PMod(raDeg, 360)),
		dec:    unit.AngleFromDeg(decDeg),
		frame:  FrameICRS,
		source: src,
	}, nil
}

// RA returns right ascension.
func (p Position) RA() unit.RA { return p.ra }

// Dec returns declination.
func (p Position) Dec() unit.Angle { return p.dec }

// RADeg returns right ascension in degrees, [0, 360).
func (p Position) RADeg() float64 { return p.ra.Deg() }

// RAHours returns right ascension in hours, [0, 24).
func (p Position) RAHours() float64 { return p.ra.Hour() }

// DecDeg returns declination in degrees.
func (p Position) DecDeg() float64 { return p.dec.Deg() }

func (p Position) Frame() Frame   { return p.frame }
func (p Position) Source() Source { return p.source }

// IsZero reports whether p was never constructed.
func (p Position) IsZero() bool { return p.frame == "" }

// String renders the position in sexagesimal form.
func (p Position) String() string {
	return fmt.Sprintf("%s %s (%s)", FormatRA(p.ra, 2), FormatDec(p.dec, 2), p.frame)
}

type positionJSON struct {
	RADeg  float64 `json:"ra_deg"`
	DecDeg float64 `json:"dec_deg"`
	RA     string  `json:"ra"`
	Dec    string  `json:"dec"`
	Frame  Frame   `json:"frame"`
	Source Source  `json:"source"`
}

// MarshalJSON renders both decimal and sexagesimal forms.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(positionJSON{
		RADeg:  p.RADeg(),
		DecDeg: p.DecDeg(),
		RA:     FormatRA(p.ra, 2),
		Dec:    FormatDec(p.dec, 2),
		Frame:  p.frame,
		Source: p.source,
	})
}

// TargetRecord is one row of the target table. A nil RawRA or RawDec means
// the cell held a missing-value marker.
type TargetRecord struct {
	Name   string  `json:"name" validate:"required"`
	RawRA  *string `json:"ra"`
	RawDec *string `json:"dec"`
}

// HasCoordinates reports whether both raw coordinate cells are present.
func (r TargetRecord) HasCoordinates() bool {
	return r.RawRA != nil && r.RawDec != nil
}
