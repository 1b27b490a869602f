package coord

import (
	"fmt"
	"math"
	"strings"

	"github.com/soniakeys/unit"
)

// FormatRA renders ra as hh:mm:ss with the given number of decimals on the
// seconds field.
func FormatRA(ra unit.RA, precision int) string {
	return formatSexa(ra.Hour(), precision, false)
}

// FormatDec renders dec as ±dd:mm:ss with the given number of decimals on
// the seconds field. The sign is always present.
func FormatDec(dec unit.Angle, precision int) string {
	return formatSexa(dec.Deg(), precision, true)
}

func formatSexa(v float64, precision int, alwaysSign bool) string {
	if precision < 0 {
		precision = 0
	}
	neg := v < 0
	scale := math.Pow(10, float64(precision))
	// Round once on the total so carries propagate through every field.
	total := math.Round(math.Abs(v)*3600*scale) / scale

	major := math.Floor(total / 3600)
	rest := total - major*3600
	minutes := math.Floor(rest / 60)
	seconds := rest - minutes*60

	width := 2
	if precision > 0 {
		width = 3 + precision
	}

	var b strings.Builder
	switch {
	case neg && total > 0:
		b.WriteByte('-')
	case alwaysSign:
		b.WriteByte('+')
	}
	fmt.Fprintf(&b, "%02d:%02d:%0*.*f", int(major), int(minutes), width, precision, seconds)
	return b.String()
}
