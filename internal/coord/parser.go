package coord

import (
	"math"
	"strings"
)

// Parse converts raw RA and Dec strings into a Position.
//
// The strict parser runs first and its result is returned as-is. Only when
// it rejects the input does the permissive token parser run. The returned
// error is a *FormatError (matching ErrUnrecognizedFormat) when both fail.
func Parse(ra, dec string) (Position, error) {
	if raDeg, err := strictRA(ra); err == nil {
		if decDeg, err := strictDec(dec); err == nil {
			return NewPosition(raDeg, decDeg, SourceStrict)
		}
	}
	return parsePermissive(ra, dec)
}

func parsePermissive(ra, dec string) (Position, error) {
	raDeg, err := permissiveRA(ra)
	if err != nil {
		return Position{}, err
	}
	decDeg, err := permissiveDec(dec)
	if err != nil {
		return Position{}, err
	}
	p, err := NewPosition(raDeg, decDeg, SourcePermissive)
	if err != nil {
		return Position{}, &FormatError{Axis: "Dec", Value: dec}
	}
	return p, nil
}

func permissiveRA(ra string) (float64, error) {
	tokens := ExtractNumbers(ra)
	switch {
	case len(tokens) == 1:
		return tokens[0], nil
	case len(tokens) >= 3:
		h := Sexagesimal(1, math.Abs(tokens[0]), math.Abs(tokens[1]), math.Abs(tokens[2]))
		return h * 15, nil
	default:
		return 0, &FormatError{Axis: "RA", Value: ra}
	}
}

func permissiveDec(dec string) (float64, error) {
	tokens := ExtractNumbers(dec)
	if len(tokens) != 1 && len(tokens) < 3 {
		return 0, &FormatError{Axis: "Dec", Value: dec}
	}
	sign := decSign(dec, tokens[0])
	if len(tokens) == 1 {
		return float64(sign) * math.Abs(tokens[0]), nil
	}
	return Sexagesimal(sign, math.Abs(tokens[0]), math.Abs(tokens[1]), math.Abs(tokens[2])), nil
}

// decSign takes the sign from the first non-blank character of the string,
// falling back to the sign of the first numeric token. A minus sign buried
// later in the string (e.g. a stray "-" on the minutes) does not flip it.
func decSign(dec string, first float64) int {
	s := strings.TrimSpace(dec)
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "−") {
		return -1
	}
	if strings.HasPrefix(s, "+") {
		return 1
	}
	if math.Signbit(first) {
		return -1
	}
	return 1
}
