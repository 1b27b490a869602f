package coord

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// 123.45, -67.89, 155.1d, 10.5h
	decimalRe = regexp.MustCompile(`^([+-])?(\d+(?:\.\d*)?|\.\d+)\s*(h|d|deg|°)?$`)
	// 10:20:30.5, -05 15 20, 10:20
	colonRe = regexp.MustCompile(`^([+-])?(\d{1,3})(?:\s*:\s*|\s+)(\d{1,2})(?:(?:\s*:\s*|\s+)(\d{1,2}(?:\.\d*)?))?$`)
	// 10h20m30.5s, -5d15m20s, -155d28m48.900s, +19°49'42.6"
	letteredRe = regexp.MustCompile(`^([+-])?(\d{1,3})\s*(h|d|°)\s*(\d{1,2})\s*(?:m|')\s*(?:(\d{1,2}(?:\.\d*)?)\s*(?:s|")?)?$`)
)

var errStrict = errors.New("not a strict coordinate")

// angleUnit is the unit a strict string was written in.
type angleUnit int

const (
	unitNone angleUnit = iota
	unitHour
	unitDegree
)

// strictValue is one strictly parsed component before axis rules apply.
type strictValue struct {
	neg         bool
	value       float64 // unsigned, in the written unit
	unit        angleUnit
	sexagesimal bool
}

func parseStrict(s string) (strictValue, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return strictValue{}, errStrict
	}

	if m := decimalRe.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return strictValue{}, errStrict
		}
		u := unitNone
		switch m[3] {
		case "h":
			u = unitHour
		case "d", "deg", "°":
			u = unitDegree
		}
		return strictValue{neg: m[1] == "-", value: v, unit: u}, nil
	}

	var sign, major, minutes, seconds, letter string
	if m := colonRe.FindStringSubmatch(s); m != nil {
		sign, major, minutes, seconds = m[1], m[2], m[3], m[4]
	} else if m := letteredRe.FindStringSubmatch(s); m != nil {
		sign, major, letter, minutes, seconds = m[1], m[2], m[3], m[4], m[5]
	} else {
		return strictValue{}, errStrict
	}

	a, err := strconv.ParseFloat(major, 64)
	if err != nil {
		return strictValue{}, errStrict
	}
	b, err := strconv.ParseFloat(minutes, 64)
	if err != nil {
		return strictValue{}, errStrict
	}
	var c float64
	if seconds != "" {
		if c, err = strconv.ParseFloat(seconds, 64); err != nil {
			return strictValue{}, errStrict
		}
	}
	// Overflowing components are left to the permissive parser.
	if b >= 60 || c >= 60 {
		return strictValue{}, fmt.Errorf("%w: minutes or seconds out of range", errStrict)
	}

	u := unitNone
	switch letter {
	case "h":
		u = unitHour
	case "d", "°":
		u = unitDegree
	}
	return strictValue{
		neg:         sign == "-",
		value:       a + b/60 + c/3600,
		unit:        u,
		sexagesimal: true,
	}, nil
}

// strictRA parses RA. Sexagesimal and hour-suffixed values are hours;
// plain decimals are degrees.
func strictRA(s string) (float64, error) {
	v, err := parseStrict(s)
	if err != nil {
		return 0, err
	}
	if v.neg {
		return 0, fmt.Errorf("%w: negative right ascension", errStrict)
	}
	hours := v.unit == unitHour || (v.sexagesimal && v.unit == unitNone)
	if hours {
		if v.value >= 24 {
			return 0, fmt.Errorf("%w: right ascension %.6fh out of range", errStrict, v.value)
		}
		return v.value * 15, nil
	}
	if v.value >= 360 {
		return 0, fmt.Errorf("%w: right ascension %.6f° out of range", errStrict, v.value)
	}
	return v.value, nil
}

// strictDec parses a declination in degrees.
func strictDec(s string) (float64, error) {
	v, err := parseStrict(s)
	if err != nil {
		return 0, err
	}
	if v.unit == unitHour {
		return 0, fmt.Errorf("%w: declination written in hours", errStrict)
	}
	if v.value > 90 {
		return 0, fmt.Errorf("%w: declination %.6f° out of range", errStrict, v.value)
	}
	if v.neg {
		return -v.value, nil
	}
	return v.value, nil
}

// ParseAngle parses a signed angle in degrees, such as a site longitude
// ("-155d28m48.900s") or latitude ("+19d49m42.600s"). Hour units are rejected.
func ParseAngle(s string) (float64, error) {
	v, err := parseStrict(s)
	if err != nil {
		return 0, &FormatError{Axis: "angle", Value: s}
	}
	if v.unit == unitHour {
		return 0, &FormatError{Axis: "angle", Value: s}
	}
	if v.neg {
		return -v.value, nil
	}
	return v.value, nil
}
