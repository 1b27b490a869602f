package coord

import (
	"errors"
	"math"
	"math/rand"
	"strconv"
	"testing"
)

const tol = 1e-6

func TestParseStrictDecimal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		ra := rng.Float64() * 359.999
		dec := rng.Float64()*180 - 90
		raStr := strconv.FormatFloat(ra, 'f', 6, 64)
		decStr := strconv.FormatFloat(dec, 'f', 6, 64)

		p, err := Parse(raStr, decStr)
		if err != nil {
			t.Fatalf("Parse(%q, %q) error: %v", raStr, decStr, err)
		}
		want, err := NewPosition(ra, dec, SourceStrict)
		if err != nil {
			t.Fatalf("NewPosition: %v", err)
		}
		if math.Abs(p.RADeg()-want.RADeg()) > tol || math.Abs(p.DecDeg()-want.DecDeg()) > tol {
			t.Errorf("Parse(%q, %q) = (%.8f, %.8f), want (%.8f, %.8f)",
				raStr, decStr, p.RADeg(), p.DecDeg(), want.RADeg(), want.DecDeg())
		}
		if p.Source() != SourceStrict {
			t.Errorf("Parse(%q, %q) source = %s, want strict", raStr, decStr, p.Source())
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		ra, dec string
		wantRA  float64
		wantDec float64
		source  Source
	}{
		{"colon sexagesimal", "10:20:30", "-05:15:20", 155.125, -5.2555556, SourceStrict},
		{"decimal degrees", "123.45", "-67.89", 123.45, -67.89, SourceStrict},
		{"space sexagesimal", "10 20 30", "+05 15 20", 155.125, 5.2555556, SourceStrict},
		{"lettered", "10h20m30s", "-5d15m20s", 155.125, -5.2555556, SourceStrict},
		{"negative zero degrees", "00:00:00", "-00:30:00", 0, -0.5, SourceStrict},
		{"hour suffix", "10.5h", "+12.25", 157.5, 12.25, SourceStrict},
		{"minutes overflow", "10:75:30", "12:00:00", 168.875, 12, SourcePermissive},
		{"seconds overflow", "01:02:03", "-12 30 90", 15.5125, -12.525, SourcePermissive},
		{"labelled decimal", "RA=150.5", "Dec=-20.25", 150.5, -20.25, SourcePermissive},
		{"negative ra wraps", "-10.0", "0", 350, 0, SourcePermissive},
		{"unicode minus", "10:20:30", "−05:15:20", 155.125, -5.2555556, SourcePermissive},
		{"stray inner minus keeps sign", "10:20:30", "5d 10m -3s", 155.125, 5.1675, SourcePermissive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.ra, tt.dec)
			if err != nil {
				t.Fatalf("Parse(%q, %q) error: %v", tt.ra, tt.dec, err)
			}
			if math.Abs(p.RADeg()-tt.wantRA) > tol {
				t.Errorf("RA = %.7f, want %.7f", p.RADeg(), tt.wantRA)
			}
			if math.Abs(p.DecDeg()-tt.wantDec) > tol {
				t.Errorf("Dec = %.7f, want %.7f", p.DecDeg(), tt.wantDec)
			}
			if p.Source() != tt.source {
				t.Errorf("source = %s, want %s", p.Source(), tt.source)
			}
			if p.Frame() != FrameICRS {
				t.Errorf("frame = %s, want icrs", p.Frame())
			}
		})
	}
}

func TestParseUnrecognized(t *testing.T) {
	tests := []struct {
		name     string
		ra, dec  string
		wantAxis string
	}{
		{"garbage", "not-a-coordinate", "also-not-one", "RA"},
		{"two ra tokens", "10h 20", "5", "RA"},
		{"empty ra", "", "5", "RA"},
		{"two dec tokens", "150", "x5 y6", "Dec"},
		{"dec out of range", "150", "dec=95.5", "Dec"},
		{"dec sexagesimal out of range", "150", "91:00:00", "Dec"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.ra, tt.dec)
			if err == nil {
				t.Fatalf("Parse(%q, %q) succeeded, want error", tt.ra, tt.dec)
			}
			if !errors.Is(err, ErrUnrecognizedFormat) {
				t.Errorf("error %v does not match ErrUnrecognizedFormat", err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not *FormatError", err)
			}
			if fe.Axis != tt.wantAxis {
				t.Errorf("axis = %s, want %s", fe.Axis, tt.wantAxis)
			}
		})
	}
}

func TestParseAngle(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"-155d28m48.900s", -(155 + 28.0/60 + 48.9/3600)},
		{"+19d49m42.600s", 19 + 49.0/60 + 42.6/3600},
		{"19.8285", 19.8285},
		{"-33:56:00", -(33 + 56.0/60)},
	}
	for _, tt := range tests {
		got, err := ParseAngle(tt.in)
		if err != nil {
			t.Errorf("ParseAngle(%q) error: %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseAngle(%q) = %.9f, want %.9f", tt.in, got, tt.want)
		}
	}

	if _, err := ParseAngle("10h20m30s"); !errors.Is(err, ErrUnrecognizedFormat) {
		t.Errorf("ParseAngle(hours) error = %v, want ErrUnrecognizedFormat", err)
	}
}

func TestNewPositionRejectsInvalid(t *testing.T) {
	cases := []struct{ ra, dec float64 }{
		{math.NaN(), 0},
		{0, math.Inf(1)},
		{10, 90.0001},
		{10, -91},
	}
	for _, c := range cases {
		if _, err := NewPosition(c.ra, c.dec, SourceRemote); err == nil {
			t.Errorf("NewPosition(%v, %v) succeeded, want error", c.ra, c.dec)
		}
	}

	p, err := NewPosition(720.5, 0, SourceRemote)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	if math.Abs(p.RADeg()-0.5) > tol {
		t.Errorf("RA wrap = %.6f, want 0.5", p.RADeg())
	}
}

func TestTargetRecordHasCoordinates(t *testing.T) {
	ra, dec := "10:00:00", "+20:00:00"
	if !(TargetRecord{Name: "a", RawRA: &ra, RawDec: &dec}).HasCoordinates() {
		t.Error("expected coordinates present")
	}
	if (TargetRecord{Name: "b", RawRA: &ra}).HasCoordinates() {
		t.Error("expected coordinates absent when dec is nil")
	}
}
