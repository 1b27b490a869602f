// Package targets loads the observer's target list from CSV.
package targets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/varghesereji/VOPlanner/internal/coord"
)

var ErrNoNameColumn = errors.New("target table has no name column")

// missingMarkers are cell values treated as absent coordinates.
var missingMarkers = map[string]bool{
	"":       true,
	"--":     true,
	"nan":    true,
	"null":   true,
	"none":   true,
	"n/a":    true,
	"masked": true,
}

// IsMissing reports whether a cell holds a missing-value marker.
func IsMissing(cell string) bool {
	return missingMarkers[strings.ToLower(strings.TrimSpace(cell))]
}

// LoadFile reads a CSV target table from path.
func LoadFile(path string) ([]coord.TargetRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening target table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a CSV table whose header names a "name" column and optionally
// "ra" and "dec" columns (any case). Lines starting with '#' are comments.
func Load(r io.Reader) ([]coord.TargetRecord, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoNameColumn
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	nameIdx, raIdx, decIdx := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))) {
		case "name":
			nameIdx = i
		case "ra":
			raIdx = i
		case "dec":
			decIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, ErrNoNameColumn
	}

	var records []coord.TargetRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading target table: %w", err)
		}
		line, _ := cr.FieldPos(0)

		name := strings.TrimSpace(cell(row, nameIdx))
		if name == "" {
			return nil, fmt.Errorf("target table line %d: empty name", line)
		}
		records = append(records, coord.TargetRecord{
			Name:   name,
			RawRA:  optional(row, raIdx),
			RawDec: optional(row, decIdx),
		})
	}
	return records, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func optional(row []string, idx int) *string {
	v := cell(row, idx)
	if IsMissing(v) {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}
