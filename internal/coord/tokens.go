package coord

import (
	"regexp"
	"strconv"
)

var numberRe = regexp.MustCompile(`[+-]?\d+(?:\.\d+)?`)

// ExtractNumbers returns every signed decimal number found in text, in order.
// It never fails; text without digits yields an empty slice.
func ExtractNumbers(text string) []float64 {
	matches := numberRe.FindAllString(text, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			// Only reachable for values beyond float64 range.
			continue
		}
		out = append(out, v)
	}
	return out
}
