package plan

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// parseNumber reports whether v is a number. Surrounding whitespace is ignored.
func parseNumber(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	n, err := cast.ToFloat64E(v)
	return n, err == nil
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// compareValues orders numerically when both values parse as numbers and
// lexically otherwise.
func compareValues(a, b string) int {
	x, okA := parseNumber(a)
	y, okB := parseNumber(b)
	if okA && okB {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}
