package engine

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// FormatValue renders a result as the shortest decimal text that parses back
// to the same value, without exponent notation. Infinities render as "inf" and
// "-inf", not-a-number as "NaN".
func FormatValue(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseOperand parses the input buffer as a decimal number. It accepts an
// optional sign, a fraction, an exponent, and the inf/NaN spellings that
// FormatValue produces. Hexadecimal and underscore-separated forms are
// rejected. Magnitudes beyond float64 range become infinities.
func ParseOperand(s string) (float64, bool) {
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}
