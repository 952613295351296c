package report

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// decimalPlaces is the number of fraction digits in every formatted number.
const decimalPlaces = 2

// FormatNumber renders v with exactly two fraction digits and a decimal comma.
//
// Rounding is half away from zero on the shortest decimal representation of
// v, so 2.675 becomes "2,68" even though its binary value is slightly below
// 2.675. Values that round to zero keep their sign ("-0,00"). Non-finite
// values render as "Infinity", "-Infinity" and "NaN".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	s := decimal.NewFromFloat(v).StringFixed(decimalPlaces)
	if math.Signbit(v) && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return strings.Replace(s, ".", ",", 1)
}
