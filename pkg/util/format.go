package util

import (
	"fmt"
	"math"
	"strconv"
)

// AbbrevUSD renders a dollar amount the way the dashboard shows aggregates:
// $1.23T, $456.78B, or plain $1,234 below a billion.
func AbbrevUSD(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return "$" + FormatFloat(v)
	}
}

// FormatPercent renders a signed percentage with two decimals, e.g. "+2.41%".
func FormatPercent(v float64) string {
	sign := "+"
	if v < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%.2f%%", sign, math.Abs(v))
}

// SignColor maps a numeric change to the dashboard's color vocabulary.
func SignColor(v float64) string {
	switch {
	case v > 0:
		return "green"
	case v < 0:
		return "red"
	default:
		return "gray"
	}
}

// FormatFloat renders a float without trailing zeros (42500, 42000.5).
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
