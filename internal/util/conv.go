package util

import (
	"math"
	"strconv"
)

// ParseFloatOrNaN parses a query value; missing or malformed input yields NaN
// so pagination falls back to its defaults.
func ParseFloatOrNaN(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseIntDefault parses s, returning def when s is empty or malformed.
func ParseIntDefault(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
