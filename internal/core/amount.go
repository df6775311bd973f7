// Package core holds the practice's record types and the arithmetic over them.
//
// This file contains the numeric coercion used for every amount typed into
// the form and the formatting helpers shared by the summary and the export.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount coerces form input to a number. Empty, non-numeric and
// non-finite input all become 0; it never fails.
//
// Examples:
//
//	ParseAmount("12.5") -> 12.5
//	ParseAmount(" 40 ") -> 40
//	ParseAmount("abc")  -> 0
//	ParseAmount("")     -> 0
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return 0 // also folds -0 to 0
	}
	return v
}

// FormatFixed renders v with exactly two decimals ("50.00").
func FormatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatPlain renders v in its shortest decimal form ("10", "2.5").
func FormatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SplitDuration splits "HH:MM" into its halves. Missing halves are "".
func SplitDuration(d string) (hh, mm string) {
	hh, mm, _ = strings.Cut(d, ":")
	return hh, mm
}
