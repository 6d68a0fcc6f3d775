package service

import (
	"strconv"
	"strings"
)

// Sentinels that appear in hand-edited spreadsheets.
const (
	naSentinel      = "N/A"
	divZeroSentinel = "#DIV/0!"
)

// parseDuration parses a duration-metric cell (DT, UT, NVA, OT). Absent or
// unparsable values default to zero, not null. This asymmetry with the
// percentage columns is deliberate and matches the data already in the
// field.
func parseDuration(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parsePercent parses a percentage-style cell (KD, KE, KER, KSR). "N/A"
// and unparsable values map to absent (nil); present values are stored as
// fractions, so "71.6" becomes 0.716.
func parsePercent(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == naSentinel {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v /= 100
	return &v
}

// parseTSR stores the cell verbatim except "N/A", which maps to absent.
func parseTSR(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || s == naSentinel {
		return nil
	}
	return &s
}

// ParseLocaleNumber parses a number using "." as the thousands separator
// and "," as the decimal separator, e.g. "1.519,13" -> 1519.13. The
// "#DIV/0!" sentinel parses to absent (nil), not to an error. Used by the
// one-time seeding path; the request-time importer shares the same
// sentinel contract.
func ParseLocaleNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == divZeroSentinel {
		return nil
	}
	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.Replace(clean, ",", ".", 1)
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return nil
	}
	return &v
}
