package service

import (
	"testing"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1519.13", 1519.13},
		{"  42 ", 42},
		{"0", 0},
		{"", 0},
		{"N/A", 0},
		{"not a number", 0},
	}
	for _, tt := range tests {
		if got := parseDuration(tt.in); got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"71.6", f(0.716)},
		{"100", f(1)},
		{"0", f(0)},
		{"N/A", nil},
		{"", nil},
		{"garbage", nil},
	}
	for _, tt := range tests {
		got := parsePercent(tt.in)
		if (got == nil) != (tt.want == nil) {
			t.Errorf("parsePercent(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		if got != nil && *got != *tt.want {
			t.Errorf("parsePercent(%q) = %v, want %v", tt.in, *got, *tt.want)
		}
	}
}

func TestParseTSR(t *testing.T) {
	if got := parseTSR("N/A"); got != nil {
		t.Errorf("parseTSR(N/A) = %v, want nil", *got)
	}
	if got := parseTSR(""); got != nil {
		t.Errorf("parseTSR(empty) = %v, want nil", *got)
	}
	// TSR is free text and is not numerically validated.
	if got := parseTSR(" 290382,902 "); got == nil || *got != "290382,902" {
		t.Errorf("parseTSR should trim and keep the cell verbatim, got %v", got)
	}
}

func TestParseLocaleNumber(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"1.519,13", f(1519.13)},
		{"0,895", f(0.895)},
		{"1308,4", f(1308.4)},
		{"994,25", f(994.25)},
		{"#DIV/0!", nil},
		{"", nil},
		{"abc", nil},
	}
	for _, tt := range tests {
		got := ParseLocaleNumber(tt.in)
		if (got == nil) != (tt.want == nil) {
			t.Errorf("ParseLocaleNumber(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		if got != nil && *got != *tt.want {
			t.Errorf("ParseLocaleNumber(%q) = %v, want %v", tt.in, *got, *tt.want)
		}
	}
}

func f(v float64) *float64 { return &v }
