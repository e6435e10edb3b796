package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Any in-range percentage survives parsing, with either decimal separator.
func TestParsePercentageRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		whole := rapid.IntRange(0, 100).Draw(t, "whole")
		frac := rapid.IntRange(0, 99).Draw(t, "frac")
		if whole == 100 {
			frac = 0
		}
		useComma := rapid.Bool().Draw(t, "useComma")

		s := fmt.Sprintf("%d.%02d", whole, frac)
		if useComma {
			s = strings.ReplaceAll(s, ".", ",")
		}

		got, err := ParsePercentage(s)
		if err != nil {
			t.Fatalf("ParsePercentage(%q): %v", s, err)
		}

		want := float64(whole) + float64(frac)/100
		if diff := got - want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("ParsePercentage(%q) = %v, want %v", s, got, want)
		}
	})
}

// Out-of-range values clamp instead of failing.
func TestParsePercentageClampProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		value := rapid.Float64Range(-1e6, 1e6).Draw(t, "value")
		s := fmt.Sprintf("%f", value)

		got, err := ParsePercentage(s)
		if err != nil {
			t.Fatalf("ParsePercentage(%q): %v", s, err)
		}
		if got < 0 || got > 100 {
			t.Fatalf("ParsePercentage(%q) = %v, outside [0,100]", s, got)
		}
	})
}

func TestParsePercentageInvalid(t *testing.T) {
	for _, s := range []string{"", "abc", "12,3,4", "50%"} {
		_, err := ParsePercentage(s)
		assert.ErrorIs(t, err, ErrInvalidNumber, "input %q", s)
	}
}

func TestParseNonNegativeInt(t *testing.T) {
	value, err := parseNonNegativeInt(" 1500 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), value)

	for _, s := range []string{"-1", "1.5", "abc", ""} {
		_, err := parseNonNegativeInt(s)
		assert.ErrorIs(t, err, ErrInvalidNumber, "input %q", s)
	}
}
