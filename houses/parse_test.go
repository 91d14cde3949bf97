package houses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSquare(t *testing.T) {
	cases := []struct {
		in       string
		expected float64
	}{
		{"12,5", 12.5},
		{"1 234", 1234},
		{"1 234,75", 1234.75},
		{" 60 ", 60},
		{"55.5", 55.5},
	}
	for _, c := range cases {
		got := ParseSquare(c.in)
		require.NotNil(t, got, "input %q", c.in)
		assert.Equal(t, c.expected, *got, "input %q", c.in)
	}
	for _, in := range []string{"", "abc", "12,5,1", "NaN", "inf"} {
		assert.Nil(t, ParseSquare(in), "input %q", in)
	}
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		in       string
		expected int64
	}{
		{"1950", 1950},
		{"1950.0", 1950},
		{"1950.9", 1950},
		{"-3.7", -3},
		{" 42 ", 42},
	}
	for _, c := range cases {
		got := ParseInt(c.in)
		require.NotNil(t, got, "input %q", c.in)
		assert.Equal(t, c.expected, *got, "input %q", c.in)
	}
	for _, in := range []string{"", "n/a", "3000000000", "1e12"} {
		assert.Nil(t, ParseInt(in), "input %q", in)
	}
}

func TestParseText(t *testing.T) {
	assert.Nil(t, ParseText(""))
	got := ParseText(" Москва ")
	require.NotNil(t, got)
	assert.Equal(t, " Москва ", *got)
	// Missing value markers.
	for _, v := range []string{"NULL", "null", "NA", "N/A", "n/a", "nan", "NaN", "None", "#N/A", "<NA>"} {
		assert.Nil(t, ParseText(v), "value %q", v)
	}
	// Near misses are kept.
	for _, v := range []string{"Null", "none", " NA", "Moscow"} {
		got = ParseText(v)
		require.NotNil(t, got, "value %q", v)
		assert.Equal(t, v, *got)
	}
}

func TestYearIsValid(t *testing.T) {
	year := func(i int64) *int64 { return &i }
	assert.False(t, YearIsValid(nil))
	assert.False(t, YearIsValid(year(1700)))
	assert.False(t, YearIsValid(year(2030)))
	assert.True(t, YearIsValid(year(1950)))
	assert.True(t, YearIsValid(year(MinValidYear)))
	assert.True(t, YearIsValid(year(MaxValidYear)))
}
