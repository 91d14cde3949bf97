package houses

import (
	"math"
	"strconv"
	"strings"
)

// squareReplacer removes thousands separators and normalises the decimal separator.
var squareReplacer = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", ",", ".")

// ParseSquare cleans a floor area value such as "1 234,5" and returns it as a float.
// Invalid input returns nil.
func ParseSquare(s string) *float64 {
	return ParseFloat(squareReplacer.Replace(s))
}

// ParseFloat returns nil for empty, invalid or non-finite values.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParseInt accepts integers and decimals, truncating the latter toward zero.
// Values outside the 32-bit range are null, matching an integer column cast.
func ParseInt(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int32OrNil(i)
	}
	f := ParseFloat(s)
	if f == nil {
		return nil
	}
	t := math.Trunc(*f)
	if t < math.MinInt32 || t > math.MaxInt32 {
		return nil
	}
	return int32OrNil(int64(t))
}

func int32OrNil(i int64) *int64 {
	if i < math.MinInt32 || i > math.MaxInt32 {
		return nil
	}
	return &i
}

// naTokens are the cell values read as missing, in addition to the empty string.
// Matching is exact and case sensitive so "Null" or " NA" stay as text.
var naTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {},
	"None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether s is empty or one of the missing value markers.
func IsMissing(s string) bool {
	if s == "" {
		return true
	}
	_, ok := naTokens[s]
	return ok
}

// ParseText returns nil for a missing value, otherwise the value unchanged.
func ParseText(s string) *string {
	if IsMissing(s) {
		return nil
	}
	return &s
}
