package file

import (
	"strconv"
	"strings"

	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/houses"
)

var tsvEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

// EscapeTSV escapes backslash, tab, newline and carriage return for the TabSeparated format.
func EscapeTSV(s string) string {
	return tsvEscaper.Replace(s)
}

// FormatFloat renders v the way a Python float repr does, e.g. 1234.0, 55.75, 1e-05 and 1e+16.
func FormatFloat(v float64) string {
	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp := 0
	if idx := strings.IndexByte(sci, 'e'); idx >= 0 {
		exp, _ = strconv.Atoi(sci[idx+1:])
	}
	if exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// FormatInt renders v without a decimal point.
func FormatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// FormatValue renders one field of an extract line.
// v must be nil, string, float64 or int64 as returned by houses.House.Values.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return constants.NullSentinel
	case int64:
		return FormatInt(x)
	case float64:
		return FormatFloat(x)
	case string:
		return EscapeTSV(x)
	default:
		return constants.NullSentinel
	}
}

// FormatHouse renders h as a tab separated line without the line terminator.
func FormatHouse(h houses.House) string {
	values := h.Values()
	fields := make([]string, len(values))
	for idx, v := range values {
		fields[idx] = FormatValue(v)
	}
	return strings.Join(fields, "\t")
}
