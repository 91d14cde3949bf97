package file

import (
	"strings"
	"testing"

	"github.com/relloyd/housepipe/houses"
)

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		1234:               "1234.0",
		55.75:              "55.75",
		0.0001:             "0.0001",
		0.00001:            "1e-05",
		1e16:               "1e+16",
		1234567890123456.0: "1234567890123456.0",
		-3.5:               "-3.5",
		0:                  "0.0",
	}
	for in, expected := range cases {
		if got := FormatFloat(in); got != expected {
			t.Fatalf("FormatFloat(%v): expected %q; got %q", in, expected, got)
		}
	}
}

func TestEscapeTSV(t *testing.T) {
	in := "a\\b\tc\nd\re"
	expected := `a\\b\tc\nd\re`
	if got := EscapeTSV(in); got != expected {
		t.Fatalf("expected %q; got %q", expected, got)
	}
}

func TestFormatHouse(t *testing.T) {
	// Test 1 - all nulls give 12 null sentinels.
	line := FormatHouse(houses.House{})
	fields := strings.Split(line, "\t")
	if len(fields) != 12 {
		t.Fatalf("expected 12 fields; got %v", len(fields))
	}
	for _, f := range fields {
		if f != `\N` {
			t.Fatalf("expected null sentinel; got %q", f)
		}
	}
	// Test 2 - typed values and escaping keep the field count.
	h := houses.FromRaw(map[string]string{
		houses.ColHouseId:         "42",
		houses.ColLatitude:        "55.75",
		houses.ColMaintenanceYear: "1950.0",
		houses.ColSquare:          "1 234",
		houses.ColPopulation:      "120",
		houses.ColDescription:     "line1\nline2\twith tab",
	})
	line = FormatHouse(h)
	fields = strings.Split(line, "\t")
	if len(fields) != 12 {
		t.Fatalf("expected 12 fields; got %v: %q", len(fields), line)
	}
	expected := []string{"42", "55.75", `\N`, "1950", "1234.0", "120", `\N`, `\N`, `\N`, `\N`, `\N`, `line1\nline2\twith tab`}
	for idx := range expected {
		if fields[idx] != expected[idx] {
			t.Fatalf("field %v: expected %q; got %q", houses.Columns[idx], expected[idx], fields[idx])
		}
	}
}
