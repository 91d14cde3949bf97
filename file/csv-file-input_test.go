package file

import (
	"io"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

const testCSV = " house_id , latitude,square,region\n1,55.1,\"12,5\",Москва\n2,56.2\n"

func TestHouseCSVReaderUtf8(t *testing.T) {
	r, err := NewHouseCSVReader(strings.NewReader(testCSV), "auto")
	if err != nil {
		t.Fatal(err)
	}
	h := r.Header()
	if h[0] != "house_id" || h[1] != "latitude" {
		t.Fatalf("expected trimmed header; got %q", h)
	}
	rec, err := r.Read()
	if err != nil {
		t.Fatal(err)
	}
	if rec["square"] != "12,5" || rec["region"] != "Москва" {
		t.Fatalf("unexpected record %v", rec)
	}
	if r.Line() != 2 {
		t.Fatalf("expected line 2; got %v", r.Line())
	}
	rec, err = r.Read()
	if err != nil {
		t.Fatal(err)
	}
	if rec["region"] != "" || rec["latitude"] != "56.2" {
		t.Fatalf("expected short row to be padded; got %v", rec)
	}
	if _, err = r.Read(); err != io.EOF {
		t.Fatalf("expected io.EOF; got %v", err)
	}
}

func TestHouseCSVReaderUtf16(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(testCSV)
	if err != nil {
		t.Fatal(err)
	}
	for _, enc := range []string{"auto", "utf-16"} {
		r, err := NewHouseCSVReader(strings.NewReader(encoded), enc)
		if err != nil {
			t.Fatal(enc, ": ", err)
		}
		if r.Header()[0] != "house_id" {
			t.Fatalf("%v: expected BOM to be removed; got %q", enc, r.Header()[0])
		}
		rec, err := r.Read()
		if err != nil {
			t.Fatal(enc, ": ", err)
		}
		if rec["region"] != "Москва" {
			t.Fatalf("%v: unexpected region %q", enc, rec["region"])
		}
	}
}

func TestHouseCSVReaderUtf16NoBOM(t *testing.T) {
	for _, endian := range []unicode.Endianness{unicode.LittleEndian, unicode.BigEndian} {
		encoded, err := unicode.UTF16(endian, unicode.IgnoreBOM).NewEncoder().String(testCSV)
		if err != nil {
			t.Fatal(err)
		}
		r, err := NewHouseCSVReader(strings.NewReader(encoded), "auto")
		if err != nil {
			t.Fatal(err)
		}
		expected := []string{"house_id", "latitude", "square", "region"}
		for idx, name := range expected {
			if r.Header()[idx] != name {
				t.Fatalf("endian %v: expected header %q; got %q", endian, name, r.Header()[idx])
			}
		}
		rec, err := r.Read()
		if err != nil {
			t.Fatal(err)
		}
		if rec["region"] != "Москва" || rec["square"] != "12,5" {
			t.Fatalf("endian %v: unexpected record %v", endian, rec)
		}
	}
}

func TestSniffEncoding(t *testing.T) {
	// Test 1 - plain UTF-8, including Cyrillic, has no NUL bytes.
	if sniffEncoding([]byte("house_id,region\n1,Москва\n")) != unicode.UTF8 {
		t.Fatal("test 1 failed: expected UTF-8")
	}
	// Test 2 - too short to tell.
	if sniffEncoding([]byte{'h'}) != unicode.UTF8 {
		t.Fatal("test 2 failed: expected UTF-8")
	}
	// Test 3 - little endian UTF-16 has NULs at odd positions.
	le := []byte{'h', 0, 'o', 0, 'u', 0, 's', 0}
	if sniffEncoding(le) == unicode.UTF8 {
		t.Fatal("test 3 failed: expected UTF-16")
	}
}

func TestHouseCSVReaderErrors(t *testing.T) {
	if _, err := NewHouseCSVReader(strings.NewReader(""), "auto"); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := NewHouseCSVReader(strings.NewReader(testCSV), "latin1"); err == nil {
		t.Fatal("expected error for unsupported encoding")
	}
}
