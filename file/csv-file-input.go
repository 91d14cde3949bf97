package file

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/relloyd/housepipe/constants"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// HouseCSVReader reads a comma separated file with a header row into maps keyed by column name.
type HouseCSVReader struct {
	csvReader *csv.Reader
	header    []string
	line      int
}

// NewHouseCSVReader decodes r using enc and reads the header row.
// Supported encodings are constants.EncodingAuto, constants.EncodingUtf8 and constants.EncodingUtf16.
// Auto uses a UTF-8 or UTF-16 byte order mark when there is one, else it looks for the NUL
// bytes of UTF-16 text in the first bytes of r, and falls back to UTF-8.
func NewHouseCSVReader(r io.Reader, enc string) (*HouseCSVReader, error) {
	var decoded io.Reader
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case constants.EncodingAuto, "":
		br := bufio.NewReaderSize(r, sniffLen)
		head, _ := br.Peek(sniffLen)
		decoded = transform.NewReader(br, unicode.BOMOverride(sniffEncoding(head).NewDecoder()))
	case constants.EncodingUtf8, "utf8":
		decoded = transform.NewReader(r, unicode.UTF8.NewDecoder())
	case constants.EncodingUtf16, "utf16":
		decoded = transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
	default:
		return nil, fmt.Errorf("unsupported input encoding %q", enc)
	}
	c := csv.NewReader(decoded)
	c.FieldsPerRecord = -1
	c.LazyQuotes = true
	header, err := c.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input has no header row")
	} else if err != nil {
		return nil, fmt.Errorf("error reading header row: %w", err)
	}
	for idx := range header {
		header[idx] = strings.TrimSpace(strings.TrimPrefix(header[idx], "\ufeff"))
	}
	return &HouseCSVReader{csvReader: c, header: header}, nil
}

const sniffLen = 512

// sniffEncoding guesses the encoding of text without a byte order mark.
// UTF-16 text that is mostly ASCII has a NUL in every other byte: odd positions for
// little endian, even positions for big endian.
func sniffEncoding(head []byte) encoding.Encoding {
	n := len(head) &^ 1
	if n < 2 || bytes.IndexByte(head[:n], 0) < 0 {
		return unicode.UTF8
	}
	even, odd := 0, 0
	for i := 0; i < n; i += 2 {
		if head[i] == 0 {
			even++
		}
		if head[i+1] == 0 {
			odd++
		}
	}
	pairs := n / 2
	switch {
	case odd*2 > pairs && odd > even:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case even*2 > pairs && even > odd:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	}
	return unicode.UTF8
}

// Header returns the trimmed column names.
func (r *HouseCSVReader) Header() []string {
	return r.header
}

// Line returns the input line on which the last record read started.
func (r *HouseCSVReader) Line() int {
	return r.line
}

// Read returns the next record keyed by column name.
// Columns missing from a short row have empty values; extra fields are ignored.
// It returns io.EOF when there are no more records.
func (r *HouseCSVReader) Read() (map[string]string, error) {
	rec, err := r.csvReader.Read()
	if err != nil {
		return nil, err
	}
	r.line, _ = r.csvReader.FieldPos(0)
	m := make(map[string]string, len(r.header))
	for idx, name := range r.header {
		if idx < len(rec) {
			m[name] = rec[idx]
		} else {
			m[name] = ""
		}
	}
	return m, nil
}
