package analysis

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const nullText = "null"

// Render writes the summary as titled text tables.
// At most showRows rows are printed for the per region tables.
func (s Summary) Render(w io.Writer, showRows int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total rows in input: %v\n", s.TotalRows)
	fmt.Fprintf(&b, "Empty rows: %v\n", s.EmptyRows)
	fmt.Fprintf(&b, "Invalid maintenance years: %v\n", s.InvalidYears)
	if s.MeanYear != nil {
		fmt.Fprintf(&b, "Mean maintenance year: %.2f\n", *s.MeanYear)
	} else {
		fmt.Fprintf(&b, "Mean maintenance year: %v\n", nullText)
	}
	if s.MedianYear != nil {
		fmt.Fprintf(&b, "Median maintenance year: %v\n", *s.MedianYear)
	} else {
		fmt.Fprintf(&b, "Median maintenance year: %v\n", nullText)
	}

	b.WriteString(fmt.Sprintf("Top %v regions by number of buildings:\n", len(s.TopRegions)))
	writeTable(&b, []string{"region", "count"}, groupRows(s.TopRegions), -1)
	b.WriteString(fmt.Sprintf("Top %v localities by number of buildings:\n", len(s.TopLocalities)))
	writeTable(&b, []string{"locality_name", "count"}, groupRows(s.TopLocalities), -1)

	hdr := []string{"region", "locality_name", "square", "maintenance_year"}
	fmt.Fprintf(&b, "Buildings with the largest area per region (first %v):\n", showRows)
	writeTable(&b, hdr, squareRows(s.MaxSquareByRegion), showRows)
	fmt.Fprintf(&b, "Buildings with the smallest area per region (first %v):\n", showRows)
	writeTable(&b, hdr, squareRows(s.MinSquareByRegion), showRows)

	b.WriteString("Buildings per decade:\n")
	writeTable(&b, []string{"decade", "count"}, decadeRows(s.Decades), -1)

	_, err := io.WriteString(w, b.String())
	return err
}

func groupRows(g []GroupCount) [][]string {
	rows := make([][]string, len(g))
	for idx, v := range g {
		rows[idx] = []string{strOrNull(v.Key), fmt.Sprint(v.Count)}
	}
	return rows
}

func squareRows(r []RegionSquare) [][]string {
	rows := make([][]string, len(r))
	for idx, v := range r {
		rows[idx] = []string{strOrNull(v.Region), strOrNull(v.LocalityName), fmt.Sprint(v.Square), intOrNull(v.MaintenanceYear)}
	}
	return rows
}

func decadeRows(d []DecadeCount) [][]string {
	rows := make([][]string, len(d))
	for idx, v := range d {
		rows[idx] = []string{intOrNull(v.Decade), fmt.Sprint(v.Count)}
	}
	return rows
}

// writeTable draws a bordered, left aligned table.
// A limit >= 0 caps the rows printed and adds a footer saying so.
func writeTable(b *strings.Builder, header []string, rows [][]string, limit int) {
	shown := rows
	if limit >= 0 && len(rows) > limit {
		shown = rows[:limit]
	}
	widths := make([]int, len(header))
	for idx, h := range header {
		widths[idx] = utf8.RuneCountInString(h)
	}
	for _, r := range shown {
		for idx, c := range r {
			if n := utf8.RuneCountInString(c); n > widths[idx] {
				widths[idx] = n
			}
		}
	}
	sep := func() {
		b.WriteString("+")
		for _, w := range widths {
			b.WriteString(strings.Repeat("-", w))
			b.WriteString("+")
		}
		b.WriteString("\n")
	}
	line := func(cells []string) {
		b.WriteString("|")
		for idx, c := range cells {
			b.WriteString(c)
			b.WriteString(strings.Repeat(" ", widths[idx]-utf8.RuneCountInString(c)))
			b.WriteString("|")
		}
		b.WriteString("\n")
	}
	sep()
	line(header)
	sep()
	for _, r := range shown {
		line(r)
	}
	sep()
	if len(shown) < len(rows) {
		fmt.Fprintf(b, "only showing top %v rows\n", len(shown))
	}
}

func strOrNull(s *string) string {
	if s == nil {
		return nullText
	}
	return strings.NewReplacer("\n", "\\n", "\t", "\\t").Replace(*s)
}

func intOrNull(i *int64) string {
	if i == nil {
		return nullText
	}
	return fmt.Sprint(*i)
}
