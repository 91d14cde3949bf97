package file

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/relloyd/housepipe/helper"
)

// HeadLines returns up to n lines from the start of path, each truncated to maxChars.
// Line terminators are removed.
func HeadLines(path string, n int, maxChars int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)
	lines := make([]string, 0, n)
	for len(lines) < n {
		s, err := r.ReadString('\n')
		if s != "" {
			s = strings.TrimRight(s, "\r\n")
			lines = append(lines, helper.Truncate(s, maxChars))
		}
		if err == io.EOF {
			break
		} else if err != nil {
			return lines, err
		}
	}
	return lines, nil
}
