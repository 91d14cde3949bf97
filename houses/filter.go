package houses

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/diegoholiveira/jsonlogic"
	"github.com/pkg/errors"
)

// Filter keeps records for which a JSON Logic rule evaluates to true.
type Filter struct {
	rule   string
	result bytes.Buffer
}

// NewFilter validates rule and returns a Filter.
// An example rule: {">": [{"var": "square"}, 60]}
func NewFilter(rule string) (*Filter, error) {
	if !jsonlogic.IsValid(strings.NewReader(rule)) {
		return nil, fmt.Errorf("invalid JSON Logic filter rule: %v", rule)
	}
	return &Filter{rule: rule}, nil
}

// Match applies the rule to h.
// A Filter is not safe for concurrent use.
func (f *Filter) Match(h House) (bool, error) {
	data, err := json.Marshal(h.Map())
	if err != nil {
		return false, errors.Wrap(err, "error marshalling record before applying JSON Logic")
	}
	f.result.Reset()
	if err = jsonlogic.Apply(strings.NewReader(f.rule), bytes.NewReader(data), &f.result); err != nil {
		return false, errors.Wrap(err, "error applying JSON Logic")
	}
	return strings.TrimSpace(f.result.String()) == "true", nil
}
