package actions

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"regexp"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/relloyd/housepipe/rdbms"
)

var reDefinitionSuffix = regexp.MustCompile(`.*\.(json|yaml|yml)$`)

// LoadPipelineFromFile reads a pipeline definition from a .yaml, .yml or .json file.
func LoadPipelineFromFile(fileName string) (*PipelineConfig, error) {
	raw, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	p := PipelineConfig{}
	suffix := reDefinitionSuffix.ReplaceAllString(strings.ToLower(fileName), `$1`)
	switch suffix {
	case "json":
		if err = json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("error reading pipeline JSON: %v", err)
		}
	case "yaml", "yml":
		b, err := yaml.YAMLToJSON(raw) // http://ghodss.com/2014/the-right-way-to-handle-yaml-in-golang/
		if err != nil {
			return nil, err
		}
		if err = json.Unmarshal(b, &p); err != nil {
			return nil, fmt.Errorf("error reading pipeline YAML after conversion to JSON: %v", err)
		}
	default:
		return nil, fmt.Errorf("unable to identify type of pipeline file by its extension. Please use .yaml or .json")
	}
	return &p, nil
}

// OutputPipelineDefinition writes p to w as "yaml" or "json".
// Passwords are removed unless includeSecrets is set.
func OutputPipelineDefinition(w io.Writer, p *PipelineConfig, yamlOrJson string, includeSecrets bool) error {
	d := *p
	if !includeSecrets {
		redactSecrets(&d)
	}
	var data []byte
	var err error
	switch strings.ToLower(yamlOrJson) {
	case "yaml":
		data, err = yaml.Marshal(d)
	case "json":
		data, err = json.MarshalIndent(d, "", "  ")
	default:
		return fmt.Errorf("unsupported output format %q", yamlOrJson)
	}
	if err != nil {
		return fmt.Errorf("unable to marshal the pipeline: %v", err)
	}
	_, err = w.Write(data)
	return err
}

func redactSecrets(p *PipelineConfig) {
	p.ClickHouse.Password = ""
	p.Relational.Password = ""
	if p.Relational.Dsn != "" {
		p.Relational.Dsn = rdbms.DsnConnectionDetails{Dsn: p.Relational.Dsn}.String()
	}
}
