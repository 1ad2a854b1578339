package emitter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Samples are the values that the user chose for the feasible cases.
type Samples struct {
	Cases []Sample `yaml:"cases" json:"cases"`
}

// Sample provides the parameter values for one feasible case.
type Sample struct {
	Case   int               `yaml:"case" json:"case"` // 1-based, see casetable.Result.Case
	Name   string            `yaml:"name" json:"name"`
	Values map[string]string `yaml:"values" json:"values"` // Go literals, by parameter name
}

// complete tells whether the sample has a name and a value for each of the
// given parameters. Incomplete samples don't produce a test.
func (s Sample) complete(params []string) bool {
	if s.Name == "" {
		return false
	}
	for _, p := range params {
		if s.Values[p] == "" {
			return false
		}
	}
	return true
}

// ParseSamples decodes the YAML representation of the samples.
func ParseSamples(data []byte) (Samples, error) {
	var samples Samples
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&samples); err != nil && !errors.Is(err, io.EOF) {
		return Samples{}, fmt.Errorf("samples: %w", err)
	}
	return samples, nil
}

func LoadSamples(filename string) (Samples, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Samples{}, err
	}
	samples, err := ParseSamples(data)
	if err != nil {
		return Samples{}, fmt.Errorf("%s: %w", filename, err)
	}
	return samples, nil
}
