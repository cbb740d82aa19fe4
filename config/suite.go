package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viant/annbench/bench"
	"github.com/viant/annbench/dataset"
)

// Suite is a named list of jobs over one dataset.
//
//	name: mnist-sweep
//	dataset:
//	  source: idx
//	  name: mnist
//	  path: data/train-images-idx3-ubyte.gz
//	jobs:
//	  - algorithm: flat
//	  - algorithm: hnsw
//	    params: {M: 32, efSearch: 32}
//	    extra: _efC40
type Suite struct {
	Name    string         `yaml:"name"`
	Dataset dataset.Config `yaml:"dataset"`
	Jobs    []bench.Job    `yaml:"jobs"`
}

// ParseSuite decodes a YAML suite. ${VAR} references are expanded from the
// environment first, and unknown fields are rejected.
func ParseSuite(data []byte) (*Suite, error) {
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	var suite Suite
	if err := dec.Decode(&suite); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("config: suite is empty")
		}
		return nil, fmt.Errorf("config: parse suite: %w", err)
	}
	if len(suite.Jobs) == 0 {
		return nil, fmt.Errorf("config: suite %q has no jobs", suite.Name)
	}
	for i, job := range suite.Jobs {
		if job.Algorithm == "" {
			return nil, fmt.Errorf("config: suite %q job %d has no algorithm", suite.Name, i)
		}
	}
	return &suite, nil
}

// LoadSuite reads and parses the suite file at path.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read suite: %w", err)
	}
	return ParseSuite(data)
}
