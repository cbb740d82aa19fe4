package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/annbench/index"
)

func TestParseSuite(t *testing.T) {
	t.Setenv("MNIST_PATH", "/data/mnist.gz")
	suite, err := ParseSuite([]byte(`
name: mnist-sweep
dataset:
  source: idx
  name: mnist
  path: ${MNIST_PATH}
jobs:
  - algorithm: flat
  - algorithm: hnsw
    metric: cosine
    k: 10
    params: {M: 32, efSearch: 64}
    extra: _efC40
`))
	require.NoError(t, err)
	assert.Equal(t, "mnist-sweep", suite.Name)
	assert.Equal(t, "/data/mnist.gz", suite.Dataset.Path)
	require.Len(t, suite.Jobs, 2)
	assert.Equal(t, "flat", suite.Jobs[0].Algorithm)
	assert.Equal(t, index.Params{"M": "32", "efSearch": "64"}, suite.Jobs[1].Params)
	assert.Equal(t, 10, suite.Jobs[1].K)
}

func TestParseSuite_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"no jobs":       "name: x\njobs: []\n",
		"no algorithm":  "jobs:\n  - metric: l2\n",
		"unknown field": "jobs:\n  - algorithm: flat\n    effort: max\n",
		"bad yaml":      "jobs: [",
	}
	for name, data := range cases {
		_, err := ParseSuite([]byte(data))
		assert.Error(t, err, name)
	}
}

func TestLoadSuite(t *testing.T) {
	path := writeConfig(t, "suite.yaml", "jobs:\n  - algorithm: vptree\n")
	suite, err := LoadSuite(path)
	require.NoError(t, err)
	assert.Equal(t, "vptree", suite.Jobs[0].Algorithm)

	_, err = LoadSuite(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
