package bench

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/viant/annbench/catalog"
	"github.com/viant/annbench/index"
	"github.com/viant/annbench/record"
)

// DefaultK is the number of neighbors requested per query, self included.
const DefaultK = 33

// Job is one benchmark configuration.
type Job struct {
	Algorithm string       `mapstructure:"algorithm" yaml:"algorithm"`
	Metric    string       `mapstructure:"metric" yaml:"metric"`
	K         int          `mapstructure:"k" yaml:"k"`
	Params    index.Params `mapstructure:"params" yaml:"params"`
	// Extra is appended to the run name; empty means "_P<workers>".
	Extra string `mapstructure:"extra" yaml:"extra"`
}

func (j Job) withDefaults() Job {
	if j.Metric == "" {
		j.Metric = string(index.L2)
	}
	if j.K <= 0 {
		j.K = DefaultK
	}
	return j
}

// Recorder stores finished runs.
type Recorder interface {
	Insert(ctx context.Context, run *catalog.Run) (string, error)
}

// Options configures a Runner.
type Options struct {
	ResultsDir string
	SavesDir   string
	// Workers bounds concurrent searches; 0 means runtime.NumCPU().
	Workers int
	// Catalog, when set, receives every finished run.
	Catalog Recorder
}

func (o Options) withDefaults() Options {
	if o.ResultsDir == "" {
		o.ResultsDir = "results"
	}
	if o.SavesDir == "" {
		o.SavesDir = "saves"
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// Outcome describes a finished run.
type Outcome struct {
	RunID      string
	Name       string
	ResultPath string
	// IndexPath is empty when the index was not persisted.
	IndexPath string
	Record    *record.Record
}

// Name builds the artifact name of a run, e.g.
// "results.index.hnswL2_allknn_.M=32.efSearch=32.ml=0.25.seed=0_P8".
func Name(backend index.Backend, metric index.Metric, params index.Params, extra string) string {
	var sb strings.Builder
	sb.WriteString("results.index.")
	sb.WriteString(backend.Label)
	sb.WriteString(metric.Label())
	if len(backend.ParamNames) > 0 {
		sb.WriteString("_allknn_")
		for _, name := range backend.ParamNames {
			fmt.Fprintf(&sb, ".%s=%s", name, params.String(name, ""))
		}
	}
	sb.WriteString(extra)
	return sb.String()
}
