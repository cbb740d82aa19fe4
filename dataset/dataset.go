package dataset

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownSource is returned by Load for unsupported sources.
var ErrUnknownSource = errors.New("dataset: unknown source")

// Supported sources.
const (
	SourceIDX       = "idx"
	SourceFvecs     = "fvecs"
	SourceBvecs     = "bvecs"
	SourceSQLite    = "sqlite"
	SourcePostgres  = "postgres"
	SourceSynthetic = "synthetic"
)

// Dataset is a named set of vectors with stable identifiers. Every vector is
// both indexed and used as a query.
type Dataset struct {
	Name    string
	IDs     []int64
	Vectors [][]float32
}

// Len returns the number of vectors.
func (d *Dataset) Len() int { return len(d.Vectors) }

// Dim returns the vector dimension, or 0 for an empty dataset.
func (d *Dataset) Dim() int {
	if len(d.Vectors) == 0 {
		return 0
	}
	return len(d.Vectors[0])
}

// Validate checks the dataset is non-empty with consistent dimensions and
// unique ids.
func (d *Dataset) Validate() error {
	if len(d.Vectors) == 0 {
		return fmt.Errorf("dataset %q: no vectors", d.Name)
	}
	if len(d.IDs) != len(d.Vectors) {
		return fmt.Errorf("dataset %q: %d ids for %d vectors", d.Name, len(d.IDs), len(d.Vectors))
	}
	dim := d.Dim()
	if dim == 0 {
		return fmt.Errorf("dataset %q: zero-dimensional vectors", d.Name)
	}
	seen := make(map[int64]struct{}, len(d.IDs))
	for i, v := range d.Vectors {
		if len(v) != dim {
			return fmt.Errorf("dataset %q: vector %d has dim %d, want %d", d.Name, i, len(v), dim)
		}
		if _, dup := seen[d.IDs[i]]; dup {
			return fmt.Errorf("dataset %q: duplicate id %d", d.Name, d.IDs[i])
		}
		seen[d.IDs[i]] = struct{}{}
	}
	return nil
}

// Truncate keeps the first n vectors when n is positive and smaller than
// the dataset.
func (d *Dataset) Truncate(n int) {
	if n > 0 && n < len(d.Vectors) {
		d.IDs = d.IDs[:n]
		d.Vectors = d.Vectors[:n]
	}
}

// Positional wraps vectors with ids 0..n-1.
func Positional(name string, vectors [][]float32) *Dataset {
	ids := make([]int64, len(vectors))
	for i := range ids {
		ids[i] = int64(i)
	}
	return &Dataset{Name: name, IDs: ids, Vectors: vectors}
}

// Config selects and parameterizes a dataset source.
type Config struct {
	// Source is one of idx, fvecs, bvecs, sqlite, postgres, synthetic.
	Source string `mapstructure:"source" yaml:"source"`
	// Name labels results; it defaults to the file name without extension.
	Name string `mapstructure:"name" yaml:"name"`
	// Path is the data file, or the SQLite database for the sqlite source.
	Path string `mapstructure:"path" yaml:"path"`
	// Table and Column locate vectors in Postgres.
	Table  string `mapstructure:"table" yaml:"table"`
	Column string `mapstructure:"column" yaml:"column"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
	// Limit keeps the first Limit vectors when positive.
	Limit int `mapstructure:"limit" yaml:"limit"`
	// Count, Dim and Seed shape synthetic data.
	Count int   `mapstructure:"count" yaml:"count"`
	Dim   int   `mapstructure:"dim" yaml:"dim"`
	Seed  int64 `mapstructure:"seed" yaml:"seed"`
}

// DisplayName returns Name or a name derived from the source.
func (c Config) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	switch c.Source {
	case SourcePostgres:
		return c.Table
	case SourceSynthetic:
		return fmt.Sprintf("synthetic-%dx%d", c.Count, c.Dim)
	}
	base := c.Path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	for _, ext := range []string{".gz", ".fvecs", ".bvecs", ".sqlite", ".db", ".idx"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Loader reads a dataset for cfg.
type Loader func(ctx context.Context, cfg Config) (*Dataset, error)

var loaders = map[string]Loader{
	SourceIDX:       loadIDX,
	SourceFvecs:     loadFvecs,
	SourceBvecs:     loadBvecs,
	SourceSQLite:    loadSQLite,
	SourcePostgres:  loadPostgres,
	SourceSynthetic: loadSynthetic,
}

// Sources lists the supported source names.
func Sources() []string {
	out := make([]string, 0, len(loaders))
	for name := range loaders {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Load reads and validates the dataset described by cfg.
func Load(ctx context.Context, cfg Config) (*Dataset, error) {
	load, ok := loaders[strings.ToLower(cfg.Source)]
	if !ok {
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownSource, cfg.Source, strings.Join(Sources(), ", "))
	}
	ds, err := load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ds.Name = cfg.DisplayName()
	ds.Truncate(cfg.Limit)
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}
