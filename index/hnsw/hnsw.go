// Package hnsw provides an approximate index backed by the hierarchical
// navigable small world graph of github.com/coder/hnsw.
package hnsw

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/coder/hnsw"

	"github.com/viant/annbench/index"
)

func init() {
	index.Register(index.Backend{
		Name:       "hnsw",
		Label:      "hnsw",
		ParamNames: []string{"M", "efSearch", "ml", "seed"},
		Defaults:   index.Params{"M": "16", "efSearch": "20", "ml": "0.25", "seed": "0"},
		New: func(metric index.Metric, _ int, params index.Params) (index.Index, error) {
			var opts Options
			var err error
			if opts.M, err = params.Int("M", 16); err != nil {
				return nil, err
			}
			if opts.EfSearch, err = params.Int("efSearch", 20); err != nil {
				return nil, err
			}
			if opts.Ml, err = params.Float("ml", 0.25); err != nil {
				return nil, err
			}
			seed, err := params.Int("seed", 0)
			if err != nil {
				return nil, err
			}
			opts.Seed = int64(seed)
			return New(metric, opts)
		},
	})
}

// Options configures graph construction and search.
type Options struct {
	M        int
	EfSearch int
	Ml       float64
	Seed     int64
}

// Index wraps an hnsw.Graph keyed by vector id.
type Index struct {
	metric  index.Metric
	options Options
	mu      sync.RWMutex
	graph   *hnsw.Graph[int64]
	dim     int
}

// New creates an empty index.
func New(metric index.Metric, options Options) (*Index, error) {
	if options.M <= 0 {
		return nil, fmt.Errorf("hnsw: M must be positive, got %d", options.M)
	}
	if options.EfSearch <= 0 {
		return nil, fmt.Errorf("hnsw: efSearch must be positive, got %d", options.EfSearch)
	}
	if options.Ml <= 0 || options.Ml > 1 {
		return nil, fmt.Errorf("hnsw: ml must be in (0, 1], got %v", options.Ml)
	}
	return &Index{metric: metric, options: options}, nil
}

func (i *Index) newGraph() *hnsw.Graph[int64] {
	g := hnsw.NewGraph[int64]()
	g.M = i.options.M
	g.EfSearch = i.options.EfSearch
	g.Ml = i.options.Ml
	g.Rng = rand.New(rand.NewSource(i.options.Seed))
	if i.metric == index.Cosine {
		g.Distance = hnsw.CosineDistance
	} else {
		g.Distance = hnsw.EuclideanDistance
	}
	return g
}

// Build adds every vector to a fresh graph.
func (i *Index) Build(ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("hnsw: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	nodes := make([]hnsw.Node[int64], len(ids))
	for j, vec := range vectors {
		if len(vec) != dim {
			return fmt.Errorf("hnsw: inconsistent vector dims %d vs %d", len(vec), dim)
		}
		nodes[j] = hnsw.MakeNode(ids[j], vec)
	}
	g := i.newGraph()
	if len(nodes) > 0 {
		g.Add(nodes...)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.graph = g
	i.dim = dim
	return nil
}

// Len returns the number of nodes in the graph.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.graph == nil {
		return 0
	}
	return i.graph.Len()
}

// Search returns up to k approximate neighbors ordered by ascending distance.
func (i *Index) Search(query []float32, k int) ([]int64, []float32, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.graph == nil || i.graph.Len() == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("hnsw: query dim %d != index dim %d", len(query), i.dim)
	}
	if n := i.graph.Len(); k <= 0 || k > n {
		k = n
	}
	found := i.graph.Search(query, k)
	top := index.NewTopK(len(found))
	qm := index.Magnitude(query)
	for n, node := range found {
		top.Push(n, i.metric.Distance(query, qm, node.Value, 0))
	}
	sorted := top.Sorted()
	ids := make([]int64, len(sorted))
	dists := make([]float32, len(sorted))
	for n, c := range sorted {
		ids[n] = found[c.Pos].Key
		dists[n] = c.Distance
	}
	return ids, dists, nil
}

// Save exports the graph to path.
func (i *Index) Save(path string) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.graph == nil {
		return fmt.Errorf("hnsw: save %s: index not built", path)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("hnsw: create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("hnsw: create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := i.graph.Export(w); err != nil {
		f.Close()
		return fmt.Errorf("hnsw: export %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("hnsw: write %s: %w", path, err)
	}
	return f.Close()
}

// Load imports a graph written by Save.
func (i *Index) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("hnsw: open %s: %w", path, err)
	}
	defer f.Close()
	g := i.newGraph()
	if err := g.Import(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("hnsw: import %s: %w", path, err)
	}
	dim := 0
	if g.Len() > 0 {
		dim = g.Dims()
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.graph = g
	i.dim = dim
	return nil
}
