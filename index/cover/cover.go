// Package cover adapts the cover tree in internal/cover/tree to the index
// interface.
package cover

import (
	"fmt"
	"sync"

	"github.com/viant/annbench/index"
	"github.com/viant/annbench/internal/cover/tree"
)

func init() {
	index.Register(index.Backend{
		Name:       "cover",
		Label:      "Cover",
		ParamNames: []string{"base", "bound", "search"},
		Defaults:   index.Params{"base": "1.3", "bound": "node", "search": "dfs"},
		New: func(metric index.Metric, _ int, params index.Params) (index.Index, error) {
			base, err := params.Float("base", 1.3)
			if err != nil {
				return nil, err
			}
			return New(metric, Options{
				Base:      float32(base),
				Bound:     params.String("bound", "node"),
				BestFirst: params.String("search", "dfs") == "bestfirst",
			})
		},
	})
}

// Options configures the cover tree.
type Options struct {
	Base float32
	// Bound is "node" (per-node radius) or "level" (level bound).
	Bound     string
	BestFirst bool
}

// Index is a cover-tree index.
type Index struct {
	metric  index.Metric
	options Options
	mu      sync.RWMutex
	tree    *tree.Tree[int]
	ids     []int64
	vecs    [][]float32
	dim     int
}

// New creates an empty cover-tree index.
func New(metric index.Metric, options Options) (*Index, error) {
	switch options.Bound {
	case "", "node", "level":
	default:
		return nil, fmt.Errorf("cover: unsupported bound %q", options.Bound)
	}
	return &Index{metric: metric, options: options}, nil
}

func (i *Index) newTree() *tree.Tree[int] {
	m := i.metric.Tree()
	dist := func(p1, p2 *tree.Point) float32 {
		return m.Distance(p1.Vector, p1.Magnitude, p2.Vector, p2.Magnitude)
	}
	var magnitude func([]float32) float32
	if m == index.Cosine {
		magnitude = index.Magnitude
	}
	t := tree.NewTree[int](i.options.Base, dist, magnitude)
	if i.options.Bound == "level" {
		t.SetBoundStrategy(tree.BoundLevel)
	}
	return t
}

// Build inserts every vector into a fresh tree.
func (i *Index) Build(ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("cover: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	t := i.newTree()
	for j, vec := range vectors {
		if len(vec) != dim {
			return fmt.Errorf("cover: inconsistent vector dims %d vs %d", len(vec), dim)
		}
		t.Insert(j, tree.NewPoint(vec...))
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.tree = t
	i.ids = append([]int64(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.dim = dim
	return nil
}

// Search returns up to k ids ordered by ascending distance.
func (i *Index) Search(query []float32, k int) ([]int64, []float32, error) {
	i.mu.RLock()
	t, ids, dim := i.tree, i.ids, i.dim
	i.mu.RUnlock()
	if t == nil || len(ids) == 0 {
		return nil, nil, nil
	}
	if len(query) != dim {
		return nil, nil, fmt.Errorf("cover: query dim %d != index dim %d", len(query), dim)
	}
	if k <= 0 || k > len(ids) {
		k = len(ids)
	}
	point := tree.NewPoint(query...)
	if i.metric.Tree() == index.Cosine {
		point.Magnitude = index.Magnitude(query)
	}
	var found []*tree.Neighbor
	if i.options.BestFirst {
		found = t.KNearestNeighborsBestFirst(point, k)
	} else {
		found = t.KNearestNeighbors(point, k)
	}
	outIDs := make([]int64, len(found))
	outDists := make([]float32, len(found))
	for n, nb := range found {
		outIDs[n] = ids[t.Value(nb.Point)]
		outDists[n] = i.metric.Report(nb.Distance)
	}
	return outIDs, outDists, nil
}

// MarshalBinary stores the indexed vectors; the tree is rebuilt on load.
func (i *Index) MarshalBinary() ([]byte, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return index.EncodeVectors(i.ids, i.vecs)
}

// UnmarshalBinary restores vectors and rebuilds the tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := index.DecodeVectors(data)
	if err != nil {
		return fmt.Errorf("cover: %w", err)
	}
	return i.Build(ids, vecs)
}

// Save writes the index to path.
func (i *Index) Save(path string) error { return index.SaveBinary(path, i) }

// Load restores the index from path.
func (i *Index) Load(path string) error { return index.LoadBinary(path, i) }
