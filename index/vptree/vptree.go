// Package vptree implements a vantage-point tree index. Each node splits its
// subtree at the median distance to a vantage point, and queries prune
// branches with the triangle inequality.
package vptree

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/viant/annbench/index"
)

func init() {
	index.Register(index.Backend{
		Name:     "vptree",
		Label:    "VPtree",
		Defaults: index.Params{"seed": "0"},
		New: func(metric index.Metric, _ int, params index.Params) (index.Index, error) {
			seed, err := params.Int("seed", 0)
			if err != nil {
				return nil, err
			}
			return New(metric, int64(seed)), nil
		},
	})
}

// Index is a VP-tree over the metric's tree form.
type Index struct {
	metric index.Metric
	tree   index.Metric
	seed   int64
	ids    []int64
	vecs   [][]float32
	mags   []float32
	dim    int
	root   *node
}

type node struct {
	idx   int
	thr   float32
	left  *node
	right *node
}

// New creates an empty index. A zero seed picks the last point of every
// partition as its vantage point; any other seed picks it at random.
func New(metric index.Metric, seed int64) *Index {
	return &Index{metric: metric, tree: metric.Tree(), seed: seed}
}

// Build constructs the tree and caches magnitudes.
func (i *Index) Build(ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("vptree: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	i.ids = append([]int64(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.mags = make([]float32, len(vectors))
	i.root = nil
	if len(vectors) == 0 {
		i.dim = 0
		return nil
	}
	i.dim = len(vectors[0])
	for j := range vectors {
		if len(vectors[j]) != i.dim {
			return fmt.Errorf("vptree: inconsistent vector dims %d vs %d", len(vectors[j]), i.dim)
		}
		if i.tree == index.Cosine {
			i.mags[j] = index.Magnitude(vectors[j])
		}
	}
	var rng *rand.Rand
	if i.seed != 0 {
		rng = rand.New(rand.NewSource(i.seed))
	}
	idxs := make([]int, len(vectors))
	for k := range idxs {
		idxs[k] = k
	}
	i.root = i.build(idxs, rng)
	return nil
}

func (i *Index) distance(a int, q []float32, qm float32) float32 {
	return i.tree.Distance(q, qm, i.vecs[a], i.mags[a])
}

func (i *Index) build(idxs []int, rng *rand.Rand) *node {
	if len(idxs) == 0 {
		return nil
	}
	if rng != nil {
		k := rng.Intn(len(idxs))
		idxs[k], idxs[len(idxs)-1] = idxs[len(idxs)-1], idxs[k]
	}
	vp := idxs[len(idxs)-1]
	idxs = idxs[:len(idxs)-1]
	if len(idxs) == 0 {
		return &node{idx: vp}
	}
	dists := make(map[int]float32, len(idxs))
	for _, j := range idxs {
		dists[j] = i.distance(j, i.vecs[vp], i.mags[vp])
	}
	sort.Slice(idxs, func(a, b int) bool { return dists[idxs[a]] < dists[idxs[b]] })
	mid := len(idxs) / 2
	left := append([]int(nil), idxs[:mid+1]...)
	right := append([]int(nil), idxs[mid+1:]...)
	return &node{
		idx:   vp,
		thr:   dists[idxs[mid]],
		left:  i.build(left, rng),
		right: i.build(right, rng),
	}
}

// Search returns up to k ids ordered by ascending distance.
func (i *Index) Search(query []float32, k int) ([]int64, []float32, error) {
	if i.dim == 0 || len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("vptree: query dim %d != index dim %d", len(query), i.dim)
	}
	if k <= 0 || k > len(i.vecs) {
		k = len(i.vecs)
	}
	var qm float32
	if i.tree == index.Cosine {
		qm = index.Magnitude(query)
	}
	top := index.NewTopK(k)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		d := i.distance(n.idx, query, qm)
		top.Push(n.idx, d)
		if d < n.thr {
			if d-top.Worst() <= n.thr {
				walk(n.left)
			}
			if d+top.Worst() >= n.thr {
				walk(n.right)
			}
			return
		}
		if d+top.Worst() >= n.thr {
			walk(n.right)
		}
		if d-top.Worst() <= n.thr {
			walk(n.left)
		}
	}
	walk(i.root)

	found := top.Sorted()
	ids := make([]int64, len(found))
	dists := make([]float32, len(found))
	for n, c := range found {
		ids[n] = i.ids[c.Pos]
		dists[n] = i.metric.Report(c.Distance)
	}
	return ids, dists, nil
}

// MarshalBinary uses the flat vector format; the tree is rebuilt on load.
func (i *Index) MarshalBinary() ([]byte, error) {
	return index.EncodeVectors(i.ids, i.vecs)
}

// UnmarshalBinary restores vectors and rebuilds the tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := index.DecodeVectors(data)
	if err != nil {
		return fmt.Errorf("vptree: %w", err)
	}
	return i.Build(ids, vecs)
}

// Save writes the index to path.
func (i *Index) Save(path string) error { return index.SaveBinary(path, i) }

// Load restores the index from path.
func (i *Index) Load(path string) error { return index.LoadBinary(path, i) }
