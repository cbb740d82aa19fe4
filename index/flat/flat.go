package flat

import (
	"fmt"

	"github.com/viant/annbench/index"
)

func init() {
	index.Register(index.Backend{
		Name:  "flat",
		Label: "Flat",
		Exact: true,
		New: func(metric index.Metric, _ int, _ index.Params) (index.Index, error) {
			return New(metric), nil
		},
	})
}

// Index is a brute-force vector index.
type Index struct {
	metric index.Metric
	ids    []int64
	vecs   [][]float32
	dim    int
	mags   []float32
}

// New creates an empty index scoring with metric.
func New(metric index.Metric) *Index {
	return &Index{metric: metric}
}

// Build loads ids and vectors and precomputes magnitudes.
func (i *Index) Build(ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("flat: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	if len(ids) == 0 {
		i.ids, i.vecs, i.mags, i.dim = nil, nil, nil, 0
		return nil
	}
	dim := len(vectors[0])
	for j := range vectors {
		if len(vectors[j]) != dim {
			return fmt.Errorf("flat: inconsistent vector dims %d vs %d", len(vectors[j]), dim)
		}
	}
	var mags []float32
	if i.metric == index.Cosine {
		mags = make([]float32, len(vectors))
		for j := range vectors {
			mags[j] = index.Magnitude(vectors[j])
		}
	}
	i.ids = append([]int64(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.dim = dim
	i.mags = mags
	return nil
}

// Search returns the k nearest vectors, nearest first.
func (i *Index) Search(query []float32, k int) ([]int64, []float32, error) {
	if i.dim == 0 || len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("flat: query dim %d != index dim %d", len(query), i.dim)
	}
	if k <= 0 || k > len(i.vecs) {
		k = len(i.vecs)
	}
	var qm float32
	if i.metric == index.Cosine {
		qm = index.Magnitude(query)
	}
	top := index.NewTopK(k)
	for j, vec := range i.vecs {
		var vm float32
		if i.mags != nil {
			vm = i.mags[j]
		}
		top.Push(j, i.metric.Distance(query, qm, vec, vm))
	}
	found := top.Sorted()
	outIDs := make([]int64, len(found))
	outDists := make([]float32, len(found))
	for n, c := range found {
		outIDs[n] = i.ids[c.Pos]
		outDists[n] = c.Distance
	}
	return outIDs, outDists, nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.vecs) }

// MarshalBinary stores the indexed vectors in the index.EncodeVectors format.
func (i *Index) MarshalBinary() ([]byte, error) {
	return index.EncodeVectors(i.ids, i.vecs)
}

// UnmarshalBinary restores the index from bytes.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := index.DecodeVectors(data)
	if err != nil {
		return fmt.Errorf("flat: %w", err)
	}
	return i.Build(ids, vecs)
}

// Save writes the binary form to path.
func (i *Index) Save(path string) error { return index.SaveBinary(path, i) }

// Load restores the index from path.
func (i *Index) Load(path string) error { return index.LoadBinary(path, i) }
