package index

import (
	"fmt"
	"strings"

	"github.com/viant/vec/search"
)

// Metric names a dissimilarity measure.
type Metric string

const (
	// L2 is the squared Euclidean distance, the convention of exact flat
	// L2 indexes.
	L2 Metric = "l2"
	// Euclidean is the Euclidean distance.
	Euclidean Metric = "euclidean"
	// Cosine is 1 - cosine similarity.
	Cosine Metric = "cosine"
)

// ParseMetric resolves a metric name.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "l2", "squared_l2", "sql2":
		return L2, nil
	case "euclidean", "euclid":
		return Euclidean, nil
	case "cosine", "cos", "angular":
		return Cosine, nil
	default:
		return "", fmt.Errorf("index: unsupported metric %q", name)
	}
}

// Label is the metric name used in result file names.
func (m Metric) Label() string {
	switch m {
	case L2:
		return "L2"
	case Euclidean:
		return "Euclid"
	case Cosine:
		return "Cos"
	default:
		return string(m)
	}
}

// Tree returns the metric that satisfies the triangle inequality and orders
// neighbors the same way as m. Space-partitioning trees prune with it.
func (m Metric) Tree() Metric {
	if m == L2 {
		return Euclidean
	}
	return m
}

// Report maps a distance measured with m.Tree() back to m.
func (m Metric) Report(d float32) float32 {
	if m == L2 {
		return d * d
	}
	return d
}

// Magnitude returns the Euclidean norm of v.
func Magnitude(v []float32) float32 {
	return search.Float32s(v).Magnitude()
}

// Distance computes the distance between a and b. am and bm are the
// magnitudes of a and b; they are only consulted for Cosine and computed
// when zero.
func (m Metric) Distance(a []float32, am float32, b []float32, bm float32) float32 {
	switch m {
	case Cosine:
		if am == 0 {
			am = Magnitude(a)
		}
		if bm == 0 {
			bm = Magnitude(b)
		}
		if am == 0 || bm == 0 {
			return 1
		}
		return 1 - dot(a, b)/(am*bm)
	case Euclidean:
		return search.Float32s(a).EuclideanDistance(b)
	default:
		d := search.Float32s(a).EuclideanDistance(b)
		return d * d
	}
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Func returns a magnitude-free distance function for m.
func (m Metric) Func() func(a, b []float32) float32 {
	return func(a, b []float32) float32 { return m.Distance(a, 0, b, 0) }
}
