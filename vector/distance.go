package vector

import (
	"fmt"
	"math"
)

// CosineSimilarity computes the cosine similarity between two vectors. It
// returns an error if the vectors have different lengths or if either vector
// has zero magnitude.
func CosineSimilarity(a, b []float32) (float64, error) {
	dot, na2, nb2, err := products(a, b)
	if err != nil {
		return 0, err
	}
	if na2 == 0 || nb2 == 0 {
		return 0, fmt.Errorf("vector: cosine similarity with zero-magnitude vector")
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2)), nil
}

// CosineDistance returns 1 - cosine similarity. A zero-magnitude vector is
// at distance 1 from everything.
func CosineDistance(a, b []float32) (float64, error) {
	dot, na2, nb2, err := products(a, b)
	if err != nil {
		return 0, err
	}
	if na2 == 0 || nb2 == 0 {
		return 1, nil
	}
	return 1 - dot/(math.Sqrt(na2)*math.Sqrt(nb2)), nil
}

func products(a, b []float32) (dot, na2, nb2 float64, err error) {
	if len(a) != len(b) {
		return 0, 0, 0, fmt.Errorf("vector: cosine dimension mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, 0, 0, fmt.Errorf("vector: cosine on empty vectors")
	}
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	return dot, na2, nb2, nil
}

// L2Distance computes the Euclidean (L2) distance between two vectors. It
// returns an error if the vectors have different lengths.
func L2Distance(a, b []float32) (float64, error) {
	sum, err := SquaredL2Distance(a, b)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(sum), nil
}

// SquaredL2Distance computes the squared Euclidean distance.
func SquaredL2Distance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector: L2 distance dimension mismatch: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum, nil
}
