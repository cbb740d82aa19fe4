package tree

// Point is a vector stored in the tree with its cached magnitude.
type Point struct {
	index     int32
	Magnitude float32
	Vector    []float32
}

// HasValue reports whether the point was inserted into a tree.
func (p *Point) HasValue() bool {
	return p != nil && p.index >= 0
}

// NewPoint constructs a point for the given vector.
func NewPoint(vector ...float32) *Point {
	return &Point{index: -1, Vector: vector}
}

// DistanceFunc computes the distance between two points. It must satisfy
// the triangle inequality for searches to be exact.
type DistanceFunc func(p1, p2 *Point) float32
