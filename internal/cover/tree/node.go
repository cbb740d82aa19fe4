package tree

import "math"

// Node is a cover-tree node. radius bounds the distance from point to any
// point in the subtree once computed for the tree version in radiusVersion.
type Node struct {
	level         int32
	baseLevel     float32
	point         *Point
	children      []Node
	radius        float32
	radiusVersion uint64
}

// NewNode constructs a node for the provided point and level.
func NewNode(point *Point, level int32, base float32) Node {
	return Node{
		level:     level,
		baseLevel: float32(math.Pow(float64(base), float64(level))),
		point:     point,
	}
}

func (n *Node) setLevel(level int32, base float32) {
	n.level = level
	n.baseLevel = float32(math.Pow(float64(base), float64(level)))
}
