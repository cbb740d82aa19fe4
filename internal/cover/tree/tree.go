// Package tree implements a cover tree for k-nearest-neighbor queries.
//
// Inserts take the write lock. Per-node subtree radii are computed lazily
// once per tree version, after which searches share the read lock.
package tree

// This implementation is adapted from github.com/viant/gds/tree/cover.

import (
	"container/heap"
	"math"
	"sort"
	"sync"
)

// BoundStrategy selects which radius bounds a subtree when pruning.
type BoundStrategy int

const (
	// BoundPerNode uses the cached per-node subtree radius. Exact for metric
	// distances.
	BoundPerNode BoundStrategy = iota
	// BoundLevel uses the geometric bound derived from the node level.
	BoundLevel
)

// Tree is a cover tree holding a value of type T per point.
type Tree[T any] struct {
	root          *Node
	base          float32
	distance      DistanceFunc
	magnitude     func([]float32) float32
	values        values[T]
	size          int
	version       uint64
	radiiVersion  uint64
	boundStrategy BoundStrategy
	mu            sync.RWMutex
}

// NewTree constructs a cover tree. A base of 1 or less defaults to 1.3.
// magnitude, when not nil, fills Point.Magnitude on insert.
func NewTree[T any](base float32, distance DistanceFunc, magnitude func([]float32) float32) *Tree[T] {
	if base <= 1 {
		base = 1.3
	}
	return &Tree[T]{
		base:          base,
		distance:      distance,
		magnitude:     magnitude,
		boundStrategy: BoundPerNode,
	}
}

// SetBoundStrategy switches the pruning strategy.
func (t *Tree[T]) SetBoundStrategy(s BoundStrategy) {
	t.mu.Lock()
	t.boundStrategy = s
	t.mu.Unlock()
}

// Base returns the level base.
func (t *Tree[T]) Base() float32 { return t.base }

// Len returns the number of inserted points.
func (t *Tree[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// Insert adds a value/point pair and returns the point's index.
func (t *Tree[T]) Insert(value T, point *Point) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	point.index = t.values.put(value)
	if point.Magnitude == 0 && t.magnitude != nil && len(point.Vector) > 0 {
		point.Magnitude = t.magnitude(point.Vector)
	}
	if t.root == nil {
		node := NewNode(point, 0, t.base)
		t.root = &node
	} else {
		t.insert(point)
	}
	t.size++
	t.version++
	return point.index
}

// Value returns the stored value for point.
func (t *Tree[T]) Value(point *Point) T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var zero T
	if !point.HasValue() {
		return zero
	}
	return t.values.value(point.index)
}

// insert keeps every child strictly below its parent's level and within
// base^level of it, so a subtree at level l lies within
// base^l * base/(base-1) of its root.
func (t *Tree[T]) insert(point *Point) {
	node := t.root
	if d := t.distance(point, node.point); d > node.baseLevel {
		level := node.level
		for d > float32(math.Pow(float64(t.base), float64(level))) {
			level++
		}
		node.setLevel(level, t.base)
	}
	for {
		var next *Node
		for i := range node.children {
			child := &node.children[i]
			if t.distance(point, child.point) <= child.baseLevel {
				next = child
				break
			}
		}
		if next == nil {
			node.children = append(node.children, NewNode(point, node.level-1, t.base))
			return
		}
		node = next
	}
}

// prepare computes subtree radii for the current version.
func (t *Tree[T]) prepare() {
	t.mu.RLock()
	ready := t.boundStrategy != BoundPerNode || t.radiiVersion == t.version
	t.mu.RUnlock()
	if ready {
		return
	}
	t.mu.Lock()
	if t.radiiVersion != t.version && t.root != nil {
		t.ensureRadius(t.root)
		t.radiiVersion = t.version
	}
	t.mu.Unlock()
}

// KNearestNeighbors runs a depth-first kNN search, nearest first.
func (t *Tree[T]) KNearestNeighbors(point *Point, k int) []*Neighbor {
	t.prepare()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.root == nil || k <= 0 {
		return nil
	}
	h := &Neighbors{}
	t.kNearestNeighbors(t.root, t.distance(point, t.root.point), point, k, h)
	return drain(h)
}

func (t *Tree[T]) kNearestNeighbors(node *Node, dc float32, point *Point, k int, h *Neighbors) {
	h.offer(k, Neighbor{Point: node.point, Distance: dc})
	if len(node.children) == 0 {
		return
	}
	type childDist struct {
		child *Node
		dist  float32
	}
	cds := make([]childDist, 0, len(node.children))
	for i := range node.children {
		child := &node.children[i]
		cds = append(cds, childDist{child: child, dist: t.distance(point, child.point)})
	}
	sort.Slice(cds, func(i, j int) bool { return cds[i].dist < cds[j].dist })
	for _, cd := range cds {
		if worst, ok := h.bound(k); ok && cd.dist-t.boundRadius(cd.child) >= worst {
			continue
		}
		t.kNearestNeighbors(cd.child, cd.dist, point, k, h)
	}
}

// KNearestNeighborsBestFirst runs a best-first kNN search ordered by each
// subtree's lower bound.
func (t *Tree[T]) KNearestNeighborsBestFirst(point *Point, k int) []*Neighbor {
	t.prepare()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.root == nil || k <= 0 {
		return nil
	}
	nh := &Neighbors{}
	pq := &nodeQueue{}
	rootDist := t.distance(point, t.root.point)
	heap.Push(pq, nodeItem{node: t.root, lb: rootDist - t.boundRadius(t.root), centerDist: rootDist})
	for pq.Len() > 0 {
		top := heap.Pop(pq).(nodeItem)
		if worst, ok := nh.bound(k); ok && top.lb >= worst {
			break
		}
		nh.offer(k, Neighbor{Point: top.node.point, Distance: top.centerDist})
		for i := range top.node.children {
			child := &top.node.children[i]
			cd := t.distance(point, child.point)
			lb := cd - t.boundRadius(child)
			if worst, ok := nh.bound(k); ok && lb >= worst {
				continue
			}
			heap.Push(pq, nodeItem{node: child, lb: lb, centerDist: cd})
		}
	}
	return drain(nh)
}

func drain(h *Neighbors) []*Neighbor {
	result := make([]*Neighbor, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		n := heap.Pop(h).(Neighbor)
		result[i] = &n
	}
	return result
}

func (t *Tree[T]) ensureRadius(n *Node) float32 {
	if n.radiusVersion == t.version {
		return n.radius
	}
	maxR := float32(0)
	for i := range n.children {
		child := &n.children[i]
		if d := t.distance(n.point, child.point) + t.ensureRadius(child); d > maxR {
			maxR = d
		}
	}
	n.radius = maxR
	n.radiusVersion = t.version
	return maxR
}

func (t *Tree[T]) boundRadius(n *Node) float32 {
	if t.boundStrategy == BoundLevel {
		return n.baseLevel * t.base / (t.base - 1)
	}
	return n.radius
}

type nodeItem struct {
	node       *Node
	lb         float32
	centerDist float32
}

type nodeQueue []nodeItem

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].lb < q[j].lb }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(nodeItem)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}
