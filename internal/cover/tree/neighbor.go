package tree

import "container/heap"

// Neighbor is a candidate returned by a kNN search.
type Neighbor struct {
	Point    *Point
	Distance float32
}

// Neighbors is a max-heap by distance.
type Neighbors []Neighbor

func (h Neighbors) Len() int           { return len(h) }
func (h Neighbors) Less(i, j int) bool { return h[i].Distance > h[j].Distance }
func (h Neighbors) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *Neighbors) Push(x interface{}) {
	*h = append(*h, x.(Neighbor))
}

func (h *Neighbors) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// offer keeps the k nearest neighbors seen so far.
func (h *Neighbors) offer(k int, n Neighbor) {
	if k <= 0 {
		return
	}
	if h.Len() < k {
		heap.Push(h, n)
		return
	}
	if n.Distance < (*h)[0].Distance {
		(*h)[0] = n
		heap.Fix(h, 0)
	}
}

// bound returns the pruning radius: the worst kept distance once k
// neighbors are held.
func (h Neighbors) bound(k int) (float32, bool) {
	if k <= 0 || h.Len() < k {
		return 0, false
	}
	return h[0].Distance, true
}
