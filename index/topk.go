package index

import (
	"container/heap"
	"math"
)

// Candidate is a scored neighbor. Pos is the backend's internal position.
type Candidate struct {
	Pos      int
	Distance float32
}

type candidates []Candidate

func (h candidates) Len() int           { return len(h) }
func (h candidates) Less(i, j int) bool { return h[i].Distance > h[j].Distance }
func (h candidates) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidates) Push(x interface{}) { *h = append(*h, x.(Candidate)) }

func (h *candidates) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopK keeps the k nearest candidates seen so far in a max-heap.
type TopK struct {
	k int
	h candidates
}

// NewTopK returns a collector of the k nearest candidates.
func NewTopK(k int) *TopK {
	return &TopK{k: k, h: make(candidates, 0, k)}
}

// Full reports whether k candidates have been collected.
func (t *TopK) Full() bool { return t.k > 0 && len(t.h) >= t.k }

// Worst returns the largest retained distance, or +Inf until full.
func (t *TopK) Worst() float32 {
	if !t.Full() {
		return float32(math.Inf(1))
	}
	return t.h[0].Distance
}

// Push offers a candidate; it is kept when it beats the current worst.
func (t *TopK) Push(pos int, distance float32) {
	if t.k <= 0 {
		return
	}
	if len(t.h) < t.k {
		heap.Push(&t.h, Candidate{Pos: pos, Distance: distance})
		return
	}
	if distance < t.h[0].Distance {
		t.h[0] = Candidate{Pos: pos, Distance: distance}
		heap.Fix(&t.h, 0)
	}
}

// Len returns the number of retained candidates.
func (t *TopK) Len() int { return len(t.h) }

// Sorted drains the collector and returns candidates nearest first.
func (t *TopK) Sorted() []Candidate {
	out := make([]Candidate, len(t.h))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&t.h).(Candidate)
	}
	return out
}
