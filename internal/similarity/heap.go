package similarity

import (
	"container/heap"
	"sort"
)

// candidate is one entry in the bounded k-NN result set: the catalog row
// and its squared Euclidean distance from the query point.
type candidate struct {
	rowid   int
	distSq  float64
}

// boundedHeap is a max-heap of at most k candidates, used to keep the k
// closest points seen so far while walking the k-d tree: the root is
// always the current worst (farthest) of the retained candidates, so a new
// point only needs to be compared against the root to decide whether it
// displaces anything.
type boundedHeap struct {
	k     int
	items []candidate
}

func newBoundedHeap(k int) *boundedHeap {
	return &boundedHeap{k: k, items: make([]candidate, 0, k)}
}

func (h *boundedHeap) Len() int            { return len(h.items) }
func (h *boundedHeap) Less(i, j int) bool  { return h.items[i].distSq > h.items[j].distSq } // max-heap
func (h *boundedHeap) Swap(i, j int)       { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *boundedHeap) Push(x any)          { h.items = append(h.items, x.(candidate)) }
func (h *boundedHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// full reports whether the heap already holds k candidates.
func (h *boundedHeap) full() bool { return len(h.items) >= h.k }

// worst returns the current farthest retained distance. Only valid when
// full() is true.
func (h *boundedHeap) worst() float64 { return h.items[0].distSq }

// offer considers c for inclusion in the bounded set: if there is room, it
// is pushed; otherwise it displaces the current worst entry if closer.
func (h *boundedHeap) offer(c candidate) {
	if !h.full() {
		heap.Push(h, c)
		return
	}
	if c.distSq < h.worst() {
		heap.Pop(h)
		heap.Push(h, c)
	}
}

// sorted returns a copy of the retained candidates in ascending-distance
// order; the heap itself is left unchanged.
func (h *boundedHeap) sorted() []candidate {
	out := make([]candidate, len(h.items))
	copy(out, h.items)
	sort.Slice(out, func(i, j int) bool { return out[i].distSq < out[j].distSq })
	return out
}
