package similarity

import "sort"

// dims is the dimensionality of the feature space the tree is built over:
// twelve acoustic attributes plus the genre-distance slot.
const dims = 13

// kdNode is one node of a pointer-linked k-d tree over the shared feature
// array. Leaves have no children;
// axis cycles 0..dims-1 with tree depth.
type kdNode struct {
	rowid       int
	axis        int
	left, right *kdNode
}

// kdTree is an immutable nearest-neighbor index over a snapshot of the
// feature array. A tree is built fresh whenever the genre dimension
// changes (see Engine), never mutated afterward.
type kdTree struct {
	features []float64 // same backing array the Engine mutates the 13th column of
	root     *kdNode
}

// buildKDTree constructs a balanced k-d tree over rowids, splitting at the
// median of the current axis at each level (ties keep their incoming order
// via a stable sort, so identical feature vectors still yield a
// deterministic tree shape).
func buildKDTree(features []float64, rowids []int) *kdTree {
	t := &kdTree{features: features}
	t.root = t.build(rowids, 0)
	return t
}

func (t *kdTree) feature(rowid, axis int) float64 {
	return t.features[rowid*dims+axis]
}

func (t *kdTree) build(rowids []int, depth int) *kdNode {
	if len(rowids) == 0 {
		return nil
	}
	axis := depth % dims
	sort.SliceStable(rowids, func(i, j int) bool {
		return t.feature(rowids[i], axis) < t.feature(rowids[j], axis)
	})
	mid := len(rowids) / 2
	node := &kdNode{rowid: rowids[mid], axis: axis}
	node.left = t.build(rowids[:mid], depth+1)
	node.right = t.build(rowids[mid+1:], depth+1)
	return node
}

// query walks the tree accumulating the k nearest rowids to point into h,
// excluding nothing (the caller is responsible for filtering out the seed
// itself via its known rowid/distance-zero behavior).
func (t *kdTree) query(point []float64, h *boundedHeap) {
	t.search(t.root, point, h)
}

func (t *kdTree) search(node *kdNode, point []float64, h *boundedHeap) {
	if node == nil {
		return
	}
	h.offer(candidate{rowid: node.rowid, distSq: squaredDistance(t.features[node.rowid*dims:node.rowid*dims+dims], point)})

	diff := point[node.axis] - t.feature(node.rowid, node.axis)
	near, far := node.left, node.right
	if diff > 0 {
		near, far = node.right, node.left
	}
	t.search(near, point, h)
	// Only descend into the far side if it could still hold a point closer
	// than the current worst retained candidate.
	if !h.full() || diff*diff < h.worst() {
		t.search(far, point, h)
	}
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
