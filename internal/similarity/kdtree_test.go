package similarity

import "testing"

func TestKDTreeQueryFindsExactNearestInAxisAlignedSpace(t *testing.T) {
	t.Parallel()
	// 4 points on the first axis, all other axes zero.
	feats := make([]float64, 0, 4*dims)
	points := []float64{0, 1, 5, 9}
	for _, x := range points {
		row := make([]float64, dims)
		row[0] = x
		feats = append(feats, row...)
	}
	tree := buildKDTree(feats, []int{0, 1, 2, 3})

	query := make([]float64, dims)
	query[0] = 4.5 // closest to point 5 (rowid 2), then 1 (rowid 1)

	h := newBoundedHeap(2)
	tree.query(query, h)
	got := h.sorted()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].rowid != 2 {
		t.Errorf("nearest = rowid %d, want 2", got[0].rowid)
	}
	if got[1].rowid != 1 {
		t.Errorf("second nearest = rowid %d, want 1", got[1].rowid)
	}
}

func TestSquaredDistanceSymmetric(t *testing.T) {
	t.Parallel()
	a := []float64{0, 0, 1}
	b := []float64{1, 0, 0}
	if d1, d2 := squaredDistance(a, b), squaredDistance(b, a); d1 != d2 {
		t.Errorf("squaredDistance not symmetric: %v vs %v", d1, d2)
	}
	if squaredDistance(a, b) != 2 {
		t.Errorf("squaredDistance(a,b) = %v, want 2", squaredDistance(a, b))
	}
}
