package issues

import (
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func collect(g Grouper, sim mat.Matrix) [][]int {
	var groups [][]int
	g.Groups(sim, func(members []int) bool {
		groups = append(groups, members)
		return true
	})
	return groups
}

func TestGrouper_LargestNeighbourhoodFirst(t *testing.T) {
	// 3 links to 0, 1 and 2; 4 is isolated.
	sim := mat.NewSymDense(5, []float64{
		1, 0, 0, 0.9, 0,
		0, 1, 0, 0.8, 0,
		0, 0, 1, 0.7, 0,
		0.9, 0.8, 0.7, 1, 0,
		0, 0, 0, 0, 1,
	})

	groups := collect(Grouper{Threshold: 0.3}, sim)
	if want := [][]int{{0, 1, 2, 3}}; !reflect.DeepEqual(groups, want) {
		t.Errorf("Expected %v, got %v", want, groups)
	}
}

func TestGrouper_TiesKeepFirstEdgeOrder(t *testing.T) {
	// Two disjoint pairs of equal size, (0,3) and (1,2).
	sim := mat.NewSymDense(4, []float64{
		1, 0, 0, 0.5,
		0, 1, 0.5, 0,
		0, 0.5, 1, 0,
		0.5, 0, 0, 1,
	})

	groups := collect(Grouper{Threshold: 0.3}, sim)
	if want := [][]int{{0, 3}, {1, 2}}; !reflect.DeepEqual(groups, want) {
		t.Errorf("Expected %v, got %v", want, groups)
	}
}

func TestGrouper_ThresholdIsStrict(t *testing.T) {
	sim := mat.NewSymDense(2, []float64{1, 0.3, 0.3, 1})
	if groups := collect(Grouper{Threshold: 0.3}, sim); len(groups) != 0 {
		t.Errorf("Similarity equal to the threshold should not link, got %v", groups)
	}
}

func TestGrouper_StopsWhenYieldReturnsFalse(t *testing.T) {
	sim := mat.NewSymDense(4, []float64{
		1, 0.9, 0, 0,
		0.9, 1, 0, 0,
		0, 0, 1, 0.9,
		0, 0, 0.9, 1,
	})

	calls := 0
	Grouper{Threshold: 0.3}.Groups(sim, func([]int) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Errorf("Expected a single group before stopping, got %d", calls)
	}
}
