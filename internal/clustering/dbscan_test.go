package clustering

import (
	"math"
	"testing"
)

func TestDBSCAN_TwoClustersAndNoise(t *testing.T) {
	points := [][]float64{
		{0, 0},
		{0.1, 0},
		{5, 5},
		{0.2, 0},
		{5.1, 5},
		{10, 10},
	}

	labels := DBSCAN{Eps: 0.15, MinSamples: 2}.Fit(points)
	want := []int{0, 0, 1, 0, 1, Noise}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("Expected labels %v, got %v", want, labels)
		}
	}
}

func TestDBSCAN_BorderPoint(t *testing.T) {
	// Only point 1 is core with MinSamples=3; 0 and 2 are border points, 3 is noise.
	points := [][]float64{{0}, {1}, {2}, {4}}

	labels := DBSCAN{Eps: 1, MinSamples: 3}.Fit(points)
	want := []int{0, 0, 0, Noise}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("Expected labels %v, got %v", want, labels)
		}
	}
}

func TestDBSCAN_BorderPointKeepsFirstCluster(t *testing.T) {
	// The origin is a non-core point within reach of a core point of each group.
	points := [][]float64{
		{0, 0},
		{-1, 0}, {-1.9, 0}, {-1.9, 0.1},
		{1, 0}, {1.9, 0}, {1.9, 0.1},
	}

	labels := DBSCAN{Eps: 1, MinSamples: 4}.Fit(points)
	want := []int{0, 0, 0, 0, 1, 1, 1}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("Expected labels %v, got %v", want, labels)
		}
	}
}

func TestDBSCAN_MinSamplesIncludesSelf(t *testing.T) {
	points := [][]float64{{0}, {0.1}}

	if labels := (DBSCAN{Eps: 0.2, MinSamples: 2}).Fit(points); labels[0] != 0 || labels[1] != 0 {
		t.Errorf("Expected a pair to form a cluster with MinSamples=2, got %v", labels)
	}
	if labels := (DBSCAN{Eps: 0.2, MinSamples: 3}).Fit(points); labels[0] != Noise || labels[1] != Noise {
		t.Errorf("Expected noise with MinSamples=3, got %v", labels)
	}
	if labels := (DBSCAN{Eps: 0.2, MinSamples: 1}).Fit([][]float64{{0}, {9}}); labels[0] != 0 || labels[1] != 1 {
		t.Errorf("Expected singletons to be clusters with MinSamples=1, got %v", labels)
	}
}

func TestDBSCAN_InclusiveRadius(t *testing.T) {
	labels := DBSCAN{Eps: 0.5, MinSamples: 2}.Fit([][]float64{{0}, {0.5}})
	if labels[0] != 0 || labels[1] != 0 {
		t.Errorf("Expected points at exactly eps to be neighbours, got %v", labels)
	}
}

func TestDBSCAN_Empty(t *testing.T) {
	if labels := (DBSCAN{Eps: 1, MinSamples: 2}).Fit(nil); len(labels) != 0 {
		t.Errorf("Expected no labels, got %v", labels)
	}
}

func TestDistances(t *testing.T) {
	if d := euclideanDistance([]float64{0, 0}, []float64{3, 4}); d != 5 {
		t.Errorf("Expected euclidean distance 5, got %v", d)
	}
	if d := euclideanDistance([]float64{0}, []float64{0, 1}); !math.IsInf(d, 1) {
		t.Errorf("Expected +Inf for mismatched dimensions, got %v", d)
	}
	if d := cosineDistance([]float64{1, 0}, []float64{2, 0}); math.Abs(d) > 1e-12 {
		t.Errorf("Expected cosine distance 0 for parallel vectors, got %v", d)
	}
	if d := cosineDistance([]float64{1, 0}, []float64{0, 1}); math.Abs(d-1) > 1e-12 {
		t.Errorf("Expected cosine distance 1 for orthogonal vectors, got %v", d)
	}
	if d := cosineDistance([]float64{0, 0}, []float64{0, 1}); d != 1 {
		t.Errorf("Expected cosine distance 1 for zero vector, got %v", d)
	}
}
