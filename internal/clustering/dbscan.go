package clustering

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Noise is the label of points that belong to no cluster.
const Noise = -1

// DistanceFunc measures the distance between two vectors.
type DistanceFunc func(a, b []float64) float64

// DBSCAN is a density-based clusterer. A point is a core point when at least
// MinSamples points, itself included, lie within Eps of it. Clusters grow
// through chains of core points and absorb the non-core points they reach.
type DBSCAN struct {
	Eps        float64
	MinSamples int
	Distance   DistanceFunc // Euclidean when nil
}

// Fit returns one label per point: a cluster index starting at 0 or Noise.
// Cluster indices follow the order of each cluster's lowest-index core point,
// and a border point reachable from two clusters stays with the first.
func (d DBSCAN) Fit(points [][]float64) []int {
	dist := d.Distance
	if dist == nil {
		dist = euclideanDistance
	}

	n := len(points)
	neighborhoods := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || dist(points[i], points[j]) <= d.Eps {
				neighborhoods[i] = append(neighborhoods[i], j)
			}
		}
	}

	isCore := make([]bool, n)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = Noise
		isCore[i] = len(neighborhoods[i]) >= d.MinSamples
	}

	label := 0
	var stack []int
	for seed := 0; seed < n; seed++ {
		if labels[seed] != Noise || !isCore[seed] {
			continue
		}

		i := seed
		for {
			if labels[i] == Noise {
				labels[i] = label
				if isCore[i] {
					for _, v := range neighborhoods[i] {
						if labels[v] == Noise {
							stack = append(stack, v)
						}
					}
				}
			}
			if len(stack) == 0 {
				break
			}
			i = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		}
		label++
	}

	return labels
}

// euclideanDistance calculates the Euclidean distance between two vectors
func euclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	return floats.Distance(a, b, 2)
}

// cosineDistance computes 1 - cosine similarity, in [0, 2].
// Zero vectors are treated as orthogonal to everything.
func cosineDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		return 1.0
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 1.0
	}
	similarity := floats.Dot(a, b) / (na * nb)
	if similarity > 1.0 {
		similarity = 1.0
	} else if similarity < -1.0 {
		similarity = -1.0
	}
	return 1.0 - similarity
}
