package issues

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/mat"
)

// Grouper turns a similarity matrix into groups of document indices.
type Grouper struct {
	Threshold  float64 // Pairs must be strictly more similar than this
	Transitive bool    // Report whole connected components instead of seed neighbourhoods
}

// adjacency is an undirected neighbour list that remembers the order in
// which each node gained its first edge.
type adjacency struct {
	order      []int
	neighbours map[int]map[int]struct{}
}

func newAdjacency() *adjacency {
	return &adjacency{neighbours: make(map[int]map[int]struct{})}
}

func (a *adjacency) add(i, j int) {
	a.link(i, j)
	a.link(j, i)
}

func (a *adjacency) link(from, to int) {
	set, ok := a.neighbours[from]
	if !ok {
		set = make(map[int]struct{})
		a.neighbours[from] = set
		a.order = append(a.order, from)
	}
	set[to] = struct{}{}
}

// Seeds returns the documents that have at least one neighbour, largest
// neighbourhood first. Equal sizes keep first-edge order.
func (a *adjacency) seeds() []int {
	seeds := append([]int(nil), a.order...)
	sort.SliceStable(seeds, func(x, y int) bool {
		return len(a.neighbours[seeds[x]]) > len(a.neighbours[seeds[y]])
	})
	return seeds
}

// Groups walks the seeds in priority order and returns one group per
// unclaimed seed: the seed with its direct neighbours, or its connected
// component when Transitive is set. Documents already claimed by an earlier
// group are left out, so no document is in two groups. Members are sorted.
// The caller stops consuming when it has enough groups.
func (g Grouper) Groups(sim mat.Matrix, yield func(members []int) bool) {
	n, _ := sim.Dims()
	adj := newAdjacency()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if sim.At(i, j) > g.Threshold {
				adj.add(i, j)
			}
		}
	}

	var component map[int][]int
	if g.Transitive {
		component = components(adj)
	}

	processed := make(map[int]struct{})
	for _, seed := range adj.seeds() {
		if _, done := processed[seed]; done {
			continue
		}

		var candidates []int
		if g.Transitive {
			candidates = component[seed]
		} else {
			candidates = append(candidates, seed)
			for nb := range adj.neighbours[seed] {
				candidates = append(candidates, nb)
			}
		}

		members := make([]int, 0, len(candidates))
		for _, doc := range candidates {
			if _, done := processed[doc]; done {
				continue
			}
			members = append(members, doc)
			processed[doc] = struct{}{}
		}
		sort.Ints(members)

		if !yield(members) {
			return
		}
	}
}

// components maps every connected node to the members of its component.
func components(adj *adjacency) map[int][]int {
	graph := simple.NewUndirectedGraph()
	for from, set := range adj.neighbours {
		for to := range set {
			if from < to {
				graph.SetEdge(graph.NewEdge(simple.Node(from), simple.Node(to)))
			}
		}
	}

	out := make(map[int][]int)
	for _, nodes := range topo.ConnectedComponents(graph) {
		members := make([]int, len(nodes))
		for i, node := range nodes {
			members[i] = int(node.ID())
		}
		for _, m := range members {
			out[m] = members
		}
	}
	return out
}
