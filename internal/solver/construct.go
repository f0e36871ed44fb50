package solver

import (
	"fmt"
	"math"

	"pinroute/internal/geo"
)

// Construction builds an initial feasible tour: a permutation of all node
// indices starting at the depot. Implementations must be deterministic.
type Construction interface {
	Name() string
	Tour(m *geo.Matrix, depot int) []int
}

// Construction names accepted by Options.Construction.
const (
	ConsPathCheapestArc   = "path_cheapest_arc"
	ConsCheapestInsertion = "cheapest_insertion"
)

func constructionByName(name string) (Construction, error) {
	switch name {
	case "", ConsPathCheapestArc:
		return pathCheapestArc{}, nil
	case ConsCheapestInsertion:
		return cheapestInsertion{}, nil
	}
	return nil, fmt.Errorf("solver: unknown construction %q", name)
}

// KnownConstruction reports whether name maps to a construction heuristic.
func KnownConstruction(name string) bool {
	_, err := constructionByName(name)
	return err == nil
}

// pathCheapestArc extends the partial path by the locally cheapest next arc
// from the current endpoint. Ties break toward the lowest node index.
type pathCheapestArc struct{}

func (pathCheapestArc) Name() string { return ConsPathCheapestArc }

func (pathCheapestArc) Tour(m *geo.Matrix, depot int) []int {
	n := m.N
	order := make([]int, 0, n)
	visited := make([]bool, n)
	cur := depot
	order = append(order, cur)
	visited[cur] = true
	for len(order) < n {
		next := -1
		best := int64(math.MaxInt64)
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if c := m.At(cur, j); c < best {
				best = c
				next = j
			}
		}
		order = append(order, next)
		visited[next] = true
		cur = next
	}
	return order
}

// cheapestInsertion grows the cycle from the depot and its nearest node,
// repeatedly inserting the unvisited node with the smallest insertion delta
// at its best position. Ties break toward the lowest node index and the
// earliest position.
type cheapestInsertion struct{}

func (cheapestInsertion) Name() string { return ConsCheapestInsertion }

func (cheapestInsertion) Tour(m *geo.Matrix, depot int) []int {
	n := m.N
	if n == 1 {
		return []int{depot}
	}
	visited := make([]bool, n)
	visited[depot] = true
	nearest := -1
	best := int64(math.MaxInt64)
	for j := 0; j < n; j++ {
		if j == depot {
			continue
		}
		if c := m.At(depot, j); c < best {
			best = c
			nearest = j
		}
	}
	order := make([]int, 0, n)
	order = append(order, depot, nearest)
	visited[nearest] = true

	for len(order) < n {
		bestNode, bestPos := -1, -1
		bestDelta := int64(math.MaxInt64)
		for v := 0; v < n; v++ {
			if visited[v] {
				continue
			}
			for pos := 1; pos <= len(order); pos++ {
				u := order[pos-1]
				w := order[pos%len(order)]
				delta := m.At(u, v) + m.At(v, w) - m.At(u, w)
				if delta < bestDelta {
					bestDelta = delta
					bestNode = v
					bestPos = pos
				}
			}
		}
		if bestPos == len(order) {
			order = append(order, bestNode)
		} else {
			order = append(order[:bestPos+1], order[bestPos:]...)
			order[bestPos] = bestNode
		}
		visited[bestNode] = true
	}
	return order
}
