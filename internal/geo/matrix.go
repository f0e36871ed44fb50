package geo

import (
	"fmt"
	"math"

	"pinroute/internal/model"
)

// Scale is the factor applied to raw Euclidean distances before truncating
// to integer arc costs. Integer costs keep the search free of float drift.
const Scale = 1000

// maxScaled guards the int64 conversion; anything near the top of the range
// means the caller fed coordinates far outside any sane projection.
const maxScaled = float64(math.MaxInt64 / 4)

// Matrix is an n×n symmetric table of integer-scaled Euclidean distances
// with a zero diagonal. It is immutable after Build.
type Matrix struct {
	N    int
	cost [][]int64
}

// Build derives pairwise arc costs from the input points. Pure function;
// n = 0 yields an empty matrix and the caller is expected to short-circuit.
func Build(points []model.Point) (*Matrix, error) {
	n := len(points)
	m := &Matrix{N: n, cost: make([][]int64, n)}
	for i := range m.cost {
		m.cost[i] = make([]int64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Euclid(points[i], points[j]) * Scale
			if math.IsNaN(d) || d > maxScaled {
				return nil, fmt.Errorf("arc cost overflow between points %d and %d", i, j)
			}
			c := int64(d) // truncate toward zero
			m.cost[i][j] = c
			m.cost[j][i] = c
		}
	}
	return m, nil
}

// At returns the scaled cost of arc (i,j).
func (m *Matrix) At(i, j int) int64 { return m.cost[i][j] }

// Descale converts a scaled arc-cost sum back to the caller's unit.
func Descale(c int64) float64 { return float64(c) / Scale }

// Euclid is the straight-line distance between two points.
func Euclid(a, b model.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// TourLength computes the exact closed-loop length of order over points,
// including the arc from the last point back to the first. The response
// reports this rather than the descaled integer cost so the wire distance
// matches the input unit without truncation error.
func TourLength(points []model.Point, order []int) float64 {
	if len(order) < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < len(order); i++ {
		a := points[order[i]]
		b := points[order[(i+1)%len(order)]]
		total += Euclid(a, b)
	}
	return total
}
