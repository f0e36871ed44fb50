package solver

import (
	"context"
	"errors"
	"testing"
	"time"

	"pinroute/internal/geo"
	"pinroute/internal/model"
)

func buildMatrix(t *testing.T, pts []model.Point) *geo.Matrix {
	t.Helper()
	m, err := geo.Build(pts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func trianglePoints() []model.Point {
	// sides 3, 4, 5
	return []model.Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}}
}

func squarePoints() []model.Point {
	return []model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
}

// nnTrapPoints is a unit square plus a far pin; path-cheapest-arc walks the
// square first and pays two long arcs, which 2-opt then untangles.
func nnTrapPoints() []model.Point {
	return []model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 5, Y: 0.5}}
}

func assertPermutation(t *testing.T, order []int, n int) {
	t.Helper()
	if len(order) != n {
		t.Fatalf("order length: got %d, want %d", len(order), n)
	}
	seen := make([]bool, n)
	for _, v := range order {
		if v < 0 || v >= n || seen[v] {
			t.Fatalf("order %v is not a permutation of 0..%d", order, n-1)
		}
		seen[v] = true
	}
}

func TestSolveTriangle(t *testing.T) {
	m := buildMatrix(t, trianglePoints())
	res, st, err := Solve(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	assertPermutation(t, res.Order, 3)
	if res.Order[0] != 0 {
		t.Fatalf("tour must start at depot 0, got %v", res.Order)
	}
	if res.Cost != 12000 {
		t.Fatalf("cost: got %d, want 12000", res.Cost)
	}
	if res.Truncated {
		t.Fatal("tiny instance should not truncate")
	}
	if st.FinalCost != res.Cost {
		t.Fatalf("stats final cost %d != result cost %d", st.FinalCost, res.Cost)
	}
}

func TestSolveSquarePerimeter(t *testing.T) {
	m := buildMatrix(t, squarePoints())
	res, _, err := Solve(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	assertPermutation(t, res.Order, 4)
	// 4.0 in scaled units; any diagonal-crossing order costs 2+2*sqrt(2)
	if res.Cost != 4000 {
		t.Fatalf("cost: got %d, want 4000", res.Cost)
	}
}

func TestSolveEmptyMatrix(t *testing.T) {
	m := buildMatrix(t, nil)
	if _, _, err := Solve(context.Background(), m, Options{}); !errors.Is(err, ErrNoNodes) {
		t.Fatalf("expected ErrNoNodes, got %v", err)
	}
}

func TestSolveSingleNode(t *testing.T) {
	m := buildMatrix(t, []model.Point{{X: 9, Y: 9}})
	res, _, err := Solve(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.Order) != 1 || res.Order[0] != 0 || res.Cost != 0 {
		t.Fatalf("single node: got %v cost %d", res.Order, res.Cost)
	}
}

func TestSolveNonZeroDepot(t *testing.T) {
	m := buildMatrix(t, trianglePoints())
	res, _, err := Solve(context.Background(), m, Options{Depot: 2})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	assertPermutation(t, res.Order, 3)
	if res.Order[0] != 2 {
		t.Fatalf("tour must start at depot 2, got %v", res.Order)
	}
	if res.Cost != 12000 {
		t.Fatalf("cost: got %d, want 12000", res.Cost)
	}
}

func TestSolveDepotOutOfRange(t *testing.T) {
	m := buildMatrix(t, trianglePoints())
	if _, _, err := Solve(context.Background(), m, Options{Depot: 3}); err == nil {
		t.Fatal("expected depot range error")
	}
	if _, _, err := Solve(context.Background(), m, Options{Depot: -1}); err == nil {
		t.Fatal("expected depot range error")
	}
}

func TestSolveVehiclesUnsupported(t *testing.T) {
	m := buildMatrix(t, trianglePoints())
	if _, _, err := Solve(context.Background(), m, Options{Vehicles: 2}); err == nil {
		t.Fatal("expected unsupported vehicle count error")
	}
	if _, _, err := Solve(context.Background(), m, Options{Vehicles: 1}); err != nil {
		t.Fatalf("one vehicle must be accepted: %v", err)
	}
}

func TestSolveImprovesGreedyTour(t *testing.T) {
	m := buildMatrix(t, nnTrapPoints())
	greedy, _, err := Solve(context.Background(), m, Options{Algorithm: AlgoGreedy})
	if err != nil {
		t.Fatalf("greedy: %v", err)
	}
	full, st, err := Solve(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("twoopt: %v", err)
	}
	if full.Cost >= greedy.Cost {
		t.Fatalf("improvement phase did not help: greedy %d, improved %d", greedy.Cost, full.Cost)
	}
	if st.Improvements == 0 {
		t.Fatal("expected at least one accepted move")
	}
	assertPermutation(t, full.Order, 5)
}

func TestSolveDeterministic(t *testing.T) {
	pts := []model.Point{
		{X: 0.1, Y: 4.2}, {X: 3.7, Y: 0.3}, {X: 8.9, Y: 2.5}, {X: 1.4, Y: 7.7},
		{X: 6.2, Y: 6.1}, {X: 4.8, Y: 9.3}, {X: 9.5, Y: 8.8}, {X: 2.9, Y: 2.2},
		{X: 7.1, Y: 0.9}, {X: 5.5, Y: 4.4},
	}
	m := buildMatrix(t, pts)
	a, _, err := Solve(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	b, _, err := Solve(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if a.Cost != b.Cost {
		t.Fatalf("costs differ across runs: %d vs %d", a.Cost, b.Cost)
	}
	for i := range a.Order {
		if a.Order[i] != b.Order[i] {
			t.Fatalf("orders differ across runs: %v vs %v", a.Order, b.Order)
		}
	}
	assertPermutation(t, a.Order, len(pts))
}

func TestSolveReversedInputSameDistance(t *testing.T) {
	pts := nnTrapPoints()
	rev := make([]model.Point, len(pts))
	for i, p := range pts {
		rev[len(pts)-1-i] = p
	}
	a, _, err := Solve(context.Background(), buildMatrix(t, pts), Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	b, _, err := Solve(context.Background(), buildMatrix(t, rev), Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if a.Cost != b.Cost {
		t.Fatalf("relabeling changed tour cost: %d vs %d", a.Cost, b.Cost)
	}
}

func TestSolveIterationCapTruncates(t *testing.T) {
	m := buildMatrix(t, nnTrapPoints())
	res, st, err := Solve(context.Background(), m, Options{MaxIterations: 1})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Truncated {
		t.Fatal("expected truncated result under a one-iteration cap")
	}
	assertPermutation(t, res.Order, 5)
	if st.Iterations != 1 {
		t.Fatalf("iterations: got %d, want 1", st.Iterations)
	}
}

func TestSolveContextCancelReturnsBestSoFar(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := buildMatrix(t, nnTrapPoints())
	// cancellation is observed at the throttled check; result stays valid
	res, _, err := Solve(ctx, m, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	assertPermutation(t, res.Order, 5)
}

func TestSolveTimeBudget(t *testing.T) {
	m := buildMatrix(t, nnTrapPoints())
	res, _, err := Solve(context.Background(), m, Options{TimeBudget: time.Second})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Truncated {
		t.Fatal("one second is plenty for five pins")
	}
	if res.Cost != 11062 {
		t.Fatalf("cost: got %d, want 11062", res.Cost)
	}
}

func TestCheapestInsertionConstruction(t *testing.T) {
	m := buildMatrix(t, squarePoints())
	res, st, err := Solve(context.Background(), m, Options{Construction: ConsCheapestInsertion})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if st.Construction != ConsCheapestInsertion {
		t.Fatalf("construction: got %s", st.Construction)
	}
	assertPermutation(t, res.Order, 4)
	if res.Cost != 4000 {
		t.Fatalf("cost: got %d, want 4000", res.Cost)
	}
}

func TestUnknownConstruction(t *testing.T) {
	m := buildMatrix(t, squarePoints())
	if _, _, err := Solve(context.Background(), m, Options{Construction: "simulated_annealing"}); err == nil {
		t.Fatal("expected unknown construction error")
	}
	if KnownConstruction("simulated_annealing") {
		t.Fatal("KnownConstruction should reject unknown names")
	}
	if !KnownConstruction("") || !KnownConstruction(ConsPathCheapestArc) || !KnownConstruction(ConsCheapestInsertion) {
		t.Fatal("KnownConstruction should accept built-ins")
	}
}

func TestOnImprovementMonotone(t *testing.T) {
	m := buildMatrix(t, nnTrapPoints())
	var costs []int64
	res, _, err := Solve(context.Background(), m, Options{
		OnImprovement: func(cost int64, order []int) {
			assertPermutation(t, order, 5)
			costs = append(costs, cost)
		},
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(costs) == 0 {
		t.Fatal("expected improvement callbacks")
	}
	for i := 1; i < len(costs); i++ {
		if costs[i] > costs[i-1] {
			t.Fatalf("costs not monotone: %v", costs)
		}
	}
	if costs[len(costs)-1] != res.Cost {
		t.Fatalf("last callback cost %d != final cost %d", costs[len(costs)-1], res.Cost)
	}
}
