package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pinroute/internal/geo"
)

// Algorithms accepted by Options.Algorithm.
const (
	AlgoGreedy = "greedy" // construction only
	AlgoTwoOpt = "twoopt" // construction + 2-opt/Or-opt improvement
)

// ErrNoNodes is returned for an empty matrix; no tour is defined.
var ErrNoNodes = errors.New("solver: no nodes")

// Options configures a single-vehicle closed-tour solve. The depot and
// vehicle count are explicit rather than silent constants; only one vehicle
// is supported.
type Options struct {
	Algorithm     string
	Construction  string
	Depot         int
	Vehicles      int // 0 means 1
	MaxIterations int // cap on candidate-move evaluations; 0 = unlimited
	TimeBudget    time.Duration

	// OnImprovement, when set, is invoked with the cost and a copy of the
	// tour each time the search accepts an improving move.
	OnImprovement func(cost int64, order []int)
}

// Result is the chosen tour and its total scaled arc cost. Truncated marks
// a budget-capped search that returned the best tour found so far.
type Result struct {
	Order     []int
	Cost      int64
	Truncated bool
}

// Stats carries solver telemetry for the audit store and metrics.
type Stats struct {
	Construction string
	Iterations   int
	Improvements int
	InitialCost  int64
	FinalCost    int64
}

// Solve builds an initial tour with the configured construction heuristic
// and, unless Algorithm is greedy, refines it with deterministic
// first-improvement 2-opt and Or-opt until a full pass yields no improving
// move or the budget runs out. The search never loops unbounded: every pass
// is capped by MaxIterations, TimeBudget, and ctx cancellation.
func Solve(ctx context.Context, m *geo.Matrix, opts Options) (Result, Stats, error) {
	n := m.N
	if n == 0 {
		return Result{}, Stats{}, ErrNoNodes
	}
	if opts.Vehicles > 1 {
		return Result{}, Stats{}, fmt.Errorf("solver: %d vehicles unsupported", opts.Vehicles)
	}
	if opts.Depot < 0 || opts.Depot >= n {
		return Result{}, Stats{}, fmt.Errorf("solver: depot %d out of range [0,%d)", opts.Depot, n)
	}

	cons, err := constructionByName(opts.Construction)
	if err != nil {
		return Result{}, Stats{}, err
	}
	order := cons.Tour(m, opts.Depot)
	st := Stats{Construction: cons.Name(), InitialCost: tourCost(m, order)}
	res := Result{Order: order, Cost: st.InitialCost}

	if opts.Algorithm == AlgoGreedy || n < 3 {
		st.FinalCost = res.Cost
		return res, st, nil
	}

	b := &budget{ctx: ctx, maxIters: opts.MaxIterations}
	if opts.TimeBudget > 0 {
		b.useDeadline = true
		b.deadline = time.Now().Add(opts.TimeBudget)
	}
	if dl, ok := ctx.Deadline(); ok && (!b.useDeadline || dl.Before(b.deadline)) {
		b.useDeadline = true
		b.deadline = dl
	}

	res.Truncated = improve(m, order, b, &st, opts.OnImprovement)
	res.Cost = tourCost(m, order)
	st.Iterations = b.iters
	st.FinalCost = res.Cost
	return res, st, nil
}

// budget bounds the local search. tick is called once per candidate-move
// evaluation and reports whether the search must stop; the wall-clock and
// context checks are throttled to keep the hot loop cheap.
type budget struct {
	ctx         context.Context
	deadline    time.Time
	useDeadline bool
	maxIters    int
	iters       int
}

func (b *budget) tick() bool {
	b.iters++
	if b.maxIters > 0 && b.iters >= b.maxIters {
		return true
	}
	if b.iters&1023 == 0 {
		if b.useDeadline && time.Now().After(b.deadline) {
			return true
		}
		select {
		case <-b.ctx.Done():
			return true
		default:
		}
	}
	return false
}

// tourCost sums the arcs along the closed tour, including the arc from the
// last node back to the first.
func tourCost(m *geo.Matrix, order []int) int64 {
	if len(order) < 2 {
		return 0
	}
	var total int64
	for i := range order {
		total += m.At(order[i], order[(i+1)%len(order)])
	}
	return total
}
