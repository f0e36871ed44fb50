package model

// Core wire and domain types for the tour optimizer.

// Point is a pin location in a planar projection. Longitude/latitude pairs
// are accepted and treated as planar, which is an approximation that only
// holds at city scale.
type Point struct {
    X float64
    Y float64
}

// PointsFromPairs converts validated [x,y] wire pairs into Points.
func PointsFromPairs(pairs [][]float64) []Point {
    pts := make([]Point, len(pairs))
    for i, p := range pairs {
        pts[i] = Point{X: p[0], Y: p[1]}
    }
    return pts
}

// OptimizeRequest is the body of POST /optimize.
type OptimizeRequest struct {
    Coords        [][]float64 `json:"coords"`
    Algorithm     string      `json:"algorithm,omitempty"`    // greedy | twoopt
    Construction  string      `json:"construction,omitempty"` // path_cheapest_arc | cheapest_insertion
    DepotIndex    int         `json:"depotIndex,omitempty"`
    TimeBudgetMs  int         `json:"timeBudgetMs,omitempty"`
    MaxIterations int         `json:"maxIterations,omitempty"`
}

// OptimizeResponse is the single collaborator-facing result shape.
// Order is 0-indexed into the submitted coords; Distance is the closed-loop
// tour length in the caller's coordinate unit.
type OptimizeResponse struct {
    Order     []int   `json:"order"`
    Distance  float64 `json:"distance"`
    Truncated bool    `json:"truncated,omitempty"`
    SolveID   string  `json:"solveId,omitempty"`
}

// SolveStats is the per-solve audit record persisted by the store.
// It carries solver telemetry only; the tour itself is never stored.
type SolveStats struct {
    SolveID      string  `json:"solveId"`
    N            int     `json:"n"`
    Algorithm    string  `json:"algorithm"`
    Construction string  `json:"construction"`
    Iterations   int     `json:"iterations"`
    Improvements int     `json:"improvements"`
    InitialCost  float64 `json:"initialCost"`
    FinalCost    float64 `json:"finalCost"`
    DurationMs   int     `json:"durationMs"`
    Truncated    bool    `json:"truncated"`
    TS           string  `json:"ts"`
}
