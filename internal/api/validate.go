package api

import (
    "fmt"
    "math"

    "pinroute/internal/model"
    "pinroute/internal/solver"
)

// validateOptimizeRequest checks the wire shape before any solving happens.
// Every rejection here maps to a 400 problem response.
func validateOptimizeRequest(req *model.OptimizeRequest, minPoints int) error {
    if req.Coords == nil {
        return fmt.Errorf("coords is required")
    }
    if len(req.Coords) < minPoints {
        return fmt.Errorf("at least %d coords required, got %d", minPoints, len(req.Coords))
    }
    for i, pair := range req.Coords {
        if len(pair) != 2 {
            return fmt.Errorf("coords[%d] must be an [x,y] pair, got %d values", i, len(pair))
        }
        for _, v := range pair {
            if math.IsNaN(v) || math.IsInf(v, 0) {
                return fmt.Errorf("coords[%d] contains a non-finite value", i)
            }
        }
    }
    switch req.Algorithm {
    case "", solver.AlgoGreedy, solver.AlgoTwoOpt:
    default:
        return fmt.Errorf("unknown algorithm %q", req.Algorithm)
    }
    if req.Construction != "" && !solver.KnownConstruction(req.Construction) {
        return fmt.Errorf("unknown construction %q", req.Construction)
    }
    if req.DepotIndex < 0 {
        return fmt.Errorf("depotIndex must be >= 0")
    }
    if len(req.Coords) > 0 && req.DepotIndex >= len(req.Coords) {
        return fmt.Errorf("depotIndex %d out of range for %d coords", req.DepotIndex, len(req.Coords))
    }
    if req.TimeBudgetMs < 0 {
        return fmt.Errorf("timeBudgetMs must be >= 0")
    }
    if req.MaxIterations < 0 {
        return fmt.Errorf("maxIterations must be >= 0")
    }
    return nil
}
