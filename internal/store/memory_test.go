package store

import (
    "context"
    "fmt"
    "testing"

    "pinroute/internal/model"
)

func TestMemorySolveStatsNewestFirst(t *testing.T) {
    m := NewMemory()
    ctx := context.Background()
    for i := 0; i < 3; i++ {
        st := model.SolveStats{SolveID: fmt.Sprintf("s%d", i), N: i + 2, Algorithm: "twoopt"}
        if err := m.SaveSolveStats(ctx, st); err != nil {
            t.Fatalf("save: %v", err)
        }
    }
    got, err := m.ListSolveStats(ctx, 2)
    if err != nil {
        t.Fatalf("list: %v", err)
    }
    if len(got) != 2 {
        t.Fatalf("limit not applied: %d items", len(got))
    }
    if got[0].SolveID != "s2" || got[1].SolveID != "s1" {
        t.Fatalf("wrong ordering: %v", got)
    }
}

func TestMemoryRingCap(t *testing.T) {
    m := NewMemory()
    ctx := context.Background()
    for i := 0; i < memoryCap+10; i++ {
        _ = m.SaveSolveStats(ctx, model.SolveStats{SolveID: fmt.Sprintf("s%d", i)})
    }
    got, _ := m.ListSolveStats(ctx, 0)
    if len(got) != memoryCap {
        t.Fatalf("ring cap: got %d, want %d", len(got), memoryCap)
    }
    if got[0].SolveID != fmt.Sprintf("s%d", memoryCap+9) {
        t.Fatalf("newest entry lost: %s", got[0].SolveID)
    }
}

func TestMemorySolverConfigRoundTrip(t *testing.T) {
    m := NewMemory()
    ctx := context.Background()
    cfg, err := m.GetSolverConfig(ctx)
    if err != nil || cfg != nil {
        t.Fatalf("empty config: got %v, %v", cfg, err)
    }
    in := map[string]any{"timeBudgetMs": 500, "construction": "cheapest_insertion"}
    if err := m.SaveSolverConfig(ctx, in); err != nil {
        t.Fatalf("save: %v", err)
    }
    got, err := m.GetSolverConfig(ctx)
    if err != nil {
        t.Fatalf("get: %v", err)
    }
    if got["construction"] != "cheapest_insertion" {
        t.Fatalf("round trip lost data: %v", got)
    }
    // returned map is a copy
    got["construction"] = "mutated"
    again, _ := m.GetSolverConfig(ctx)
    if again["construction"] != "cheapest_insertion" {
        t.Fatal("config map must not alias internal state")
    }
}
