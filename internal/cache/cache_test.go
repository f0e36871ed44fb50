package cache

import (
    "context"
    "sync"
    "sync/atomic"
    "testing"
    "time"

    "pinroute/internal/model"
)

func TestFingerprintStable(t *testing.T) {
    coords := [][]float64{{0, 0}, {3, 0}, {3, 4}}
    a := Fingerprint(coords, "twoopt", "", 0)
    b := Fingerprint(coords, "twoopt", "", 0)
    if a != b {
        t.Fatal("same input must fingerprint identically")
    }
}

func TestFingerprintDiscriminates(t *testing.T) {
    coords := [][]float64{{0, 0}, {3, 0}, {3, 4}}
    base := Fingerprint(coords, "twoopt", "", 0)
    if Fingerprint([][]float64{{3, 0}, {0, 0}, {3, 4}}, "twoopt", "", 0) == base {
        t.Fatal("point order must change the fingerprint")
    }
    if Fingerprint(coords, "greedy", "", 0) == base {
        t.Fatal("algorithm must change the fingerprint")
    }
    if Fingerprint(coords, "twoopt", "cheapest_insertion", 0) == base {
        t.Fatal("construction must change the fingerprint")
    }
    if Fingerprint(coords, "twoopt", "", 1) == base {
        t.Fatal("depot must change the fingerprint")
    }
}

func TestMemoryCacheRoundTripAndTTL(t *testing.T) {
    c := NewMemory(50 * time.Millisecond)
    ctx := context.Background()
    v := model.OptimizeResponse{Order: []int{0, 1, 2}, Distance: 12}
    c.Set(ctx, "k", v)
    got, ok := c.Get(ctx, "k")
    if !ok || got.Distance != 12 || len(got.Order) != 3 {
        t.Fatalf("round trip failed: %+v ok=%v", got, ok)
    }
    // returned slice must not alias the cached one
    got.Order[0] = 99
    again, _ := c.Get(ctx, "k")
    if again.Order[0] != 0 {
        t.Fatal("cache entry mutated through returned slice")
    }
    time.Sleep(60 * time.Millisecond)
    if _, ok := c.Get(ctx, "k"); ok {
        t.Fatal("entry should have expired")
    }
}

func TestMemoryCacheMiss(t *testing.T) {
    c := NewMemory(time.Minute)
    if _, ok := c.Get(context.Background(), "absent"); ok {
        t.Fatal("unexpected hit")
    }
}

func TestFlightCollapsesConcurrentCalls(t *testing.T) {
    f := NewFlight()
    var calls int32
    release := make(chan struct{})
    fn := func() (model.OptimizeResponse, error) {
        atomic.AddInt32(&calls, 1)
        <-release
        return model.OptimizeResponse{Distance: 4}, nil
    }

    const workers = 8
    var wg sync.WaitGroup
    results := make([]model.OptimizeResponse, workers)
    for i := 0; i < workers; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            v, err := f.Do("same-key", fn)
            if err != nil {
                t.Errorf("Do: %v", err)
            }
            results[i] = v
        }(i)
    }
    // let the goroutines pile up behind the in-flight call
    time.Sleep(20 * time.Millisecond)
    close(release)
    wg.Wait()

    if got := atomic.LoadInt32(&calls); got != 1 {
        t.Fatalf("fn ran %d times, want 1", got)
    }
    for i, v := range results {
        if v.Distance != 4 {
            t.Fatalf("worker %d got %+v", i, v)
        }
    }
}

func TestFlightSequentialCallsRunFresh(t *testing.T) {
    f := NewFlight()
    n := 0
    fn := func() (model.OptimizeResponse, error) { n++; return model.OptimizeResponse{}, nil }
    _, _ = f.Do("k", fn)
    _, _ = f.Do("k", fn)
    if n != 2 {
        t.Fatalf("sequential calls must each run: %d", n)
    }
}
