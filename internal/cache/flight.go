package cache

import (
    "sync"

    "pinroute/internal/model"
)

// Flight collapses concurrent solves for an identical fingerprint into a
// single computation; late arrivals block and share the first result.
type Flight struct {
    mu sync.Mutex
    m  map[string]*flightCall
}

type flightCall struct {
    wg  sync.WaitGroup
    v   model.OptimizeResponse
    err error
}

func NewFlight() *Flight {
    return &Flight{m: map[string]*flightCall{}}
}

// Do runs fn for key unless a call for the same key is already in flight,
// in which case it waits and returns that call's result.
func (f *Flight) Do(key string, fn func() (model.OptimizeResponse, error)) (model.OptimizeResponse, error) {
    f.mu.Lock()
    if c, ok := f.m[key]; ok {
        f.mu.Unlock()
        c.wg.Wait()
        return c.v, c.err
    }
    c := &flightCall{}
    c.wg.Add(1)
    f.m[key] = c
    f.mu.Unlock()

    c.v, c.err = fn()
    c.wg.Done()

    f.mu.Lock()
    delete(f.m, key)
    f.mu.Unlock()
    return c.v, c.err
}
