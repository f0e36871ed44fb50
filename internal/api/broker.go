package api

import (
    "sync"
)

// ProgressEvent is a solver progress notification fanned out to stream
// subscribers for a solve id.
type ProgressEvent struct {
    Type string         `json:"type"`
    Data map[string]any `json:"data"`
}

// EventBroker fans solver progress out to stream subscribers. Publish never
// blocks; slow subscribers drop events.
type EventBroker interface {
    Subscribe(solveID string) chan ProgressEvent
    Unsubscribe(solveID string, ch chan ProgressEvent)
    Publish(solveID string, evt ProgressEvent)
}

type Broker struct {
    mu   sync.Mutex
    subs map[string]map[chan ProgressEvent]struct{} // solveId -> set of channels
}

func NewBroker() *Broker {
    return &Broker{subs: map[string]map[chan ProgressEvent]struct{}{}}
}

func (b *Broker) Subscribe(solveID string) chan ProgressEvent {
    ch := make(chan ProgressEvent, 16)
    b.mu.Lock()
    if b.subs[solveID] == nil { b.subs[solveID] = map[chan ProgressEvent]struct{}{} }
    b.subs[solveID][ch] = struct{}{}
    b.mu.Unlock()
    return ch
}

func (b *Broker) Unsubscribe(solveID string, ch chan ProgressEvent) {
    b.mu.Lock()
    if m := b.subs[solveID]; m != nil {
        delete(m, ch)
        if len(m) == 0 { delete(b.subs, solveID) }
    }
    b.mu.Unlock()
    close(ch)
}

func (b *Broker) Publish(solveID string, evt ProgressEvent) {
    b.mu.Lock()
    m := b.subs[solveID]
    for ch := range m {
        select { case ch <- evt: default: }
    }
    b.mu.Unlock()
}
