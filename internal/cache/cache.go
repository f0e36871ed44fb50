package cache

import (
    "context"
    "crypto/sha256"
    "encoding/binary"
    "encoding/hex"
    "math"
    "sync"
    "time"

    "pinroute/internal/model"
)

// Cache memoizes solve results by point-set fingerprint. Implementations
// must be safe for concurrent use.
type Cache interface {
    Get(ctx context.Context, key string) (model.OptimizeResponse, bool)
    Set(ctx context.Context, key string, v model.OptimizeResponse)
}

// Fingerprint hashes the canonical binary form of the coordinates together
// with the solver knobs that change the answer. Two requests with the same
// fingerprint are guaranteed the same tour.
func Fingerprint(coords [][]float64, algorithm, construction string, depot int) string {
    h := sha256.New()
    var buf [8]byte
    for _, p := range coords {
        for _, v := range p {
            binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
            h.Write(buf[:])
        }
    }
    h.Write([]byte{0})
    h.Write([]byte(algorithm))
    h.Write([]byte{0})
    h.Write([]byte(construction))
    h.Write([]byte{0})
    binary.BigEndian.PutUint64(buf[:], uint64(depot))
    h.Write(buf[:])
    return hex.EncodeToString(h.Sum(nil))
}

// Memory is the default cache when no REDIS_URL is configured.
type Memory struct {
    mu  sync.Mutex
    ttl time.Duration
    m   map[string]memEntry
}

type memEntry struct {
    v   model.OptimizeResponse
    exp time.Time
}

func NewMemory(ttl time.Duration) *Memory {
    if ttl <= 0 {
        ttl = 5 * time.Minute
    }
    return &Memory{ttl: ttl, m: map[string]memEntry{}}
}

func (c *Memory) Get(ctx context.Context, key string) (model.OptimizeResponse, bool) {
    c.mu.Lock()
    defer c.mu.Unlock()
    e, ok := c.m[key]
    if !ok {
        return model.OptimizeResponse{}, false
    }
    if time.Now().After(e.exp) {
        delete(c.m, key)
        return model.OptimizeResponse{}, false
    }
    out := e.v
    out.Order = append([]int(nil), e.v.Order...)
    return out, true
}

func (c *Memory) Set(ctx context.Context, key string, v model.OptimizeResponse) {
    c.mu.Lock()
    defer c.mu.Unlock()
    v.Order = append([]int(nil), v.Order...)
    c.m[key] = memEntry{v: v, exp: time.Now().Add(c.ttl)}
}
