package api

import (
    "context"
    "log"
    "os"
    "strconv"
    "strings"
    "time"

    "golang.org/x/time/rate"

    "pinroute/internal/cache"
    "pinroute/internal/store"
)

// Server wires the HTTP surface to the solver, stores, cache, and broker.
type Server struct {
    Store   store.Store
    Cache   cache.Cache
    Flight  *cache.Flight
    Broker  EventBroker
    Limiter *rate.Limiter

    MinPoints     int
    APIToken      string
    DefaultBudget time.Duration
    MaxIters      int
}

// NewServer assembles a Server from the environment. With no DATABASE_URL
// or REDIS_URL the in-memory implementations are used, which keeps local
// dev and tests dependency-free.
func NewServer() (*Server, error) {
    var st store.Store
    if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
        pg, err := store.NewPostgres(dsn)
        if err != nil {
            return nil, err
        }
        if os.Getenv("DB_MIGRATE") != "false" {
            ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
            defer cancel()
            if err := pg.EnsureSchema(ctx); err != nil {
                return nil, err
            }
        }
        st = pg
    } else {
        st = store.NewMemory()
    }

    ttl := time.Duration(envInt("CACHE_TTL_SEC", 300)) * time.Second
    var c cache.Cache
    var broker EventBroker
    if url := strings.TrimSpace(os.Getenv("REDIS_URL")); url != "" {
        rc, err := cache.NewRedis(url, ttl)
        if err != nil {
            return nil, err
        }
        c = rc
        rb, err := NewRedisBroker()
        if err != nil {
            return nil, err
        }
        broker = rb
    } else {
        c = cache.NewMemory(ttl)
        broker = NewBroker()
    }

    var lim *rate.Limiter
    if rps := envInt("RATE_RPS", 0); rps > 0 {
        burst := envInt("RATE_BURST", rps)
        if burst < 1 {
            burst = 1
        }
        lim = rate.NewLimiter(rate.Limit(rps), burst)
        log.Printf("rate limit enabled: %d rps, burst %d", rps, burst)
    }

    return &Server{
        Store:         st,
        Cache:         c,
        Flight:        cache.NewFlight(),
        Broker:        broker,
        Limiter:       lim,
        MinPoints:     envInt("MIN_POINTS", 0),
        APIToken:      strings.TrimSpace(os.Getenv("API_TOKEN")),
        DefaultBudget: time.Duration(envInt("SOLVE_TIME_BUDGET_MS", 2000)) * time.Millisecond,
        MaxIters:      envInt("SOLVE_MAX_ITERS", 200000),
    }, nil
}

func envInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            return n
        }
    }
    return def
}
