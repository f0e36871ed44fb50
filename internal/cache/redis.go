package cache

import (
    "context"
    "encoding/json"
    "time"

    redis "github.com/redis/go-redis/v9"

    "pinroute/internal/model"
)

// Redis caches solve results in Redis so identical pin sets are answered
// from the shared cache across instances.
type Redis struct {
    rdb *redis.Client
    ttl time.Duration
}

func NewRedis(url string, ttl time.Duration) (*Redis, error) {
    opt, err := redis.ParseURL(url)
    if err != nil {
        return nil, err
    }
    if ttl <= 0 {
        ttl = 5 * time.Minute
    }
    return &Redis{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

func (c *Redis) Get(ctx context.Context, key string) (model.OptimizeResponse, bool) {
    raw, err := c.rdb.Get(ctx, c.name(key)).Bytes()
    if err != nil {
        return model.OptimizeResponse{}, false
    }
    var v model.OptimizeResponse
    if err := json.Unmarshal(raw, &v); err != nil {
        return model.OptimizeResponse{}, false
    }
    return v, true
}

func (c *Redis) Set(ctx context.Context, key string, v model.OptimizeResponse) {
    raw, err := json.Marshal(v)
    if err != nil {
        return
    }
    ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    _ = c.rdb.Set(ctx, c.name(key), raw, c.ttl).Err()
}

func (c *Redis) name(key string) string { return "solve:" + key }
