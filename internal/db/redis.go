package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/IronwoodTC/quoteiq-webhook/internal/config"
)

// NewRedisClient connects the mapping-store / rate-limit backend and pings
// it once so a bad address fails at startup, not on the first webhook.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}
