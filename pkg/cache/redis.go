package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/config"

	goredis "github.com/redis/go-redis/v9"
)

// NewRedis connects to Redis and verifies the connection. It returns nil
// without error when no address is configured.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
