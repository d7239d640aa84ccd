package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jayeshjain4/StatusGo/config"
)

// NewRedis connects to redis when an address is configured. A nil client means
// redis is disabled and callers use their in-memory fallback.
func NewRedis(cfg config.RedisSection) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	rc := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rc, nil
}
