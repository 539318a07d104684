// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"ats-workers/internal/common/config"
)

// RedisClient holds the connection used by the redis document backend.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis connects and pings. A client that cannot ping is closed and not returned.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	client := &RedisClient{Client: rdb}
	if err := client.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return client, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	ctx, cancel := withPingTimeout(ctx)
	defer cancel()
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// RegisterMetrics exposes the connection pool counters as ats_redis_pool_* series.
func (c *RedisClient) RegisterMetrics(reg prometheus.Registerer) error {
	stat := func(pick func(*redis.PoolStats) uint32) func() float64 {
		return func() float64 { return float64(pick(c.Client.PoolStats())) }
	}
	collectorsToRegister := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "ats_redis_pool_total_connections",
			Help: "Connections currently held by the redis pool",
		}, stat(func(s *redis.PoolStats) uint32 { return s.TotalConns })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "ats_redis_pool_idle_connections",
			Help: "Idle connections in the redis pool",
		}, stat(func(s *redis.PoolStats) uint32 { return s.IdleConns })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "ats_redis_pool_timeouts_total",
			Help: "Times a caller waited too long for a pooled connection",
		}, stat(func(s *redis.PoolStats) uint32 { return s.Timeouts })),
	}
	for _, col := range collectorsToRegister {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
