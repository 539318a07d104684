// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"ats-workers/internal/common/config"
)

// pingTimeout bounds a readiness ping when the caller's context has no deadline.
const pingTimeout = 3 * time.Second

// PostgresClient owns the connection pool behind the analysis store.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens the pool and verifies the server answers. The pool is
// closed again if the ping fails.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	client := &PostgresClient{DB: db}
	if err := client.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return client, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	ctx, cancel := withPingTimeout(ctx)
	defer cancel()
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// RegisterMetrics exposes pool statistics as go_sql_* series labelled db_name="ats_analysis".
func (c *PostgresClient) RegisterMetrics(reg prometheus.Registerer) error {
	return reg.Register(collectors.NewDBStatsCollector(c.DB, "ats_analysis"))
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

func withPingTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, pingTimeout)
}
