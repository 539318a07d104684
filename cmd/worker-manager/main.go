// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ats-workers/internal/common/camunda"
	"ats-workers/internal/common/config"
	"ats-workers/internal/common/database"
	"ats-workers/internal/common/logger"
	"ats-workers/internal/common/observability"
	"ats-workers/pkg/registry"

	cas "ats-workers/internal/workers/ats/calculate-ats-score"
	prs "ats-workers/internal/workers/ats/parse-resume"
	rjc "ats-workers/internal/workers/ats/reload-jd-cache"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.WithError(err).Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := loadConfig()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
	})
	log.Info("starting worker manager", map[string]interface{}{"version": cfg.App.Version})

	var obsOpts []observability.Option
	if cfg.Logging.Spans {
		obsOpts = append(obsOpts, observability.WithSpanProcessor(observability.NewLogSpanProcessor(log)))
	}
	obs := observability.New(cfg.App.Name, log, obsOpts...)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("zeebe client connected", nil)

	checks := readinessChecks{"zeebe": zeebe.HealthCheck}

	// --- Redis (document backend) ---
	var rdb *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(ctx, cfg.Database.Redis)
			return err
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		if err := rdb.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
			log.WithError(err).Warn("redis pool metrics not registered", nil)
		}
		checks["redis"] = rdb.Ping
		log.Info("redis connected", nil)
	}

	// --- PostgreSQL (analysis store) ---
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Enabled() {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(ctx, cfg.Database.Postgres)
			return err
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
			log.WithError(err).Warn("postgres pool metrics not registered", nil)
		}
		checks["postgres"] = pg.Ping
		log.Info("postgres connected", nil)
	} else {
		log.Warn("postgres not configured, analyses will not be stored", nil)
	}

	eng, err := newEngine(ctx, cfg, rdb, pg, obs, log)
	if err != nil {
		zapLog.Fatal("engine initialization failed", zap.Error(err))
	}

	// --- Workers ---
	checkRegistry(cfg.Registry.Path, []string{prs.TaskType, cas.TaskType, rjc.TaskType}, log)

	var workers []worker.JobWorker
	start := func(taskType string, handler camunda.HandlerFunc) {
		if w := camunda.StartWorker(zeebe.GetClient(), taskType, config.GetWorkerConfig(cfg, taskType), handler, obs, log); w != nil {
			workers = append(workers, w)
		}
	}

	parseHandler, err := prs.NewHandler(&prs.Config{Enabled: true, Timeout: workerTimeout(cfg, prs.TaskType)},
		eng.documents, eng.extractor, eng.resumeParser, log)
	if err != nil {
		zapLog.Fatal("failed to create parse-resume handler", zap.Error(err))
	}
	start(prs.TaskType, parseHandler.Handle)

	scoreHandler, err := cas.NewHandler(&cas.Config{Enabled: true, Timeout: workerTimeout(cfg, cas.TaskType)}, eng.processor, log)
	if err != nil {
		zapLog.Fatal("failed to create calculate-ats-score handler", zap.Error(err))
	}
	start(cas.TaskType, scoreHandler.Handle)

	reloadHandler, err := rjc.NewHandler(&rjc.Config{Enabled: true, Timeout: workerTimeout(cfg, rjc.TaskType)}, eng.jdCache, log)
	if err != nil {
		zapLog.Fatal("failed to create reload-jd-cache handler", zap.Error(err))
	}
	start(rjc.TaskType, reloadHandler.Handle)

	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           newHTTPHandler(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": cfg.Metrics.Address})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("health/metrics server failed", nil)
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
	}
	awaitWorkers(shutdownCtx, workers)

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error stopping health/metrics server", nil)
	}
	if err := zeebe.Close(); err != nil {
		log.WithError(err).Error("error closing zeebe client", nil)
	}

	log.Info("worker manager stopped gracefully", nil)
}

func workerTimeout(cfg *config.Config, taskType string) time.Duration {
	return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
}

// awaitWorkers waits for in-flight jobs until ctx expires.
func awaitWorkers(ctx context.Context, workers []worker.JobWorker) {
	done := make(chan struct{})
	go func() {
		for _, w := range workers {
			w.AwaitClose()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// checkRegistry warns about task types the activity registry does not
// describe. A missing or invalid registry never stops the process.
func checkRegistry(path string, taskTypes []string, log logger.Logger) {
	if path == "" {
		return
	}
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.WithError(err).Warn("activity registry not loaded", map[string]interface{}{"path": path})
		return
	}
	if err := reg.Validate(); err != nil {
		log.WithError(err).Warn("activity registry is invalid", map[string]interface{}{"path": path})
	}
	for _, taskType := range taskTypes {
		if _, ok := reg.FindByTaskType(taskType); !ok {
			log.Warn("task type missing from activity registry", map[string]interface{}{"taskType": taskType})
		}
	}
}
