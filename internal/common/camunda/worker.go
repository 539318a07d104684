// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"ats-workers/internal/common/config"
	"ats-workers/internal/common/logger"
	"ats-workers/internal/common/metrics"
	"ats-workers/internal/common/observability"
)

// HandlerFunc is the Zeebe job handler signature.
type HandlerFunc = worker.JobHandler

// StartWorker opens a job worker for taskType. It returns nil when the
// worker is disabled in configuration.
func StartWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler HandlerFunc,
	obs *observability.Observability,
	log logger.Logger,
) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, obs)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}

// Instrument wraps a handler with the active-jobs gauge and duration metrics.
// Completion and failure counters are recorded by the handlers, which know
// the outcome.
func Instrument(taskType string, handler HandlerFunc, obs *observability.Observability) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer func() {
			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			elapsed := time.Since(start)
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			obs.RecordJobDuration(context.Background(), taskType, elapsed, "handled")
			obs.RecordJobProcessed(context.Background(), taskType, "handled")
		}()
		handler(client, job)
	}
}

// CompleteJob sends the job result, retrying transient broker failures.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	payload, err := json.Marshal(output)
	if err != nil {
		return err
	}
	return ExecuteWithRetry(ctx, DefaultRetryConfig, "complete-job", func(ctx context.Context) error {
		cmd, err := client.NewCompleteJobCommand().
			JobKey(job.Key).
			VariablesFromString(string(payload))
		if err != nil {
			return err
		}
		_, err = cmd.Send(ctx)
		return err
	})
}
