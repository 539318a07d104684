package reloadjdcache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"ats-workers/internal/common/camunda"
	"ats-workers/internal/common/errors"
	"ats-workers/internal/common/logger"
	"ats-workers/internal/common/metrics"
	"ats-workers/internal/common/validation"
)

const TaskType = "ats.jdcache.reload"

// Cache is satisfied by *jdcache.Cache.
type Cache interface {
	Reload(jobID string)
	ClearAll() int
}

type Handler struct {
	config       *Config
	cache        Cache
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, cache Cache, log logger.Logger) (*Handler, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		cache:        cache,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err == nil {
		var output *Output
		if output, err = h.Execute(ctx, input); err == nil {
			if err = camunda.CompleteJob(ctx, client, job, output); err != nil {
				h.logger.WithError(err).Error("failed to complete job", map[string]interface{}{"jobKey": job.Key})
				return
			}
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			return
		}
	}

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.AsStandardError(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInvalidJobVariablesError(err.Error())
	}
	if result := validation.ValidateInput(variables, GetInputSchema()); !result.Valid {
		return nil, errors.NewInvalidJobVariablesError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInvalidJobVariablesError(err.Error())
	}
	return &input, nil
}

func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	if input.ClearAll {
		n := h.cache.ClearAll()
		h.logger.Info("jd cache cleared", map[string]interface{}{"evicted": n})
		return &Output{Cleared: true, Evicted: n}, nil
	}

	jobID := strings.TrimSpace(input.JobID)
	if jobID == "" {
		return nil, errors.NewInvalidInputError("jobId")
	}
	h.cache.Reload(jobID)
	h.logger.Info("jd cache entry reloaded", map[string]interface{}{"jobId": jobID})
	return &Output{JobID: jobID}, nil
}
