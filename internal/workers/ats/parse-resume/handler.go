package parseresume

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"ats-workers/internal/ats/resumeparser"
	"ats-workers/internal/ats/textextract"
	"ats-workers/internal/common/camunda"
	"ats-workers/internal/common/errors"
	"ats-workers/internal/common/logger"
	"ats-workers/internal/common/metrics"
	"ats-workers/internal/common/validation"
)

const TaskType = "ats.resume.parse"

type ResumeSource interface {
	FetchResume(ctx context.Context, reference string) ([]byte, error)
}

type Handler struct {
	config       *Config
	resumes      ResumeSource
	extractor    textextract.Extractor
	parser       *resumeparser.Parser
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(
	config *Config,
	resumes ResumeSource,
	extractor textextract.Extractor,
	parser *resumeparser.Parser,
	log logger.Logger,
) (*Handler, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		resumes:      resumes,
		extractor:    extractor,
		parser:       parser,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

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

// Execute fetches, extracts and parses one resume.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	data, err := h.resumes.FetchResume(ctx, input.ResumeRef)
	if err != nil {
		return nil, err
	}
	text, err := h.extractor.ExtractText(data)
	if err != nil {
		return nil, err
	}

	parsed := h.parser.Parse(text)
	h.logger.Debug("resume parsed", map[string]interface{}{
		"candidateId": input.CandidateID,
		"skills":      parsed.Skills.Len(),
		"wordCount":   parsed.WordCount,
	})

	return &Output{
		CandidateID:       input.CandidateID,
		FullName:          parsed.DisplayName(),
		Email:             parsed.DisplayEmail(),
		NameFound:         parsed.FullName.Found,
		EmailFound:        parsed.Email.Found,
		Skills:            parsed.Skills.Sorted(),
		YearsOfExperience: parsed.YearsOfExperience,
		Projects:          parsed.Projects,
		WordCount:         parsed.WordCount,
	}, nil
}
