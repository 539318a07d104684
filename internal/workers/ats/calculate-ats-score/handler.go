package calculateatsscore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"ats-workers/internal/ats/pipeline"
	"ats-workers/internal/common/camunda"
	"ats-workers/internal/common/errors"
	"ats-workers/internal/common/logger"
	"ats-workers/internal/common/metrics"
	"ats-workers/internal/common/validation"
)

const TaskType = "ats.score.calculate"

// Processor is satisfied by *pipeline.Processor.
type Processor interface {
	Process(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

type Handler struct {
	config       *Config
	processor    Processor
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, processor Processor, log logger.Logger) (*Handler, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if processor == nil {
		return nil, fmt.Errorf("%s: processor is required", TaskType)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		processor:    processor,
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
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.WithError(err).Error("failed to complete job", map[string]interface{}{"jobKey": job.Key})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
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

// Execute scores the candidate's resume against the job description.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	res, err := h.processor.Process(ctx, pipeline.Request{
		CandidateID: input.CandidateID,
		JobID:       input.JobID,
		ResumeRef:   input.ResumeRef,
		SenderName:  input.SenderName,
		SenderEmail: input.SenderEmail,
		JobTitle:    input.JobTitle,
		Department:  input.Department,
	})
	if err != nil {
		return nil, err
	}

	out := &Output{
		CandidateID:        res.CandidateID,
		JobID:              res.JobID,
		CandidateName:      res.CandidateName,
		CandidateEmail:     res.CandidateEmail,
		ATSScore:           res.Score.Score,
		SemanticSimilarity: res.Score.SemanticSimilarity,
		SkillOverlap:       res.Score.SkillOverlap,
		ExperienceFit:      res.Score.ExperienceFit,
		MatchedSkills:      res.Score.MatchedSkills,
		MissingSkills:      res.Score.MissingSkills,
		RiskFlags:          []string{},
	}
	if a := res.Analysis; a != nil {
		out.AnalysisID = a.ID
		out.MissingSkills = a.MissingSkills
		out.TechnicalScore = a.TechnicalScore
		out.ExperienceScore = a.ExperienceScore
		out.CommunicationScore = a.CommunicationScore
		out.LeadershipScore = a.LeadershipScore
		if a.RiskFlags != nil {
			out.RiskFlags = a.RiskFlags
		}
	}
	return out, nil
}
