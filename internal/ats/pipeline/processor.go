// Package pipeline runs one resume through extraction, parsing, scoring and
// the optional AI analysis and persistence steps.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ats-workers/internal/ats/analyzer"
	"ats-workers/internal/ats/jdparser"
	"ats-workers/internal/ats/resumeparser"
	"ats-workers/internal/ats/scoring"
	"ats-workers/internal/ats/textextract"
	apperrors "ats-workers/internal/common/errors"
	"ats-workers/internal/common/logger"
	"ats-workers/internal/common/metrics"
	"ats-workers/internal/common/observability"
	"ats-workers/internal/models"
)

type ResumeSource interface {
	FetchResume(ctx context.Context, reference string) ([]byte, error)
}

type JDTextProvider interface {
	GetJDText(ctx context.Context, jobID string) (string, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, req analyzer.Request) (*models.AIAnalysis, error)
}

type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, a *models.ResumeAnalysis) error
}

// Dependencies wires a Processor. Resumes is only needed for requests
// without inline bytes; Analyzer, Store and Observability are optional.
type Dependencies struct {
	Resumes       ResumeSource
	Extractor     textextract.Extractor
	ResumeParser  *resumeparser.Parser
	JDParser      *jdparser.Parser
	JDTexts       JDTextProvider
	Scorer        *scoring.Service
	Analyzer      Analyzer
	Store         AnalysisStore
	Observability *observability.Observability
}

// Request identifies one candidate application. The sender fields come from
// the inbound message and stand in for a name or email the resume lacks.
type Request struct {
	CandidateID string
	JobID       string
	ResumeRef   string
	ResumeBytes []byte
	SenderName  string
	SenderEmail string
	JobTitle    string
	Department  string
}

type Result struct {
	CandidateID    string                 `json:"candidateId"`
	JobID          string                 `json:"jobId"`
	CandidateName  string                 `json:"candidateName"`
	CandidateEmail string                 `json:"candidateEmail"`
	Resume         *models.ParsedResume   `json:"parsedResume"`
	Requirements   *models.JDRequirements `json:"jdRequirements"`
	Score          *models.ScoreResult    `json:"score"`
	AI             *models.AIAnalysis     `json:"aiAnalysis,omitempty"`
	Analysis       *models.ResumeAnalysis `json:"analysis"`
}

type Processor struct {
	deps        Dependencies
	concurrency int
	log         logger.Logger
}

func NewProcessor(deps Dependencies, concurrency int, log logger.Logger) (*Processor, error) {
	switch {
	case deps.Extractor == nil:
		return nil, fmt.Errorf("pipeline: extractor is required")
	case deps.ResumeParser == nil:
		return nil, fmt.Errorf("pipeline: resume parser is required")
	case deps.JDParser == nil:
		return nil, fmt.Errorf("pipeline: jd parser is required")
	case deps.JDTexts == nil:
		return nil, fmt.Errorf("pipeline: jd text provider is required")
	case deps.Scorer == nil:
		return nil, fmt.Errorf("pipeline: scorer is required")
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Processor{
		deps:        deps,
		concurrency: concurrency,
		log:         log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}, nil
}

// Process scores one resume against its job. Extraction and JD lookup
// failures are returned unchanged; parsing never fails.
func (p *Processor) Process(ctx context.Context, req Request) (res *Result, err error) {
	if strings.TrimSpace(req.JobID) == "" {
		return nil, apperrors.NewInvalidInputError("jobId")
	}
	if len(req.ResumeBytes) == 0 && strings.TrimSpace(req.ResumeRef) == "" {
		return nil, apperrors.NewInvalidInputError("resume")
	}

	ctx, span := p.deps.Observability.StartSpan(ctx, "ats.process",
		attribute.String("jobId", req.JobID),
		attribute.String("candidateId", req.CandidateID),
	)
	defer func() {
		outcome := "scored"
		if err != nil {
			outcome = string(apperrors.AsStandardError(err).Code)
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		metrics.PipelineRuns.WithLabelValues(outcome).Inc()
		span.End()
	}()

	log := p.log.WithFields(map[string]interface{}{"jobId": req.JobID, "candidateId": req.CandidateID})
	log.Info("processing resume", nil)

	var resumeText string
	if err := p.stage(ctx, "extract", func(ctx context.Context) error {
		data := req.ResumeBytes
		if len(data) == 0 {
			if p.deps.Resumes == nil {
				return apperrors.NewInvalidInputError("resumeBytes")
			}
			var err error
			if data, err = p.deps.Resumes.FetchResume(ctx, req.ResumeRef); err != nil {
				return err
			}
		}
		var err error
		resumeText, err = p.deps.Extractor.ExtractText(data)
		return err
	}); err != nil {
		return nil, err
	}

	res = &Result{CandidateID: req.CandidateID, JobID: req.JobID}
	_ = p.stage(ctx, "parse_resume", func(context.Context) error {
		res.Resume = p.deps.ResumeParser.Parse(resumeText)
		return nil
	})
	res.CandidateName = displayValue(res.Resume.FullName, req.SenderName, models.UnknownName)
	res.CandidateEmail = displayValue(res.Resume.Email, req.SenderEmail, models.UnknownEmail)

	var jdText string
	if err := p.stage(ctx, "jd_text", func(ctx context.Context) error {
		var err error
		jdText, err = p.deps.JDTexts.GetJDText(ctx, req.JobID)
		return err
	}); err != nil {
		return nil, err
	}

	_ = p.stage(ctx, "parse_jd", func(context.Context) error {
		res.Requirements = p.deps.JDParser.ParseWithMeta(jdText, jdparser.Meta{Title: req.JobTitle, Department: req.Department})
		return nil
	})

	if err := p.stage(ctx, "score", func(context.Context) error {
		var err error
		res.Score, err = p.deps.Scorer.Calculate(resumeText, jdText, res.Resume, res.Requirements)
		return err
	}); err != nil {
		return nil, err
	}
	metrics.ATSScores.Observe(res.Score.Score)

	if p.deps.Analyzer != nil {
		if err := p.stage(ctx, "analyze", func(ctx context.Context) error {
			var err error
			res.AI, err = p.deps.Analyzer.Analyze(ctx, analyzer.Request{
				ResumeText:     resumeText,
				JobDescription: jdText,
				JobID:          req.JobID,
				CandidateID:    req.CandidateID,
			})
			return err
		}); err != nil {
			return nil, err
		}
	}

	res.Analysis = newAnalysis(res)
	if p.deps.Store != nil {
		if err := p.stage(ctx, "save", func(ctx context.Context) error {
			return p.deps.Store.SaveAnalysis(ctx, res.Analysis)
		}); err != nil {
			return nil, err
		}
	}

	log.Info("resume scored", map[string]interface{}{
		"atsScore":      res.Score.Score,
		"skillOverlap":  res.Score.SkillOverlap,
		"experienceFit": res.Score.ExperienceFit,
		"nameFound":     res.Resume.FullName.Found,
		"emailFound":    res.Resume.Email.Found,
	})
	return res, nil
}

func (p *Processor) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.deps.Observability.StartSpan(ctx, "ats."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	p.deps.Observability.RecordStage(ctx, name, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, name+" failed")
	}
	return err
}

// displayValue prefers the extracted value, then the sender-supplied one,
// then the sentinel.
func displayValue(f models.Field, fallback, sentinel string) string {
	if f.Found {
		return f.Value
	}
	if v := strings.TrimSpace(fallback); v != "" {
		return v
	}
	return sentinel
}

func newAnalysis(res *Result) *models.ResumeAnalysis {
	a := &models.ResumeAnalysis{
		CandidateID:        res.CandidateID,
		JobID:              res.JobID,
		CandidateName:      res.CandidateName,
		CandidateEmail:     res.CandidateEmail,
		ATSScore:           res.Score.Score,
		SemanticSimilarity: res.Score.SemanticSimilarity,
		SkillOverlap:       res.Score.SkillOverlap,
		ExperienceFit:      res.Score.ExperienceFit,
		Skills:             res.Resume.Skills.Sorted(),
		MissingSkills:      res.Score.MissingSkills,
		RiskFlags:          []string{},
	}
	if ai := res.AI; ai != nil {
		a.TechnicalScore = ai.TechnicalScore
		a.ExperienceScore = ai.ExperienceScore
		a.CommunicationScore = ai.CommunicationScore
		a.LeadershipScore = ai.LeadershipScore
		if len(ai.Skills) > 0 {
			a.Skills = ai.Skills
		}
		if len(ai.MissingSkills) > 0 {
			a.MissingSkills = ai.MissingSkills
		}
		a.RiskFlags = ai.RiskFlags
	}
	return a
}
