// Package analyzer calls the external AI resume analysis service.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net"
	"strings"
	"time"

	apperrors "ats-workers/internal/common/errors"
	commonhttp "ats-workers/internal/common/http"
	"ats-workers/internal/models"
)

const analyzePath = "/tools/analyze_resume"

// Request is the body of an analyze_resume call.
type Request struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
	JobID          string `json:"jobId"`
	CandidateID    string `json:"candidateId"`
}

type Client struct {
	http     *commonhttp.Client
	endpoint string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:     commonhttp.NewClient(timeout),
		endpoint: strings.TrimRight(baseURL, "/") + analyzePath,
	}
}

// Analyze returns the service's scores. Transport failures, timeouts and
// 5xx/429 answers are retryable; anything else is not.
func (c *Client) Analyze(ctx context.Context, req Request) (*models.AIAnalysis, error) {
	var resp response
	if err := c.http.PostJSON(ctx, c.endpoint, req, &resp); err != nil {
		return nil, apperrors.NewAnalysisFailedError(retryable(err), err)
	}
	return resp.toModel(), nil
}

func retryable(err error) bool {
	var statusErr *commonhttp.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// response tolerates the loose typing of the service: scores may be
// fractional and lists may arrive as comma-separated strings.
type response struct {
	TechnicalScore     float64    `json:"technical_score"`
	ExperienceScore    float64    `json:"experience_score"`
	CommunicationScore float64    `json:"communication_score"`
	LeadershipScore    float64    `json:"leadership_score"`
	Skills             stringList `json:"skills"`
	MissingSkills      stringList `json:"missing_skills"`
	RiskFlags          stringList `json:"risk_flags"`
}

func (r response) toModel() *models.AIAnalysis {
	return &models.AIAnalysis{
		TechnicalScore:     int(math.Round(r.TechnicalScore)),
		ExperienceScore:    int(math.Round(r.ExperienceScore)),
		CommunicationScore: int(math.Round(r.CommunicationScore)),
		LeadershipScore:    int(math.Round(r.LeadershipScore)),
		Skills:             r.Skills.orEmpty(),
		MissingSkills:      r.MissingSkills.orEmpty(),
		RiskFlags:          r.RiskFlags.orEmpty(),
	}
}

type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*l = out
	return nil
}

func (l stringList) orEmpty() []string {
	if l == nil {
		return []string{}
	}
	return l
}
