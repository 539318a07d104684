package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ats-workers/internal/ats/analyzer"
	"ats-workers/internal/ats/jdparser"
	"ats-workers/internal/ats/resumeparser"
	"ats-workers/internal/ats/scoring"
	"ats-workers/internal/ats/textextract"
	apperrors "ats-workers/internal/common/errors"
	"ats-workers/internal/common/logger"
	"ats-workers/internal/models"
)

const (
	scenarioResume = "5 years experience in Java, Spring Boot, and AWS. Projects: Inventory System, Payment Gateway."
	scenarioJD     = "Looking for a Java developer with 3+ years AWS experience."
)

// ==========================
// Test doubles
// ==========================

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, req analyzer.Request) (*models.AIAnalysis, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AIAnalysis), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveAnalysis(ctx context.Context, a *models.ResumeAnalysis) error {
	return m.Called(ctx, a).Error(0)
}

type mapJDs struct {
	texts map[string]string
	calls atomic.Int32
}

func (m *mapJDs) GetJDText(_ context.Context, jobID string) (string, error) {
	m.calls.Add(1)
	if text, ok := m.texts[jobID]; ok {
		return text, nil
	}
	return "", apperrors.NewJDNotFoundError(jobID, nil)
}

type mapResumes map[string]string

func (m mapResumes) FetchResume(_ context.Context, ref string) ([]byte, error) {
	if text, ok := m[ref]; ok {
		return []byte(text), nil
	}
	return nil, apperrors.NewDocumentNotFoundError(ref, nil)
}

// plainText treats document bytes as already-extracted text and rejects
// anything starting with "corrupt".
var plainText = textextract.ExtractorFunc(func(data []byte) (string, error) {
	if len(data) >= 7 && string(data[:7]) == "corrupt" {
		return "", apperrors.NewExtractionError("bad document", nil)
	}
	return string(data), nil
})

func newDeps(t *testing.T, jds *mapJDs) Dependencies {
	t.Helper()
	scorer, err := scoring.NewService(scoring.DefaultWeights)
	require.NoError(t, err)
	return Dependencies{
		Resumes:      mapResumes{"cv/jane.pdf": "Jane Doe\njane@example.com\n" + scenarioResume},
		Extractor:    plainText,
		ResumeParser: resumeparser.New(nil),
		JDParser:     jdparser.New(nil),
		JDTexts:      jds,
		Scorer:       scorer,
	}
}

func newProcessor(t *testing.T, deps Dependencies) *Processor {
	t.Helper()
	p, err := NewProcessor(deps, 4, logger.NewTestLogger(t))
	require.NoError(t, err)
	return p
}

// ==========================
// Process
// ==========================

func TestProcess_ScenarioScoresHigh(t *testing.T) {
	p := newProcessor(t, newDeps(t, &mapJDs{texts: map[string]string{"JOB1": scenarioJD}}))

	res, err := p.Process(context.Background(), Request{
		CandidateID: "C-1",
		JobID:       "JOB1",
		ResumeBytes: []byte(scenarioResume),
		SenderName:  "Sender Name",
		SenderEmail: "sender@example.com",
	})

	require.NoError(t, err)
	assert.Greater(t, res.Score.Score, 70.0)
	assert.True(t, res.Resume.Skills.Has("java"))
	assert.True(t, res.Requirements.RequiredSkills.Has("aws"))
	assert.InDelta(t, 3.0, res.Requirements.MinimumExperience, 1e-9)

	assert.Equal(t, "Sender Name", res.CandidateName, "sender fills a missing name")
	assert.Equal(t, "sender@example.com", res.CandidateEmail)
	assert.False(t, res.Resume.FullName.Found)

	require.NotNil(t, res.Analysis)
	assert.Equal(t, res.Score.Score, res.Analysis.ATSScore)
	assert.Equal(t, "C-1", res.Analysis.CandidateID)
	assert.Nil(t, res.AI)
}

func TestProcess_ExtractedContactBeatsSender(t *testing.T) {
	p := newProcessor(t, newDeps(t, &mapJDs{texts: map[string]string{"JOB1": scenarioJD}}))

	res, err := p.Process(context.Background(), Request{
		JobID:       "JOB1",
		ResumeRef:   "cv/jane.pdf",
		SenderName:  "Recruiter Inbox",
		SenderEmail: "inbox@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", res.CandidateName)
	assert.Equal(t, "jane@example.com", res.CandidateEmail)
}

func TestProcess_SentinelsWithoutSender(t *testing.T) {
	p := newProcessor(t, newDeps(t, &mapJDs{texts: map[string]string{"JOB1": "Required: Java, Python and Docker. Minimum 3 years experience."}}))

	res, err := p.Process(context.Background(), Request{
		JobID:       "JOB1",
		ResumeBytes: []byte("lorem ipsum dolor sit amet consectetur"),
	})

	require.NoError(t, err)
	assert.Equal(t, models.UnknownName, res.CandidateName)
	assert.Equal(t, models.UnknownEmail, res.CandidateEmail)
	assert.Equal(t, 0.0, res.Score.SkillOverlap)
	assert.Less(t, res.Score.Score, 40.0)
}

func TestProcess_WithAnalyzerAndStore(t *testing.T) {
	deps := newDeps(t, &mapJDs{texts: map[string]string{"JOB1": scenarioJD}})

	ai := &models.AIAnalysis{
		TechnicalScore: 8, ExperienceScore: 7, CommunicationScore: 6, LeadershipScore: 5,
		Skills: []string{"java", "aws", "spring boot"}, MissingSkills: []string{}, RiskFlags: []string{"short tenure"},
	}
	an := &MockAnalyzer{}
	an.On("Analyze", mock.Anything, analyzer.Request{
		ResumeText:     scenarioResume,
		JobDescription: scenarioJD,
		JobID:          "JOB1",
		CandidateID:    "C-2",
	}).Return(ai, nil).Once()

	st := &MockStore{}
	st.On("SaveAnalysis", mock.Anything, mock.MatchedBy(func(a *models.ResumeAnalysis) bool {
		return a.CandidateID == "C-2" && a.TechnicalScore == 8 && a.LeadershipScore == 5 &&
			len(a.RiskFlags) == 1 && a.ATSScore > 70
	})).Return(nil).Once()

	deps.Analyzer = an
	deps.Store = st
	p := newProcessor(t, deps)

	res, err := p.Process(context.Background(), Request{CandidateID: "C-2", JobID: "JOB1", ResumeBytes: []byte(scenarioResume)})

	require.NoError(t, err)
	assert.Same(t, ai, res.AI)
	assert.Equal(t, []string{"java", "aws", "spring boot"}, res.Analysis.Skills)
	an.AssertExpectations(t)
	st.AssertExpectations(t)
}

func TestProcess_Failures(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		setup  func(d *Dependencies)
		target error
	}{
		{
			name:   "missing job id",
			req:    Request{ResumeBytes: []byte("x")},
			target: apperrors.ErrInvalidInput,
		},
		{
			name:   "missing resume",
			req:    Request{JobID: "JOB1"},
			target: apperrors.ErrInvalidInput,
		},
		{
			name:   "corrupt resume",
			req:    Request{JobID: "JOB1", ResumeBytes: []byte("corrupt pdf")},
			target: apperrors.ErrExtraction,
		},
		{
			name:   "unknown resume reference",
			req:    Request{JobID: "JOB1", ResumeRef: "cv/nobody.pdf"},
			target: apperrors.ErrNotFound,
		},
		{
			name:   "unknown job",
			req:    Request{JobID: "JOB404", ResumeBytes: []byte(scenarioResume)},
			target: apperrors.ErrNotFound,
		},
		{
			name: "analyzer failure",
			req:  Request{JobID: "JOB1", ResumeBytes: []byte(scenarioResume)},
			setup: func(d *Dependencies) {
				an := &MockAnalyzer{}
				an.On("Analyze", mock.Anything, mock.Anything).
					Return(nil, apperrors.NewAnalysisFailedError(true, errors.New("503")))
				d.Analyzer = an
			},
			target: &apperrors.StandardError{Code: apperrors.ErrCodeAnalysisFailed},
		},
		{
			name: "store failure",
			req:  Request{JobID: "JOB1", ResumeBytes: []byte(scenarioResume)},
			setup: func(d *Dependencies) {
				st := &MockStore{}
				st.On("SaveAnalysis", mock.Anything, mock.Anything).
					Return(apperrors.NewAnalysisSaveFailedError(errors.New("db down")))
				d.Store = st
			},
			target: &apperrors.StandardError{Code: apperrors.ErrCodeAnalysisSaveFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newDeps(t, &mapJDs{texts: map[string]string{"JOB1": scenarioJD}})
			if tt.setup != nil {
				tt.setup(&deps)
			}
			p := newProcessor(t, deps)

			res, err := p.Process(context.Background(), tt.req)

			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestNewProcessor_RequiresCoreDependencies(t *testing.T) {
	deps := newDeps(t, &mapJDs{})
	deps.Scorer = nil

	_, err := NewProcessor(deps, 1, logger.NewNoOpLogger())
	assert.Error(t, err)
}

// ==========================
// ProcessBatch
// ==========================

func TestProcessBatch_IsolatesFailuresAndKeepsOrder(t *testing.T) {
	jds := &mapJDs{texts: map[string]string{"JOB1": scenarioJD}}
	p := newProcessor(t, newDeps(t, jds))

	var reqs []Request
	for i := 0; i < 12; i++ {
		req := Request{CandidateID: fmt.Sprintf("C-%02d", i), JobID: "JOB1", ResumeBytes: []byte(scenarioResume)}
		switch i % 4 {
		case 1:
			req.ResumeBytes = []byte("corrupt")
		case 2:
			req.JobID = "JOB404"
		}
		reqs = append(reqs, req)
	}

	items := p.ProcessBatch(context.Background(), reqs)

	require.Len(t, items, len(reqs))
	for i, it := range items {
		assert.Equal(t, reqs[i].CandidateID, it.Request.CandidateID)
		switch i % 4 {
		case 1:
			assert.True(t, errors.Is(it.Err, apperrors.ErrExtraction))
			assert.Nil(t, it.Result)
		case 2:
			assert.True(t, errors.Is(it.Err, apperrors.ErrNotFound))
			assert.Nil(t, it.Result)
		default:
			require.NoError(t, it.Err)
			assert.Equal(t, reqs[i].CandidateID, it.Result.CandidateID)
			assert.Greater(t, it.Result.Score.Score, 70.0)
		}
	}
}

func TestProcessBatch_BoundedConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	var mu sync.Mutex
	gate := textextract.ExtractorFunc(func(data []byte) (string, error) {
		n := active.Add(1)
		defer active.Add(-1)
		mu.Lock()
		if n > peak.Load() {
			peak.Store(n)
		}
		mu.Unlock()
		return plainText(data)
	})

	deps := newDeps(t, &mapJDs{texts: map[string]string{"JOB1": scenarioJD}})
	deps.Extractor = gate
	p, err := NewProcessor(deps, 2, logger.NewTestLogger(t))
	require.NoError(t, err)

	reqs := make([]Request, 10)
	for i := range reqs {
		reqs[i] = Request{JobID: "JOB1", ResumeBytes: []byte(scenarioResume)}
	}
	items := p.ProcessBatch(context.Background(), reqs)

	for _, it := range items {
		require.NoError(t, it.Err)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestProcessBatch_CancelledContext(t *testing.T) {
	p := newProcessor(t, newDeps(t, &mapJDs{texts: map[string]string{"JOB1": scenarioJD}}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := p.ProcessBatch(ctx, []Request{{JobID: "JOB1", ResumeBytes: []byte(scenarioResume)}})

	require.Len(t, items, 1)
	assert.ErrorIs(t, items[0].Err, context.Canceled)
}
