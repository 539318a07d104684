// Package store persists resume analyses.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "ats-workers/internal/common/errors"
	"ats-workers/internal/common/logger"
	"ats-workers/internal/models"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS resume_analysis (
	id                  UUID PRIMARY KEY,
	candidate_id        TEXT NOT NULL,
	job_id              TEXT NOT NULL,
	candidate_name      TEXT NOT NULL,
	candidate_email     TEXT NOT NULL,
	ats_score           DOUBLE PRECISION NOT NULL,
	semantic_similarity DOUBLE PRECISION NOT NULL,
	skill_overlap       DOUBLE PRECISION NOT NULL,
	experience_fit      DOUBLE PRECISION NOT NULL,
	technical_score     INTEGER NOT NULL DEFAULT 0,
	experience_score    INTEGER NOT NULL DEFAULT 0,
	communication_score INTEGER NOT NULL DEFAULT 0,
	leadership_score    INTEGER NOT NULL DEFAULT 0,
	skills              TEXT[] NOT NULL DEFAULT '{}',
	missing_skills      TEXT[] NOT NULL DEFAULT '{}',
	risk_flags          TEXT[] NOT NULL DEFAULT '{}',
	created_at          TIMESTAMPTZ NOT NULL
)`

const insertSQL = `INSERT INTO resume_analysis (
	id, candidate_id, job_id, candidate_name, candidate_email,
	ats_score, semantic_similarity, skill_overlap, experience_fit,
	technical_score, experience_score, communication_score, leadership_score,
	skills, missing_skills, risk_flags, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

const selectByJobSQL = `SELECT
	id, candidate_id, job_id, candidate_name, candidate_email,
	ats_score, semantic_similarity, skill_overlap, experience_fit,
	technical_score, experience_score, communication_score, leadership_score,
	skills, missing_skills, risk_flags, created_at
FROM resume_analysis WHERE job_id = $1 ORDER BY created_at`

type PostgresStore struct {
	db  *sql.DB
	log logger.Logger
	now func() time.Time
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:  db,
		log: log.WithFields(map[string]interface{}{"component": "analysis-store"}),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// EnsureSchema creates the resume_analysis table when it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return apperrors.NewAnalysisSaveFailedError(err)
	}
	return nil
}

// SaveAnalysis inserts a. Empty ID and CreatedAt are filled in place.
func (s *PostgresStore) SaveAnalysis(ctx context.Context, a *models.ResumeAnalysis) error {
	if a == nil {
		return apperrors.NewInvalidInputError("analysis")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, insertSQL,
		a.ID, a.CandidateID, a.JobID, a.CandidateName, a.CandidateEmail,
		a.ATSScore, a.SemanticSimilarity, a.SkillOverlap, a.ExperienceFit,
		a.TechnicalScore, a.ExperienceScore, a.CommunicationScore, a.LeadershipScore,
		pq.Array(nonNil(a.Skills)), pq.Array(nonNil(a.MissingSkills)), pq.Array(nonNil(a.RiskFlags)),
		a.CreatedAt,
	)
	if err != nil {
		s.log.Error("failed to save analysis", map[string]interface{}{
			"candidateId": a.CandidateID,
			"jobId":       a.JobID,
			"error":       err,
		})
		return apperrors.NewAnalysisSaveFailedError(err)
	}

	s.log.Info("analysis saved", map[string]interface{}{
		"id":          a.ID,
		"candidateId": a.CandidateID,
		"jobId":       a.JobID,
		"atsScore":    a.ATSScore,
	})
	return nil
}

// ListByJob returns the analyses stored for jobID in insertion order.
func (s *PostgresStore) ListByJob(ctx context.Context, jobID string) ([]models.ResumeAnalysis, error) {
	rows, err := s.db.QueryContext(ctx, selectByJobSQL, jobID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	defer rows.Close()

	var out []models.ResumeAnalysis
	for rows.Next() {
		var a models.ResumeAnalysis
		if err := rows.Scan(
			&a.ID, &a.CandidateID, &a.JobID, &a.CandidateName, &a.CandidateEmail,
			&a.ATSScore, &a.SemanticSimilarity, &a.SkillOverlap, &a.ExperienceFit,
			&a.TechnicalScore, &a.ExperienceScore, &a.CommunicationScore, &a.LeadershipScore,
			pq.Array(&a.Skills), pq.Array(&a.MissingSkills), pq.Array(&a.RiskFlags),
			&a.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
