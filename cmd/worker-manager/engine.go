package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ats-workers/internal/ats/analyzer"
	"ats-workers/internal/ats/documents"
	"ats-workers/internal/ats/jdcache"
	"ats-workers/internal/ats/jdparser"
	"ats-workers/internal/ats/pipeline"
	"ats-workers/internal/ats/resumeparser"
	"ats-workers/internal/ats/scoring"
	"ats-workers/internal/ats/skills"
	"ats-workers/internal/ats/store"
	"ats-workers/internal/ats/textextract"
	"ats-workers/internal/common/config"
	"ats-workers/internal/common/database"
	"ats-workers/internal/common/logger"
	"ats-workers/internal/common/observability"
)

// engine holds the shared components the workers are built from.
type engine struct {
	documents    documents.Source
	extractor    textextract.Extractor
	resumeParser *resumeparser.Parser
	jdCache      *jdcache.Cache
	processor    *pipeline.Processor
}

func newEngine(
	ctx context.Context,
	cfg *config.Config,
	rdb *database.RedisClient,
	pg *database.PostgresClient,
	obs *observability.Observability,
	log logger.Logger,
) (*engine, error) {
	taxonomy := skills.Default()
	if cfg.ATS.TaxonomyPath != "" {
		var err error
		if taxonomy, err = skills.LoadFile(cfg.ATS.TaxonomyPath); err != nil {
			return nil, fmt.Errorf("failed to load skill taxonomy: %w", err)
		}
	}
	log.Info("skill taxonomy loaded", map[string]interface{}{"skills": taxonomy.Len(), "path": cfg.ATS.TaxonomyPath})

	var redisClient *redis.Client
	if rdb != nil {
		redisClient = rdb.Client
	}
	docs, err := documents.Open(ctx, cfg.ATS.Documents, redisClient)
	if err != nil {
		return nil, err
	}

	w := cfg.ATS.Weights
	scorer, err := scoring.NewService(scoring.Weights{
		Similarity:   w.Similarity,
		SkillOverlap: w.SkillOverlap,
		Experience:   w.Experience,
	})
	if err != nil {
		return nil, err
	}

	extractor := textextract.NewPDFExtractor()
	eng := &engine{
		documents:    docs,
		extractor:    extractor,
		resumeParser: resumeparser.New(taxonomy),
		jdCache:      jdcache.New(docs, extractor, log),
	}

	deps := pipeline.Dependencies{
		Resumes:       docs,
		Extractor:     extractor,
		ResumeParser:  eng.resumeParser,
		JDParser:      jdparser.New(taxonomy),
		JDTexts:       eng.jdCache,
		Scorer:        scorer,
		Observability: obs,
	}
	if base := cfg.ATS.Analyzer.BaseURL; base != "" {
		deps.Analyzer = analyzer.NewClient(base, config.GetDuration(cfg.ATS.Analyzer.Timeout))
		log.Info("ai analysis enabled", map[string]interface{}{"baseUrl": base})
	}
	if pg != nil {
		analyses := store.NewPostgresStore(pg.DB, log)
		if err := analyses.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		deps.Store = analyses
	}

	if eng.processor, err = pipeline.NewProcessor(deps, cfg.ATS.BatchConcurrency, log); err != nil {
		return nil, err
	}
	return eng, nil
}
