// Package jdcache keeps the extracted text of job descriptions keyed by job
// id. Entries live until Reload or ClearAll; failed loads are never stored.
package jdcache

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"ats-workers/internal/ats/textextract"
	apperrors "ats-workers/internal/common/errors"
	"ats-workers/internal/common/logger"
	"ats-workers/internal/common/metrics"
)

// Source fetches the JD document for a job id. A missing document must be
// reported with an error matching apperrors.ErrNotFound.
type Source interface {
	FetchJobDescription(ctx context.Context, jobID string) ([]byte, error)
}

// Cache is safe for concurrent use. Lookups for different job ids never
// wait on each other; concurrent misses for the same id share one load.
type Cache struct {
	source    Source
	extractor textextract.Extractor
	log       logger.Logger

	entries sync.Map // jobID -> string
	loads   singleflight.Group
}

func New(source Source, extractor textextract.Extractor, log logger.Logger) *Cache {
	return &Cache{
		source:    source,
		extractor: extractor,
		log:       log.WithFields(map[string]interface{}{"component": "jd-cache"}),
	}
}

// GetJDText returns the cached text for jobID, loading it on a miss. Job IDs
// are keyed with surrounding whitespace trimmed.
func (c *Cache) GetJDText(ctx context.Context, jobID string) (string, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return "", apperrors.NewInvalidInputError("jobId")
	}

	if text, ok := c.entries.Load(jobID); ok {
		metrics.JDCacheLookups.WithLabelValues("hit").Inc()
		return text.(string), nil
	}
	metrics.JDCacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := c.loads.Do(jobID, func() (interface{}, error) {
		if text, ok := c.entries.Load(jobID); ok {
			return text, nil
		}
		text, err := c.load(ctx, jobID)
		if err != nil {
			return nil, err
		}
		c.entries.Store(jobID, text)
		return text, nil
	})
	if err != nil {
		metrics.JDCacheLookups.WithLabelValues("error").Inc()
		c.log.Warn("jd load failed", map[string]interface{}{"jobId": jobID, "error": err})
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) load(ctx context.Context, jobID string) (string, error) {
	data, err := c.source.FetchJobDescription(ctx, jobID)
	if err != nil {
		return "", sourceError(jobID, err)
	}

	text, err := c.extractor.ExtractText(data)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewJDEmptyContentError(jobID)
	}

	c.log.Debug("jd text cached", map[string]interface{}{"jobId": jobID, "chars": len(text)})
	return text, nil
}

func sourceError(jobID string, err error) error {
	var std *apperrors.StandardError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.NewJDNotFoundError(jobID, err)
	case errors.As(err, &std):
		return err
	default:
		return apperrors.NewDocumentFetchError(jobID, err)
	}
}

// Reload evicts jobID so the next GetJDText fetches it again. A load already
// in flight may still store the text it read.
func (c *Cache) Reload(jobID string) {
	jobID = strings.TrimSpace(jobID)
	if _, loaded := c.entries.LoadAndDelete(jobID); loaded {
		metrics.JDCacheEvictions.Inc()
	}
	c.loads.Forget(jobID)
	c.log.Info("jd cache entry evicted", map[string]interface{}{"jobId": jobID})
}

// ClearAll evicts every entry and returns how many were removed.
func (c *Cache) ClearAll() int {
	removed := 0
	c.entries.Range(func(key, _ interface{}) bool {
		if _, loaded := c.entries.LoadAndDelete(key); loaded {
			removed++
		}
		c.loads.Forget(key.(string))
		return true
	})
	metrics.JDCacheEvictions.Add(float64(removed))
	c.log.Info("jd cache cleared", map[string]interface{}{"removed": removed})
	return removed
}

// Len returns the number of cached job descriptions.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
