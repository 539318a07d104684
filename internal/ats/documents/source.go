// Package documents fetches resume and job-description bytes from the
// configured storage backend.
package documents

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/redis/go-redis/v9"

	"ats-workers/internal/common/aws"
	"ats-workers/internal/common/config"
	apperrors "ats-workers/internal/common/errors"
)

// Source returns raw document bytes. A missing document is reported with an
// error matching apperrors.ErrNotFound; other failures are retryable fetch
// errors.
type Source interface {
	FetchResume(ctx context.Context, reference string) ([]byte, error)
	FetchJobDescription(ctx context.Context, jobID string) ([]byte, error)
}

// Open builds the Source selected by cfg.Backend. rdb is only used by the
// redis backend and may be nil otherwise.
func Open(ctx context.Context, cfg config.DocumentsConfig, rdb *redis.Client) (Source, error) {
	switch cfg.Backend {
	case "", config.DocumentBackendFile:
		return NewFileSource(cfg.File.JDDir, cfg.File.ResumeDir), nil
	case config.DocumentBackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis document backend needs a redis client")
		}
		return NewRedisSource(rdb, cfg.Redis.JDKeyPrefix, cfg.Redis.ResumeKeyPrefix), nil
	case config.DocumentBackendS3:
		client, err := aws.NewS3Client(ctx, cfg.S3.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		return NewS3Source(client, cfg.S3.Bucket, cfg.S3.JDPrefix, cfg.S3.ResumePrefix), nil
	default:
		return nil, fmt.Errorf("unsupported document backend %q", cfg.Backend)
	}
}

// cleanReference validates a slash-separated reference that must stay
// inside its root.
func cleanReference(ref string) (string, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(ref), "\\", "/")
	if normalized == "" || strings.HasPrefix(normalized, "/") || strings.ContainsRune(normalized, 0) {
		return "", apperrors.NewInvalidReferenceError(ref)
	}
	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return "", apperrors.NewInvalidReferenceError(ref)
		}
	}
	cleaned := path.Clean(normalized)
	if cleaned == "." {
		return "", apperrors.NewInvalidReferenceError(ref)
	}
	return cleaned, nil
}

// jdName maps a job id to its document name. Job ids are single path
// segments.
func jdName(jobID string) (string, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" || jobID == "." || jobID == ".." || strings.ContainsAny(jobID, "/\\\x00") {
		return "", apperrors.NewInvalidReferenceError(jobID)
	}
	return jobID + ".pdf", nil
}
