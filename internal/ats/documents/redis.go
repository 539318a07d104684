package documents

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	apperrors "ats-workers/internal/common/errors"
)

// RedisSource reads document bytes stored as plain string values.
type RedisSource struct {
	client       redis.Cmdable
	jdPrefix     string
	resumePrefix string
}

func NewRedisSource(client redis.Cmdable, jdPrefix, resumePrefix string) *RedisSource {
	return &RedisSource{client: client, jdPrefix: jdPrefix, resumePrefix: resumePrefix}
}

func (s *RedisSource) FetchJobDescription(ctx context.Context, jobID string) ([]byte, error) {
	if _, err := jdName(jobID); err != nil {
		return nil, err
	}
	return s.get(ctx, s.jdPrefix+jobID, jobID)
}

func (s *RedisSource) FetchResume(ctx context.Context, reference string) ([]byte, error) {
	ref, err := cleanReference(reference)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, s.resumePrefix+ref, reference)
}

func (s *RedisSource) get(ctx context.Context, key, reference string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, redis.Nil):
		return nil, apperrors.NewDocumentNotFoundError(reference, err)
	default:
		return nil, apperrors.NewDocumentFetchError(reference, err)
	}
}
