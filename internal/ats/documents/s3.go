package documents

import (
	"context"
	"errors"
	"io"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	apperrors "ats-workers/internal/common/errors"
)

// ObjectGetter is the part of *s3.Client used here.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads JDs from <jdPrefix><jobId>.pdf and resumes from
// <resumePrefix><reference> in one bucket.
type S3Source struct {
	client       ObjectGetter
	bucket       string
	jdPrefix     string
	resumePrefix string
}

func NewS3Source(client ObjectGetter, bucket, jdPrefix, resumePrefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, jdPrefix: jdPrefix, resumePrefix: resumePrefix}
}

func (s *S3Source) FetchJobDescription(ctx context.Context, jobID string) ([]byte, error) {
	name, err := jdName(jobID)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, s.jdPrefix+name, jobID)
}

func (s *S3Source) FetchResume(ctx context.Context, reference string) ([]byte, error) {
	ref, err := cleanReference(reference)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, s.resumePrefix+ref, reference)
}

func (s *S3Source) get(ctx context.Context, key, reference string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awssdk.String(s.bucket),
		Key:    awssdk.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noKey) || errors.As(err, &notFound) {
			return nil, apperrors.NewDocumentNotFoundError(reference, err)
		}
		return nil, apperrors.NewDocumentFetchError(reference, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, apperrors.NewDocumentFetchError(reference, err)
	}
	return data, nil
}
