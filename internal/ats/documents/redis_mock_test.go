package documents

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ats-workers/internal/common/errors"
)

func TestRedisSource_KeysAndErrorMapping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	src := NewRedisSource(db, "jd:", "resume:")
	ctx := context.Background()

	mock.ExpectGet("jd:JOB-1").SetVal("%PDF-1.4 job")
	mock.ExpectGet(`resume:inbox/jane.pdf`).RedisNil()
	mock.ExpectGet("jd:JOB-2").SetErr(errors.New("LOADING Redis is loading the dataset in memory"))

	data, err := src.FetchJobDescription(ctx, "JOB-1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 job", string(data))

	_, err = src.FetchResume(ctx, `inbox\jane.pdf`)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = src.FetchJobDescription(ctx, "JOB-2")
	require.Error(t, err)
	stdErr := apperrors.AsStandardError(err)
	assert.Equal(t, apperrors.ErrCodeDocumentFetchFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSource_UnsafeReferenceNeverQueries(t *testing.T) {
	db, mock := redismock.NewClientMock()
	src := NewRedisSource(db, "jd:", "resume:")

	_, err := src.FetchResume(context.Background(), "../secrets")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = src.FetchJobDescription(context.Background(), "a/b")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	assert.NoError(t, mock.ExpectationsWereMet())
}
