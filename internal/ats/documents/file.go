package documents

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "ats-workers/internal/common/errors"
)

// FileSource reads JDs from <jdDir>/<jobId>.pdf and resumes from paths
// relative to resumeDir.
type FileSource struct {
	jdDir     string
	resumeDir string
}

func NewFileSource(jdDir, resumeDir string) *FileSource {
	return &FileSource{jdDir: jdDir, resumeDir: resumeDir}
}

func (s *FileSource) FetchJobDescription(_ context.Context, jobID string) ([]byte, error) {
	name, err := jdName(jobID)
	if err != nil {
		return nil, err
	}
	return readFile(filepath.Join(s.jdDir, name), jobID)
}

func (s *FileSource) FetchResume(_ context.Context, reference string) ([]byte, error) {
	rel, err := cleanReference(reference)
	if err != nil {
		return nil, err
	}
	return readFile(filepath.Join(s.resumeDir, filepath.FromSlash(rel)), reference)
}

func readFile(path, reference string) ([]byte, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, apperrors.NewDocumentNotFoundError(reference, err)
	default:
		return nil, apperrors.NewDocumentFetchError(reference, err)
	}
}
