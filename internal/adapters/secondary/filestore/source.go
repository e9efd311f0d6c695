package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"wine-tier-service/internal/core/domain"
	output "wine-tier-service/internal/core/ports/output"
)

type fileSource struct {
	path string
}

// NewArtifactSource reads the artifact bundle from a local path.
func NewArtifactSource(path string) output.ArtifactSource {
	return &fileSource{path: path}
}

func (s *fileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, s.path)
		}
		return nil, fmt.Errorf("open artifact file: %w", err)
	}
	return f, nil
}

func (s *fileSource) Location() string {
	return "file://" + s.path
}
