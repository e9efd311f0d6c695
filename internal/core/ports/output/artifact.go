package ports

import (
	"context"
	"io"

	"wine-tier-service/internal/core/domain"
)

// ArtifactSource defines where the serialized artifact bundle is read from
type ArtifactSource interface {
	// Open returns a reader over the bundle. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)

	// Location describes the source for logs
	Location() string
}

// ArtifactDecoder turns a serialized bundle into a loaded artifact
type ArtifactDecoder interface {
	Decode(r io.Reader) (*domain.ModelArtifact, error)
}
