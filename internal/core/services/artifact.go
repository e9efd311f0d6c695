package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"wine-tier-service/internal/core/domain"
	"wine-tier-service/internal/core/ports/output"
	"wine-tier-service/internal/metrics"
)

// ArtifactService loads the model artifact once and hands out the same instance
// for the lifetime of the process.
type ArtifactService struct {
	source  ports.ArtifactSource
	decoder ports.ArtifactDecoder
	metrics *metrics.Metrics

	once     sync.Once
	artifact *domain.ModelArtifact
	err      error
}

func NewArtifactService(source ports.ArtifactSource, decoder ports.ArtifactDecoder, m *metrics.Metrics) *ArtifactService {
	return &ArtifactService{source: source, decoder: decoder, metrics: m}
}

// Load returns the memoized artifact. The first call reads and decodes the
// bundle; a failure is memoized as well and never retried.
func (s *ArtifactService) Load(ctx context.Context) (*domain.ModelArtifact, error) {
	s.once.Do(func() {
		s.artifact, s.err = s.load(ctx)
	})
	return s.artifact, s.err
}

func (s *ArtifactService) load(ctx context.Context) (*domain.ModelArtifact, error) {
	start := time.Now()

	rc, err := s.source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", s.source.Location(), err)
	}
	defer rc.Close()

	artifact, err := s.decoder.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", s.source.Location(), err)
	}
	if len(artifact.UIFeatures) == 0 {
		return nil, fmt.Errorf("%w: ui_features is empty", domain.ErrInvalidArtifact)
	}
	if artifact.Model == nil {
		return nil, fmt.Errorf("%w: model is missing", domain.ErrInvalidArtifact)
	}
	if artifact.ClassNames == nil {
		artifact.ClassNames = domain.DefaultClassNames()
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.ArtifactLoadDuration.Set(elapsed.Seconds())
		s.metrics.ArtifactFeatures.Set(float64(len(artifact.UIFeatures)))
	}

	log.WithFields(log.Fields{
		"source":     s.source.Location(),
		"features":   len(artifact.UIFeatures),
		"classes":    len(artifact.ClassNames),
		"price_bins": len(artifact.PriceBins),
		"latency_ms": elapsed.Milliseconds(),
	}).Info("model artifact loaded")

	return artifact, nil
}
