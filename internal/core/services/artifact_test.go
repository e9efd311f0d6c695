package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wine-tier-service/internal/core/domain"
	"wine-tier-service/internal/metrics"
	"wine-tier-service/internal/testutil"
)

func TestArtifactService_Load_Memoized(t *testing.T) {
	source := new(testutil.MockArtifactSource)
	decoder := new(testutil.MockArtifactDecoder)
	svc := NewArtifactService(source, decoder, metrics.NewWithRegistry(prometheus.NewRegistry()))

	artifact := &domain.ModelArtifact{Model: &testutil.StubClassifier{}, UIFeatures: testutil.UIFeatures}
	source.On("Open", mock.Anything).Return(io.NopCloser(strings.NewReader("{}")), nil).Once()
	decoder.On("Decode", mock.Anything).Return(artifact, nil).Once()

	var wg sync.WaitGroup
	results := make([]*domain.ModelArtifact, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := svc.Load(context.Background())
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Same(t, artifact, got)
	}
	// Missing class names fall back to the quartile labels.
	assert.Equal(t, domain.DefaultClassNames(), artifact.ClassNames)
	source.AssertNumberOfCalls(t, "Open", 1)
	decoder.AssertNumberOfCalls(t, "Decode", 1)
}

func TestArtifactService_Load_KeepsClassNames(t *testing.T) {
	source := new(testutil.MockArtifactSource)
	decoder := new(testutil.MockArtifactDecoder)
	svc := NewArtifactService(source, decoder, nil)

	names := map[int]string{0: "cheap", 1: "pricey"}
	artifact := &domain.ModelArtifact{Model: &testutil.StubClassifier{}, UIFeatures: []string{"volume"}, ClassNames: names}
	source.On("Open", mock.Anything).Return(io.NopCloser(strings.NewReader("{}")), nil)
	decoder.On("Decode", mock.Anything).Return(artifact, nil)

	got, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, names, got.ClassNames)
}

func TestArtifactService_Load_MissingFile(t *testing.T) {
	source := new(testutil.MockArtifactSource)
	decoder := new(testutil.MockArtifactDecoder)
	svc := NewArtifactService(source, decoder, nil)

	source.On("Open", mock.Anything).Return(nil, domain.ErrArtifactNotFound).Once()

	_, err := svc.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

	// The failure is memoized, storage is not read again.
	_, err = svc.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	source.AssertNumberOfCalls(t, "Open", 1)
	decoder.AssertNotCalled(t, "Decode", mock.Anything)
}

func TestArtifactService_Load_Corrupt(t *testing.T) {
	source := new(testutil.MockArtifactSource)
	decoder := new(testutil.MockArtifactDecoder)
	svc := NewArtifactService(source, decoder, nil)

	source.On("Open", mock.Anything).Return(io.NopCloser(strings.NewReader("garbage")), nil)
	decoder.On("Decode", mock.Anything).Return(nil, errors.Join(domain.ErrInvalidArtifact, errors.New("unexpected EOF")))

	_, err := svc.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidArtifact)
}

func TestArtifactService_Load_EmptyFeatures(t *testing.T) {
	source := new(testutil.MockArtifactSource)
	decoder := new(testutil.MockArtifactDecoder)
	svc := NewArtifactService(source, decoder, nil)

	source.On("Open", mock.Anything).Return(io.NopCloser(strings.NewReader("{}")), nil)
	decoder.On("Decode", mock.Anything).Return(&domain.ModelArtifact{Model: &testutil.StubClassifier{}}, nil)

	_, err := svc.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidArtifact)
}
