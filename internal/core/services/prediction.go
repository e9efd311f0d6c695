package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"

	"wine-tier-service/internal/core/domain"
	"wine-tier-service/internal/core/ports/output"
	"wine-tier-service/internal/metrics"
)

// PredictionService turns form input into a price tier prediction.
type PredictionService struct {
	artifact    *domain.ModelArtifact
	historyRepo ports.PredictionRepository
	cache       *lru.Cache[string, domain.PredictionResult]
	metrics     *metrics.Metrics
}

// NewPredictionService creates the service. historyRepo may be nil when history
// is disabled; cacheSize <= 0 disables result caching.
func NewPredictionService(artifact *domain.ModelArtifact, historyRepo ports.PredictionRepository, cacheSize int, m *metrics.Metrics) (*PredictionService, error) {
	s := &PredictionService{
		artifact:    artifact,
		historyRepo: historyRepo,
		metrics:     m,
	}
	if cacheSize > 0 {
		cache, err := lru.New[string, domain.PredictionResult](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create prediction cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// BuildFeatureRow aligns the input to the artifact's feature order. Features
// the input does not provide are null.
func (s *PredictionService) BuildFeatureRow(input domain.UserInputRow) domain.FeatureRow {
	return domain.NewFeatureRow(s.artifact.UIFeatures, input.Values())
}

// Predict runs the classifier on one input row and resolves its label and range.
func (s *PredictionService) Predict(ctx context.Context, input domain.UserInputRow) (domain.PredictionResult, error) {
	if err := input.Validate(); err != nil {
		return domain.PredictionResult{}, err
	}

	key := input.Key()
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if s.metrics != nil {
				s.metrics.CacheHits.Inc()
			}
			s.record(ctx, input, cached)
			return cached, nil
		}
	}

	start := time.Now()
	row := s.BuildFeatureRow(input)

	classIndex, err := s.artifact.Model.Predict(row)
	if s.metrics != nil {
		s.metrics.PredictionLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.PredictionFailures.Inc()
		}
		return domain.PredictionResult{}, fmt.Errorf("%w: %v", domain.ErrPredictionFailed, err)
	}

	result := domain.PredictionResult{
		ClassIndex: classIndex,
		Label:      s.artifact.Label(classIndex),
		Range:      s.artifact.Range(classIndex),
	}

	if s.metrics != nil {
		s.metrics.Predictions.WithLabelValues(result.Label).Inc()
	}
	if s.cache != nil {
		s.cache.Add(key, result)
	}

	log.WithFields(log.Fields{
		"class_index": classIndex,
		"label":       result.Label,
		"has_range":   result.Range != nil,
	}).Debug("prediction completed")

	s.record(ctx, input, result)
	return result, nil
}

// BatchRow is one row of an uploaded file. Err is set when the row could not
// be parsed into an input.
type BatchRow struct {
	Row   int
	Input domain.UserInputRow
	Err   error
}

// BatchItem is the outcome of one row of a batch.
type BatchItem struct {
	Row    int
	Input  domain.UserInputRow
	Result *domain.PredictionResult
	Err    error
}

// PredictBatch predicts every row independently. A failing row is reported in
// its item and does not stop the batch.
func (s *PredictionService) PredictBatch(ctx context.Context, rows []BatchRow) ([]BatchItem, error) {
	if len(rows) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if s.metrics != nil {
		s.metrics.BatchRows.Add(float64(len(rows)))
	}

	items := make([]BatchItem, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := BatchItem{Row: row.Row, Input: row.Input, Err: row.Err}
		if row.Err == nil {
			result, err := s.Predict(ctx, row.Input)
			if err != nil {
				item.Err = err
			} else {
				item.Result = &result
			}
		}
		items = append(items, item)
	}

	log.WithFields(log.Fields{
		"rows":   len(rows),
		"failed": countFailed(items),
	}).Info("batch prediction completed")

	return items, nil
}

func countFailed(items []BatchItem) int {
	n := 0
	for _, it := range items {
		if it.Err != nil {
			n++
		}
	}
	return n
}

// History lists stored predictions.
func (s *PredictionService) History(ctx context.Context, filter ports.PredictionFilter) ([]*domain.PredictionRecord, int, error) {
	if s.historyRepo == nil {
		return nil, 0, domain.ErrHistoryDisabled
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.historyRepo.List(ctx, filter)
}

// GetPrediction returns one stored prediction.
func (s *PredictionService) GetPrediction(ctx context.Context, id uuid.UUID) (*domain.PredictionRecord, error) {
	if s.historyRepo == nil {
		return nil, domain.ErrHistoryDisabled
	}
	return s.historyRepo.GetByID(ctx, id)
}

func (s *PredictionService) record(ctx context.Context, input domain.UserInputRow, result domain.PredictionResult) {
	if s.historyRepo == nil {
		return
	}
	rec := domain.NewPredictionRecord(requestIDFromContext(ctx), input, result)
	if err := s.historyRepo.Create(ctx, rec); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).WithField("record_id", rec.ID).Warn("save prediction history failed")
	}
}

type requestIDKey struct{}

// WithRequestID attaches a request id that is stored with history records.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
