package boltstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wine-tier-service/internal/core/domain"
	output "wine-tier-service/internal/core/ports/output"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newRecord(label string, at time.Time) *domain.PredictionRecord {
	vintage := 2015
	rec := domain.NewPredictionRecord("req-"+label, domain.UserInputRow{
		Country:           "Italy",
		CategoryLevel1:    "Rött vin",
		CategoryLevel2:    "Toscana",
		AlcoholPercentage: 14,
		Volume:            750,
		Vintage:           &vintage,
		IsOrganic:         1,
	}, domain.PredictionResult{ClassIndex: 2, Label: label, Range: &domain.PriceRange{Low: 150, High: 300}})
	rec.CreatedAt = at
	return rec
}

func TestStore_CreateAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	rec := newRecord("Q3", time.Now().UTC())
	require.NoError(t, s.Create(ctx, rec))

	got, err := s.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "Q3", got.Label)
	assert.Equal(t, "Toscana", got.Input.CategoryLevel2)
	require.NotNil(t, got.Input.Vintage)
	assert.Equal(t, 2015, *got.Input.Vintage)
	require.NotNil(t, got.RangeHigh)
	assert.Equal(t, 300.0, *got.RangeHigh)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))

	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestStore_List(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	labels := []string{"Q1", "Q2", "Q1", "Q4", "Q1"}
	for i, l := range labels {
		require.NoError(t, s.Create(ctx, newRecord(l, base.Add(time.Duration(i)*time.Minute))))
	}

	// Newest first by default.
	recs, total, err := s.List(ctx, output.PredictionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, recs, 2)
	assert.Equal(t, "Q1", recs[0].Label)
	assert.Equal(t, "Q4", recs[1].Label)

	recs, total, err = s.List(ctx, output.PredictionFilter{Label: "Q1", Order: "asc", Limit: 10, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].CreatedAt.Before(recs[1].CreatedAt))

	since := base.Add(3 * time.Minute)
	for _, order := range []string{"asc", "desc"} {
		recs, total, err = s.List(ctx, output.PredictionFilter{Since: &since, Order: order, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, total, order)
		assert.Len(t, recs, 2, order)
	}
}

func TestStore_ContextCanceled(t *testing.T) {
	s := openStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Create(ctx, newRecord("Q1", time.Now())), context.Canceled)
}
