package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PriceRange is the estimated price interval for a tier.
type PriceRange struct {
	Low  float64
	High float64
}

// Format renders the bounds rounded to whole units, e.g. "150 – 300 SEK".
func (r PriceRange) Format(currency string) string {
	s := fmt.Sprintf("%.0f – %.0f", r.Low, r.High)
	if currency != "" {
		s += " " + currency
	}
	return s
}

// PredictionResult is the resolved output for one input row.
type PredictionResult struct {
	ClassIndex int
	Label      string
	Range      *PriceRange
}

// PredictionRecord is a stored prediction.
type PredictionRecord struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	RequestID  string
	Input      UserInputRow
	ClassIndex int
	Label      string
	RangeLow   *float64
	RangeHigh  *float64
}

// NewPredictionRecord builds a history entry for a successful prediction.
func NewPredictionRecord(requestID string, input UserInputRow, result PredictionResult) *PredictionRecord {
	rec := &PredictionRecord{
		ID:         uuid.New(),
		CreatedAt:  time.Now(),
		RequestID:  requestID,
		Input:      input,
		ClassIndex: result.ClassIndex,
		Label:      result.Label,
	}
	if result.Range != nil {
		lo, hi := result.Range.Low, result.Range.High
		rec.RangeLow = &lo
		rec.RangeHigh = &hi
	}
	return rec
}
