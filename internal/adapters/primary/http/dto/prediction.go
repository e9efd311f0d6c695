package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"wine-tier-service/internal/core/domain"
	"wine-tier-service/internal/core/services"
)

// ============================================================================
// Prediction DTOs
// ============================================================================

// PredictRequest uses the model's feature names as keys. Omitted fields take
// the form defaults.
type PredictRequest struct {
	Country           *string     `json:"country"`
	CategoryLevel1    *string     `json:"categoryLevel1"`
	CategoryLevel2    *string     `json:"categoryLevel2"`
	AlcoholPercentage *float64    `json:"alcoholPercentage" binding:"omitempty,gte=0,lte=100"`
	Volume            *int        `json:"volume" binding:"omitempty,gte=50,lte=3000"`
	Vintage           VintageText `json:"vintage"`
	IsOrganic         bool        `json:"isOrganic"`
}

// VintageText is free text; a JSON number is accepted as its decimal text.
type VintageText string

func (v *VintageText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = VintageText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = VintageText(n.String())
	return nil
}

// ToInput applies form defaults and parses the vintage text.
func (r PredictRequest) ToInput() domain.UserInputRow {
	input := domain.UserInputRow{
		Country:           stringOr(r.Country, domain.UnknownCategory),
		CategoryLevel1:    stringOr(r.CategoryLevel1, domain.UnknownCategory),
		CategoryLevel2:    stringOr(r.CategoryLevel2, domain.UnknownCategory),
		AlcoholPercentage: 13.0,
		Volume:            750,
		Vintage:           domain.ParseVintage(string(r.Vintage)),
		IsOrganic:         domain.OrganicFlag(r.IsOrganic),
	}
	if r.AlcoholPercentage != nil {
		input.AlcoholPercentage = *r.AlcoholPercentage
	}
	if r.Volume != nil {
		input.Volume = *r.Volume
	}
	return input
}

type PriceRangeResponse struct {
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
	Formatted string  `json:"formatted"`
}

type PredictResponse struct {
	ClassIndex   int                 `json:"class_index"`
	Label        string              `json:"label"`
	PriceRange   *PriceRangeResponse `json:"price_range,omitempty"`
	Message      string              `json:"message"`
	RangeMessage string              `json:"range_message,omitempty"`
}

func ToPriceRangeResponse(r *domain.PriceRange, currency string) *PriceRangeResponse {
	if r == nil {
		return nil
	}
	return &PriceRangeResponse{Low: r.Low, High: r.High, Formatted: r.Format(currency)}
}

func ToPredictResponse(result domain.PredictionResult, currency string) PredictResponse {
	resp := PredictResponse{
		ClassIndex: result.ClassIndex,
		Label:      result.Label,
		PriceRange: ToPriceRangeResponse(result.Range, currency),
		Message:    SuccessMessage(result),
	}
	resp.RangeMessage = RangeMessage(result, currency)
	return resp
}

// SuccessMessage is the headline shown after a prediction.
func SuccessMessage(result domain.PredictionResult) string {
	return "Predicted tier: " + result.Label
}

// RangeMessage is the informational line for the price range, empty when the
// prediction has none.
func RangeMessage(result domain.PredictionResult, currency string) string {
	if result.Range == nil {
		return ""
	}
	return "Estimated price range: " + result.Range.Format(currency) + " (within mainstream filtered products)"
}

// ============================================================================
// Batch DTOs
// ============================================================================

type BatchItemResponse struct {
	Row        int                 `json:"row"`
	ClassIndex *int                `json:"class_index,omitempty"`
	Label      string              `json:"label,omitempty"`
	PriceRange *PriceRangeResponse `json:"price_range,omitempty"`
	Error      string              `json:"error,omitempty"`
}

type BatchResponse struct {
	Items  []BatchItemResponse `json:"items"`
	Total  int                 `json:"total"`
	Failed int                 `json:"failed"`
}

func ToBatchResponse(items []services.BatchItem, currency string) BatchResponse {
	resp := BatchResponse{Items: make([]BatchItemResponse, 0, len(items)), Total: len(items)}
	for _, it := range items {
		out := BatchItemResponse{Row: it.Row}
		if it.Err != nil {
			out.Error = it.Err.Error()
			resp.Failed++
		} else {
			idx := it.Result.ClassIndex
			out.ClassIndex = &idx
			out.Label = it.Result.Label
			out.PriceRange = ToPriceRangeResponse(it.Result.Range, currency)
		}
		resp.Items = append(resp.Items, out)
	}
	return resp
}

// ============================================================================
// History DTOs
// ============================================================================

type PredictionRecordResponse struct {
	ID                uuid.UUID `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	RequestID         string    `json:"request_id,omitempty"`
	Country           string    `json:"country"`
	CategoryLevel1    string    `json:"category_level1"`
	CategoryLevel2    string    `json:"category_level2"`
	AlcoholPercentage float64   `json:"alcohol_percentage"`
	Volume            int       `json:"volume"`
	Vintage           *int      `json:"vintage"`
	IsOrganic         bool      `json:"is_organic"`
	ClassIndex        int       `json:"class_index"`
	Label             string    `json:"label"`
	RangeLow          *float64  `json:"range_low,omitempty"`
	RangeHigh         *float64  `json:"range_high,omitempty"`
}

type ListPredictionsResponse struct {
	Items      []PredictionRecordResponse `json:"items"`
	Total      int                        `json:"total"`
	PageSize   int                        `json:"page_size"`
	NextOffset int                        `json:"next_offset"`
}

func ToPredictionRecordResponse(rec *domain.PredictionRecord) PredictionRecordResponse {
	return PredictionRecordResponse{
		ID:                rec.ID,
		CreatedAt:         rec.CreatedAt,
		RequestID:         rec.RequestID,
		Country:           rec.Input.Country,
		CategoryLevel1:    rec.Input.CategoryLevel1,
		CategoryLevel2:    rec.Input.CategoryLevel2,
		AlcoholPercentage: rec.Input.AlcoholPercentage,
		Volume:            rec.Input.Volume,
		Vintage:           rec.Input.Vintage,
		IsOrganic:         rec.Input.IsOrganic == 1,
		ClassIndex:        rec.ClassIndex,
		Label:             rec.Label,
		RangeLow:          rec.RangeLow,
		RangeHigh:         rec.RangeHigh,
	}
}

func stringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

// FormatAlcohol renders the alcohol percentage with one decimal.
func FormatAlcohol(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
