package dto

import "wine-tier-service/internal/core/domain"

// ============================================================================
// Form & Model DTOs
// ============================================================================

type FormFieldResponse struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Options  []string `json:"options,omitempty"`
	Default  any      `json:"default"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Step     *float64 `json:"step,omitempty"`
	Optional bool     `json:"optional"`
}

type FormSchemaResponse struct {
	Fields              []FormFieldResponse `json:"fields"`
	CategoriesAvailable bool                `json:"categories_available"`
}

func ToFormSchemaResponse(s domain.FormSchema) FormSchemaResponse {
	resp := FormSchemaResponse{
		Fields:              make([]FormFieldResponse, 0, len(s.Fields)),
		CategoriesAvailable: s.CategoriesAvailable,
	}
	for _, f := range s.Fields {
		resp.Fields = append(resp.Fields, FormFieldResponse{
			Name:     f.Name,
			Label:    f.Label,
			Kind:     string(f.Kind),
			Options:  f.Options,
			Default:  f.Default,
			Min:      f.Min,
			Max:      f.Max,
			Step:     f.Step,
			Optional: f.Optional,
		})
	}
	return resp
}

type ModelClassResponse struct {
	Index      int                 `json:"index"`
	Label      string              `json:"label"`
	PriceRange *PriceRangeResponse `json:"price_range,omitempty"`
}

type ModelSummaryResponse struct {
	Features            []string             `json:"features"`
	Classes             []ModelClassResponse `json:"classes"`
	HasPriceBins        bool                 `json:"has_price_bins"`
	CategoriesAvailable bool                 `json:"categories_available"`
}

func ToModelSummaryResponse(a *domain.ModelArtifact, categoriesAvailable bool, currency string) ModelSummaryResponse {
	resp := ModelSummaryResponse{
		Features:            a.UIFeatures,
		Classes:             make([]ModelClassResponse, 0, len(a.ClassNames)),
		HasPriceBins:        a.PriceBins != nil,
		CategoriesAvailable: categoriesAvailable,
	}
	for _, idx := range a.ClassIndices() {
		resp.Classes = append(resp.Classes, ModelClassResponse{
			Index:      idx,
			Label:      a.Label(idx),
			PriceRange: ToPriceRangeResponse(a.Range(idx), currency),
		})
	}
	return resp
}
