package services

import (
	"sync"

	"wine-tier-service/internal/core/domain"
	"wine-tier-service/internal/metrics"
)

var fieldLabels = map[string]string{
	domain.FieldCountry:           "Country",
	domain.FieldCategoryLevel1:    "Category Level 1",
	domain.FieldCategoryLevel2:    "Category Level 2",
	domain.FieldAlcoholPercentage: "Alcohol Percentage",
	domain.FieldVolume:            "Volume (ml)",
	domain.FieldVintage:           "Vintage (year, optional)",
	domain.FieldIsOrganic:         "Organic",
}

// FormService builds the form schema from the loaded artifact.
type FormService struct {
	artifact *domain.ModelArtifact
	metrics  *metrics.Metrics

	once   sync.Once
	schema domain.FormSchema
}

func NewFormService(artifact *domain.ModelArtifact, m *metrics.Metrics) *FormService {
	return &FormService{artifact: artifact, metrics: m}
}

// Schema returns the form fields. Categorical fields are choices when the
// model's vocabulary is known and free text defaulted to "Unknown" otherwise.
// The artifact never changes, so the schema is built once.
func (s *FormService) Schema() domain.FormSchema {
	s.once.Do(func() {
		cats, ok := ResolveCategories(s.artifact.Model)
		if !ok && s.metrics != nil {
			s.metrics.CategoryFallbacks.Inc()
		}
		s.schema = BuildFormSchema(cats, ok)
	})
	return s.schema
}

// BuildFormSchema lays out the prediction form.
func BuildFormSchema(cats domain.FeatureCategories, categoriesOK bool) domain.FormSchema {
	schema := domain.FormSchema{CategoriesAvailable: categoriesOK}

	for _, name := range domain.CategoricalFields {
		field := domain.FormField{Name: name, Label: fieldLabels[name]}
		values, found := cats[name]
		if categoriesOK && found && len(values) > 0 {
			field.Kind = domain.FieldKindChoice
			field.Options = values
			field.Default = values[0]
		} else {
			field.Kind = domain.FieldKindText
			field.Default = domain.UnknownCategory
		}
		schema.Fields = append(schema.Fields, field)
	}

	schema.Fields = append(schema.Fields,
		domain.FormField{
			Name:    domain.FieldAlcoholPercentage,
			Label:   fieldLabels[domain.FieldAlcoholPercentage],
			Kind:    domain.FieldKindNumber,
			Default: 13.0,
			Min:     float64Ptr(domain.MinAlcoholPercentage),
			Max:     float64Ptr(domain.MaxAlcoholPercentage),
			Step:    float64Ptr(0.1),
		},
		domain.FormField{
			Name:    domain.FieldVolume,
			Label:   fieldLabels[domain.FieldVolume],
			Kind:    domain.FieldKindInteger,
			Default: 750,
			Min:     float64Ptr(domain.MinVolume),
			Max:     float64Ptr(domain.MaxVolume),
			Step:    float64Ptr(50),
		},
		domain.FormField{
			Name:     domain.FieldVintage,
			Label:    fieldLabels[domain.FieldVintage],
			Kind:     domain.FieldKindText,
			Default:  "",
			Optional: true,
		},
		domain.FormField{
			Name:    domain.FieldIsOrganic,
			Label:   fieldLabels[domain.FieldIsOrganic],
			Kind:    domain.FieldKindCheckbox,
			Default: false,
		},
	)

	return schema
}

func float64Ptr(v float64) *float64 {
	return &v
}
