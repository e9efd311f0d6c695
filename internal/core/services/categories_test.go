package services

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	prom "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wine-tier-service/internal/core/domain"
	"wine-tier-service/internal/metrics"
	"wine-tier-service/internal/testutil"
)

func TestResolveCategories(t *testing.T) {
	model := &testutil.CategoryClassifier{Vocabulary: map[string][]string{
		"country":        {"France", "Italy"},
		"categoryLevel1": {"Rött vin"},
		"region":         {"Rioja"},
	}}

	cats, ok := ResolveCategories(model)
	require.True(t, ok)
	assert.Equal(t, []string{"France", "Italy"}, cats["country"])
	assert.Equal(t, []string{"Rött vin"}, cats["categoryLevel1"])
	assert.NotContains(t, cats, "categoryLevel2")
	assert.NotContains(t, cats, "region")
}

func TestResolveCategories_NotAvailable(t *testing.T) {
	tests := []struct {
		name  string
		model domain.Classifier
	}{
		{"no capability", &testutil.StubClassifier{}},
		{"introspection error", &testutil.CategoryClassifier{VocabErr: errors.New("no step named preprocess")}},
		{"introspection panic", &testutil.CategoryClassifier{Panic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				cats domain.FeatureCategories
				ok   bool
			)
			assert.NotPanics(t, func() { cats, ok = ResolveCategories(tt.model) })
			assert.False(t, ok)
			assert.Nil(t, cats)
		})
	}
}

func TestFormService_Schema_Choices(t *testing.T) {
	model := &testutil.CategoryClassifier{Vocabulary: map[string][]string{
		"country":        {"France", "Italy"},
		"categoryLevel1": {"Rött vin", "Vitt vin"},
		"categoryLevel2": {"Bordeaux"},
	}}
	svc := NewFormService(testutil.NewArtifact(model, nil), nil)

	schema := svc.Schema()
	assert.True(t, schema.CategoriesAvailable)
	require.Len(t, schema.Fields, 7)

	country, ok := schema.Field("country")
	require.True(t, ok)
	assert.Equal(t, domain.FieldKindChoice, country.Kind)
	assert.Equal(t, []string{"France", "Italy"}, country.Options)
	assert.Equal(t, "France", country.Default)
	assert.Equal(t, "Country", country.Label)

	alcohol, _ := schema.Field("alcoholPercentage")
	assert.Equal(t, domain.FieldKindNumber, alcohol.Kind)
	assert.Equal(t, 13.0, alcohol.Default)
	assert.Equal(t, 0.0, *alcohol.Min)
	assert.Equal(t, 100.0, *alcohol.Max)
	assert.Equal(t, 0.1, *alcohol.Step)

	volume, _ := schema.Field("volume")
	assert.Equal(t, domain.FieldKindInteger, volume.Kind)
	assert.Equal(t, 750, volume.Default)
	assert.Equal(t, 50.0, *volume.Min)
	assert.Equal(t, 3000.0, *volume.Max)

	vintage, _ := schema.Field("vintage")
	assert.True(t, vintage.Optional)
	assert.Equal(t, "", vintage.Default)

	organic, _ := schema.Field("isOrganic")
	assert.Equal(t, domain.FieldKindCheckbox, organic.Kind)
	assert.Equal(t, false, organic.Default)
}

func TestFormService_Schema_PartialVocabulary(t *testing.T) {
	model := &testutil.CategoryClassifier{Vocabulary: map[string][]string{"country": {"France"}}}
	schema := NewFormService(testutil.NewArtifact(model, nil), nil).Schema()

	country, _ := schema.Field("country")
	assert.Equal(t, domain.FieldKindChoice, country.Kind)

	for _, name := range []string{"categoryLevel1", "categoryLevel2"} {
		f, _ := schema.Field(name)
		assert.Equal(t, domain.FieldKindText, f.Kind, name)
		assert.Equal(t, "Unknown", f.Default, name)
	}
}

func TestFormService_Schema_IntrospectionFailure(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	model := &testutil.CategoryClassifier{VocabErr: errors.New("unexpected pipeline")}
	svc := NewFormService(testutil.NewArtifact(model, nil), m)

	schema := svc.Schema()
	assert.False(t, schema.CategoriesAvailable)
	for _, name := range domain.CategoricalFields {
		f, ok := schema.Field(name)
		require.True(t, ok)
		assert.Equal(t, domain.FieldKindText, f.Kind, name)
		assert.Equal(t, "Unknown", f.Default, name)
		assert.Empty(t, f.Options, name)
	}

	// Built once per process.
	svc.Schema()
	assert.Equal(t, 1.0, prom.ToFloat64(m.CategoryFallbacks))
}
