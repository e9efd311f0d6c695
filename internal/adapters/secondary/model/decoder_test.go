package model

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wine-tier-service/internal/core/domain"
)

func loadFixture(t *testing.T) *domain.ModelArtifact {
	t.Helper()
	f, err := os.Open("testdata/price_tier_model.json")
	require.NoError(t, err)
	defer f.Close()

	artifact, err := NewDecoder().Decode(f)
	require.NoError(t, err)
	return artifact
}

func TestDecode_Fixture(t *testing.T) {
	artifact := loadFixture(t)

	assert.Equal(t, []string{
		"country", "categoryLevel1", "categoryLevel2",
		"alcoholPercentage", "volume", "vintage", "isOrganic",
	}, artifact.UIFeatures)
	assert.Equal(t, domain.DefaultClassNames(), artifact.ClassNames)
	require.Len(t, artifact.PriceBins, 4)
	assert.Equal(t, domain.PriceBin{Low: 150, High: 300}, artifact.PriceBins[2])
	assert.IsType(t, &Pipeline{}, artifact.Model)
}

func TestDecode_OptionalFieldsAbsent(t *testing.T) {
	doc := `{
		"ui_features": ["alcoholPercentage", "volume"],
		"model": {
			"type": "gbtree", "features": ["alcoholPercentage", "volume"],
			"num_class": 2, "base_score": 0,
			"trees": [{"class": 1, "nodes": [
				{"split": 0, "threshold": 12, "yes": 1, "no": 2, "missing": 1},
				{"leaf": 0}, {"leaf": 1}
			]}]
		}
	}`

	artifact, err := NewDecoder().Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Nil(t, artifact.ClassNames)
	assert.Nil(t, artifact.PriceBins)
	assert.IsType(t, &Ensemble{}, artifact.Model)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"corrupt json", `{"ui_features": [`, domain.ErrInvalidArtifact},
		{"empty features", `{"ui_features": [], "model": {"type": "gbtree"}}`, domain.ErrInvalidArtifact},
		{"missing model", `{"ui_features": ["a"]}`, domain.ErrInvalidArtifact},
		{"unknown model type", `{"ui_features": ["a"], "model": {"type": "svm"}}`, domain.ErrUnsupportedModel},
		{
			"bad class name key",
			`{"ui_features": ["a"], "class_names": {"x": "Q1"}, "model": {"type": "gbtree", "features": ["a"], "num_class": 2,
				"trees": [{"class": 0, "nodes": [{"leaf": 1}]}]}}`,
			domain.ErrInvalidArtifact,
		},
		{
			"bad price bin",
			`{"ui_features": ["a"], "price_bins": [[1, 2, 3]], "model": {"type": "gbtree", "features": ["a"], "num_class": 2,
				"trees": [{"class": 0, "nodes": [{"leaf": 1}]}]}}`,
			domain.ErrInvalidArtifact,
		},
		{
			"split out of range",
			`{"ui_features": ["a"], "model": {"type": "gbtree", "features": ["a"], "num_class": 2,
				"trees": [{"class": 0, "nodes": [{"split": 3, "threshold": 1, "yes": 1, "no": 2, "missing": 1}, {"leaf": 0}, {"leaf": 1}]}]}}`,
			domain.ErrInvalidArtifact,
		},
		{
			"child cycle",
			`{"ui_features": ["a"], "model": {"type": "gbtree", "features": ["a"], "num_class": 2,
				"trees": [{"class": 0, "nodes": [{"split": 0, "threshold": 1, "yes": 0, "no": 1, "missing": 1}, {"leaf": 1}]}]}}`,
			domain.ErrInvalidArtifact,
		},
		{
			"tree class out of range",
			`{"ui_features": ["a"], "model": {"type": "gbtree", "features": ["a"], "num_class": 2,
				"trees": [{"class": 5, "nodes": [{"leaf": 1}]}]}}`,
			domain.ErrInvalidArtifact,
		},
		{
			"pipeline without estimator",
			`{"ui_features": ["a"], "model": {"type": "pipeline",
				"preprocess": {"transformers": [{"name": "num", "kind": "numeric", "columns": ["a"]}]}}}`,
			domain.ErrInvalidArtifact,
		},
		{
			"ensemble column outside ui_features",
			`{"ui_features": ["a"], "model": {"type": "gbtree", "features": ["a", "b"], "num_class": 2,
				"trees": [{"class": 0, "nodes": [{"leaf": 1}]}]}}`,
			domain.ErrInvalidArtifact,
		},
		{
			"pipeline column outside ui_features",
			`{"ui_features": ["a"], "model": {"type": "pipeline",
				"preprocess": {"transformers": [
					{"name": "num", "kind": "numeric", "columns": ["a"]},
					{"name": "cat", "kind": "onehot", "columns": ["region"], "categories": [["north", "south"]]}
				]},
				"estimator": {"type": "gbtree", "num_class": 2, "trees": [{"class": 0, "nodes": [{"leaf": 1}]}]}}}`,
			domain.ErrInvalidArtifact,
		},
		{
			"unknown transformer kind",
			`{"ui_features": ["a"], "model": {"type": "pipeline",
				"preprocess": {"transformers": [{"name": "x", "kind": "scaler", "columns": ["a"]}]},
				"estimator": {"type": "gbtree", "num_class": 2, "trees": [{"class": 0, "nodes": [{"leaf": 1}]}]}}}`,
			domain.ErrUnsupportedModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoder().Decode(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
