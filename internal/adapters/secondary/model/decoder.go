// Package model decodes JSON model artifacts and evaluates the fitted
// preprocessing pipeline and gradient-boosted trees they describe.
package model

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"wine-tier-service/internal/core/domain"
)

const (
	typePipeline = "pipeline"
	typeGBTree   = "gbtree"
)

type artifactDoc struct {
	UIFeatures []string          `json:"ui_features"`
	ClassNames map[string]string `json:"class_names,omitempty"`
	PriceBins  [][]float64       `json:"price_bins,omitempty"`
	Model      json.RawMessage   `json:"model"`
}

type modelDoc struct {
	Type       string             `json:"type"`
	Preprocess *columnTransformer `json:"preprocess,omitempty"`
	Estimator  *estimatorDoc      `json:"estimator,omitempty"`

	// Bare gbtree models.
	Features []string `json:"features,omitempty"`
	TreeEnsemble
}

type estimatorDoc struct {
	Type string `json:"type"`
	TreeEnsemble
}

// Decoder reads JSON artifact bundles.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses and validates a bundle.
func (d *Decoder) Decode(r io.Reader) (*domain.ModelArtifact, error) {
	var doc artifactDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}
	if len(doc.UIFeatures) == 0 {
		return nil, fmt.Errorf("%w: ui_features is empty", domain.ErrInvalidArtifact)
	}
	if len(doc.Model) == 0 {
		return nil, fmt.Errorf("%w: model is missing", domain.ErrInvalidArtifact)
	}

	classifier, err := decodeModel(doc.Model)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(classifier, doc.UIFeatures); err != nil {
		return nil, err
	}

	classNames, err := decodeClassNames(doc.ClassNames)
	if err != nil {
		return nil, err
	}

	priceBins, err := decodePriceBins(doc.PriceBins)
	if err != nil {
		return nil, err
	}

	return &domain.ModelArtifact{
		Model:      classifier,
		UIFeatures: doc.UIFeatures,
		ClassNames: classNames,
		PriceBins:  priceBins,
	}, nil
}

func decodeModel(raw json.RawMessage) (domain.Classifier, error) {
	var md modelDoc
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil, fmt.Errorf("%w: model: %v", domain.ErrInvalidArtifact, err)
	}

	switch md.Type {
	case typePipeline:
		if md.Preprocess == nil || md.Estimator == nil {
			return nil, fmt.Errorf("%w: pipeline needs preprocess and estimator", domain.ErrInvalidArtifact)
		}
		if md.Estimator.Type != typeGBTree {
			return nil, fmt.Errorf("%w: estimator %q", domain.ErrUnsupportedModel, md.Estimator.Type)
		}
		width, err := md.Preprocess.init()
		if err != nil {
			return nil, err
		}
		est := md.Estimator.TreeEnsemble
		if err := est.validate(width); err != nil {
			return nil, err
		}
		return &Pipeline{preprocess: md.Preprocess, estimator: &est, width: width}, nil

	case typeGBTree:
		if len(md.Features) == 0 {
			return nil, fmt.Errorf("%w: gbtree needs features", domain.ErrInvalidArtifact)
		}
		est := md.TreeEnsemble
		if err := est.validate(len(md.Features)); err != nil {
			return nil, err
		}
		return &Ensemble{features: md.Features, estimator: &est}, nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedModel, md.Type)
	}
}

// checkColumns rejects a model that reads a column the row builder never
// provides, since every prediction would fail.
func checkColumns(classifier domain.Classifier, uiFeatures []string) error {
	known := make(map[string]struct{}, len(uiFeatures))
	for _, f := range uiFeatures {
		known[f] = struct{}{}
	}

	var columns []string
	switch m := classifier.(type) {
	case *Pipeline:
		for _, t := range m.preprocess.Transformers {
			columns = append(columns, t.Columns...)
		}
	case *Ensemble:
		columns = m.features
	}

	for _, col := range columns {
		if _, ok := known[col]; !ok {
			return fmt.Errorf("%w: model reads column %q which is not in ui_features", domain.ErrInvalidArtifact, col)
		}
	}
	return nil
}

// decodeClassNames returns nil when the bundle has no mapping, leaving the
// default to the loader.
func decodeClassNames(raw map[string]string) (map[int]string, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(map[int]string, len(raw))
	for k, v := range raw {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%w: class_names key %q is not an integer", domain.ErrInvalidArtifact, k)
		}
		out[idx] = v
	}
	return out, nil
}

func decodePriceBins(raw [][]float64) ([]domain.PriceBin, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]domain.PriceBin, 0, len(raw))
	for i, pair := range raw {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: price_bins[%d] must have 2 bounds, got %d", domain.ErrInvalidArtifact, i, len(pair))
		}
		out = append(out, domain.PriceBin{Low: pair[0], High: pair[1]})
	}
	return out, nil
}
