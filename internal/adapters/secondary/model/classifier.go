package model

import (
	"fmt"

	"wine-tier-service/internal/core/domain"
)

// Pipeline is a fitted preprocessing stage followed by a tree ensemble.
type Pipeline struct {
	preprocess *columnTransformer
	estimator  *TreeEnsemble
	width      int
}

// Predict encodes the row and returns the predicted class index.
func (p *Pipeline) Predict(row domain.FeatureRow) (int, error) {
	x, err := p.preprocess.transform(row, p.width)
	if err != nil {
		return 0, err
	}
	return p.estimator.predict(x), nil
}

// Categories reports the vocabulary of every one-hot encoded column.
func (p *Pipeline) Categories() (map[string][]string, error) {
	out := make(map[string][]string)
	for _, t := range p.preprocess.Transformers {
		if t.Kind != kindOneHot {
			continue
		}
		for i, col := range t.Columns {
			out[col] = append([]string(nil), t.Categories[i]...)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: pipeline has no one-hot encoder", domain.ErrCategoriesUnavailable)
	}
	return out, nil
}

// Ensemble is a bare tree ensemble over already-numeric columns. It carries no
// category vocabulary.
type Ensemble struct {
	features  []string
	estimator *TreeEnsemble
}

func (e *Ensemble) Predict(row domain.FeatureRow) (int, error) {
	x := make([]float64, len(e.features))
	for i, col := range e.features {
		v, ok := row.Get(col)
		if !ok {
			return 0, fmt.Errorf("%w: column %q is missing", domain.ErrFeatureMismatch, col)
		}
		f, err := toFloat(v)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", col, err)
		}
		x[i] = f
	}
	return e.estimator.predict(x), nil
}
