package model

import (
	"fmt"
	"math"
	"strconv"

	"wine-tier-service/internal/core/domain"
)

const (
	kindNumeric = "numeric"
	kindOneHot  = "onehot"

	defaultCategoricalFill = "missing"
)

// transformer is one fitted stage of the column transformer.
type transformer struct {
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	Columns    []string   `json:"columns"`
	FillValues []*float64 `json:"fill_values,omitempty"`
	Categories [][]string `json:"categories,omitempty"`
	FillValue  string     `json:"fill_value,omitempty"`

	index []map[string]int
}

func (t *transformer) init() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: transformer %q has no columns", domain.ErrInvalidArtifact, t.Name)
	}
	switch t.Kind {
	case kindNumeric:
		if t.FillValues != nil && len(t.FillValues) != len(t.Columns) {
			return fmt.Errorf("%w: transformer %q has %d fill values for %d columns", domain.ErrInvalidArtifact, t.Name, len(t.FillValues), len(t.Columns))
		}
	case kindOneHot:
		if len(t.Categories) != len(t.Columns) {
			return fmt.Errorf("%w: transformer %q has %d category lists for %d columns", domain.ErrInvalidArtifact, t.Name, len(t.Categories), len(t.Columns))
		}
		if t.FillValue == "" {
			t.FillValue = defaultCategoricalFill
		}
		t.index = make([]map[string]int, len(t.Categories))
		for i, cats := range t.Categories {
			t.index[i] = make(map[string]int, len(cats))
			for j, c := range cats {
				t.index[i][c] = j
			}
		}
	default:
		return fmt.Errorf("%w: transformer %q has unknown kind %q", domain.ErrUnsupportedModel, t.Name, t.Kind)
	}
	return nil
}

func (t *transformer) width() int {
	if t.Kind == kindNumeric {
		return len(t.Columns)
	}
	w := 0
	for _, cats := range t.Categories {
		w += len(cats)
	}
	return w
}

func (t *transformer) transform(row domain.FeatureRow, out []float64) ([]float64, error) {
	for i, col := range t.Columns {
		v, ok := row.Get(col)
		if !ok {
			return nil, fmt.Errorf("%w: column %q is missing", domain.ErrFeatureMismatch, col)
		}

		if t.Kind == kindNumeric {
			x, err := toFloat(v)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col, err)
			}
			if math.IsNaN(x) && t.FillValues != nil && t.FillValues[i] != nil {
				x = *t.FillValues[i]
			}
			out = append(out, x)
			continue
		}

		s := t.FillValue
		if v != nil {
			s = toCategory(v)
		}
		block := make([]float64, len(t.Categories[i]))
		// Values outside the vocabulary encode as all zeros.
		if j, known := t.index[i][s]; known {
			block[j] = 1
		}
		out = append(out, block...)
	}
	return out, nil
}

// columnTransformer concatenates the output of its transformers in order.
type columnTransformer struct {
	Transformers []*transformer `json:"transformers"`
}

func (c *columnTransformer) init() (int, error) {
	if len(c.Transformers) == 0 {
		return 0, fmt.Errorf("%w: preprocess has no transformers", domain.ErrInvalidArtifact)
	}
	width := 0
	for _, t := range c.Transformers {
		if err := t.init(); err != nil {
			return 0, err
		}
		width += t.width()
	}
	return width, nil
}

func (c *columnTransformer) transform(row domain.FeatureRow, width int) ([]float64, error) {
	out := make([]float64, 0, width)
	for _, t := range c.Transformers {
		var err error
		out, err = t.transform(row, out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// toFloat converts a numeric cell. Null becomes NaN.
func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not numeric", domain.ErrFeatureMismatch, x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: unsupported value type %T", domain.ErrFeatureMismatch, v)
	}
}

func toCategory(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
