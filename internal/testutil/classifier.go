package testutil

import (
	"sync"

	"wine-tier-service/internal/core/domain"
)

// StubClassifier returns a fixed class and remembers the rows it was given.
type StubClassifier struct {
	Class int
	Err   error

	mu   sync.Mutex
	Rows []domain.FeatureRow
}

func (s *StubClassifier) Predict(row domain.FeatureRow) (int, error) {
	s.mu.Lock()
	s.Rows = append(s.Rows, row)
	s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Class, nil
}

// Calls returns how many rows were predicted.
func (s *StubClassifier) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Rows)
}

// LastRow returns the most recent row.
func (s *StubClassifier) LastRow() domain.FeatureRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Rows[len(s.Rows)-1]
}

// CategoryClassifier is a StubClassifier that also reports vocabularies.
type CategoryClassifier struct {
	StubClassifier
	Vocabulary map[string][]string
	VocabErr   error
	Panic      bool
}

func (c *CategoryClassifier) Categories() (map[string][]string, error) {
	if c.Panic {
		panic("unexpected pipeline shape")
	}
	if c.VocabErr != nil {
		return nil, c.VocabErr
	}
	return c.Vocabulary, nil
}

// UIFeatures is the feature order used by the price tier model.
var UIFeatures = []string{
	domain.FieldCountry,
	domain.FieldCategoryLevel1,
	domain.FieldCategoryLevel2,
	domain.FieldAlcoholPercentage,
	domain.FieldVolume,
	domain.FieldVintage,
	domain.FieldIsOrganic,
}

// NewArtifact builds an artifact around a classifier with the default class
// names and the given bins.
func NewArtifact(model domain.Classifier, bins []domain.PriceBin) *domain.ModelArtifact {
	return &domain.ModelArtifact{
		Model:      model,
		UIFeatures: append([]string(nil), UIFeatures...),
		ClassNames: domain.DefaultClassNames(),
		PriceBins:  bins,
	}
}

// DefaultBins are price bins for four tiers.
func DefaultBins() []domain.PriceBin {
	return []domain.PriceBin{{Low: 0, High: 89}, {Low: 89, High: 150}, {Low: 150, High: 300}, {Low: 300, High: 1000}}
}

// ValidInput is a well-formed form submission.
func ValidInput() domain.UserInputRow {
	vintage := 2019
	return domain.UserInputRow{
		Country:           "France",
		CategoryLevel1:    "Rött vin",
		CategoryLevel2:    "Bordeaux",
		AlcoholPercentage: 13.5,
		Volume:            750,
		Vintage:           &vintage,
		IsOrganic:         1,
	}
}
