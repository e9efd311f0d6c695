package domain

import (
	"fmt"
	"sort"
)

// Classifier is the fitted model carried by an artifact. It receives a row whose
// columns already match the artifact's feature order and returns a class index.
type Classifier interface {
	Predict(row FeatureRow) (int, error)
}

// CategoryProvider is implemented by classifiers whose preprocessing stage can
// report the vocabulary each categorical column was encoded against.
type CategoryProvider interface {
	Categories() (map[string][]string, error)
}

// PriceBin is the (low, high) price interval attached to a class index.
type PriceBin struct {
	Low  float64
	High float64
}

// ModelArtifact is the read-only bundle produced by the training process.
type ModelArtifact struct {
	Model      Classifier
	UIFeatures []string
	ClassNames map[int]string
	PriceBins  []PriceBin
}

// DefaultClassNames are used when an artifact carries no class name mapping.
func DefaultClassNames() map[int]string {
	return map[int]string{0: "Q1", 1: "Q2", 2: "Q3", 3: "Q4"}
}

// Label resolves the display label for a predicted class index.
func (a *ModelArtifact) Label(classIndex int) string {
	if name, ok := a.ClassNames[classIndex]; ok {
		return name
	}
	return fmt.Sprintf("Class %d", classIndex)
}

// Range returns the price bin for a class index, or nil when the artifact has no
// bins or the index is outside them.
func (a *ModelArtifact) Range(classIndex int) *PriceRange {
	if a.PriceBins == nil || classIndex < 0 || classIndex >= len(a.PriceBins) {
		return nil
	}
	bin := a.PriceBins[classIndex]
	return &PriceRange{Low: bin.Low, High: bin.High}
}

// ClassIndices lists the mapped class indices in ascending order.
func (a *ModelArtifact) ClassIndices() []int {
	idx := make([]int, 0, len(a.ClassNames))
	for k := range a.ClassNames {
		idx = append(idx, k)
	}
	sort.Ints(idx)
	return idx
}
