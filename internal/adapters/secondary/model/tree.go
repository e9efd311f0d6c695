package model

import (
	"fmt"
	"math"

	"wine-tier-service/internal/core/domain"
)

// node is one entry of a tree dump. A node with Leaf set is terminal; otherwise
// the row goes to Yes when x[Split] < Threshold, to No when it is not, and to
// Missing when x[Split] is NaN.
type node struct {
	Split     int      `json:"split"`
	Threshold float64  `json:"threshold"`
	Yes       int      `json:"yes"`
	No        int      `json:"no"`
	Missing   int      `json:"missing"`
	Leaf      *float64 `json:"leaf,omitempty"`
}

type tree struct {
	Class int    `json:"class"`
	Nodes []node `json:"nodes"`
}

// TreeEnsemble is a multi-class gradient-boosted tree model. Each tree adds its
// leaf value to the margin of its class; the class with the largest margin wins.
type TreeEnsemble struct {
	NumClass  int     `json:"num_class"`
	BaseScore float64 `json:"base_score"`
	Trees     []tree  `json:"trees"`
}

func (e *TreeEnsemble) validate(numFeatures int) error {
	if e.NumClass < 2 {
		return fmt.Errorf("%w: num_class must be at least 2, got %d", domain.ErrInvalidArtifact, e.NumClass)
	}
	if len(e.Trees) == 0 {
		return fmt.Errorf("%w: ensemble has no trees", domain.ErrInvalidArtifact)
	}
	for ti, t := range e.Trees {
		if t.Class < 0 || t.Class >= e.NumClass {
			return fmt.Errorf("%w: tree %d targets class %d of %d", domain.ErrInvalidArtifact, ti, t.Class, e.NumClass)
		}
		if len(t.Nodes) == 0 {
			return fmt.Errorf("%w: tree %d is empty", domain.ErrInvalidArtifact, ti)
		}
		for ni, n := range t.Nodes {
			if n.Leaf != nil {
				continue
			}
			if n.Split < 0 || n.Split >= numFeatures {
				return fmt.Errorf("%w: tree %d node %d splits on feature %d of %d", domain.ErrInvalidArtifact, ti, ni, n.Split, numFeatures)
			}
			// Children must come after their parent so evaluation always terminates.
			for _, child := range []int{n.Yes, n.No, n.Missing} {
				if child <= ni || child >= len(t.Nodes) {
					return fmt.Errorf("%w: tree %d node %d has invalid child %d", domain.ErrInvalidArtifact, ti, ni, child)
				}
			}
		}
	}
	return nil
}

// margins returns the raw per-class scores for a feature vector.
func (e *TreeEnsemble) margins(x []float64) []float64 {
	out := make([]float64, e.NumClass)
	for k := range out {
		out[k] = e.BaseScore
	}
	for _, t := range e.Trees {
		out[t.Class] += t.leaf(x)
	}
	return out
}

// predict returns the arg-max class. Ties go to the lowest index.
func (e *TreeEnsemble) predict(x []float64) int {
	m := e.margins(x)
	best := 0
	for k := 1; k < len(m); k++ {
		if m[k] > m[best] {
			best = k
		}
	}
	return best
}

func (t tree) leaf(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf != nil {
			return *n.Leaf
		}
		v := x[n.Split]
		switch {
		case math.IsNaN(v):
			i = n.Missing
		case v < n.Threshold:
			i = n.Yes
		default:
			i = n.No
		}
	}
}
