package models

import (
	"fmt"
	"math"
	"sort"
)

// Classifier turns a regressor trained on integer-coded labels into a
// classifier by snapping each prediction to the nearest label seen during
// Fit. Ties go to the smaller label.
type Classifier struct {
	Regressor Model
	Classes   []float64
}

func NewClassifier(regressor Model) *Classifier {
	return &Classifier{Regressor: regressor}
}

func (c *Classifier) Name() string { return fmt.Sprintf("Classifier(%s)", c.Regressor.Name()) }

func (c *Classifier) Fit(X [][]float64, y []float64) error {
	c.Classes = nil
	if err := c.Regressor.Fit(X, y); err != nil {
		return err
	}
	seen := map[float64]struct{}{}
	for _, v := range y {
		seen[v] = struct{}{}
	}
	c.Classes = make([]float64, 0, len(seen))
	for v := range seen {
		c.Classes = append(c.Classes, v)
	}
	sort.Float64s(c.Classes)
	return nil
}

func (c *Classifier) Predict(X [][]float64) ([]float64, error) {
	if len(c.Classes) == 0 {
		return nil, ErrNotFitted
	}
	raw, err := c.Regressor.Predict(X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = c.nearest(v)
	}
	return out, nil
}

func (c *Classifier) nearest(v float64) float64 {
	best := c.Classes[0]
	for _, cl := range c.Classes[1:] {
		if math.Abs(cl-v) < math.Abs(best-v) {
			best = cl
		}
	}
	return best
}
