package models

import "math/rand"

// fitBootstrapTrees grows n trees, each on a bootstrap resample of X drawn
// with seed.
func fitBootstrapTrees(X [][]float64, y []float64, n int, seed int64, newTree func(seed int64) *DecisionTree) ([]*DecisionTree, error) {
	if err := checkXY(X, y); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	rows := len(X)
	trees := make([]*DecisionTree, 0, n)
	for k := 0; k < n; k++ {
		Xb := make([][]float64, rows)
		yb := make([]float64, rows)
		for i := 0; i < rows; i++ {
			j := rng.Intn(rows)
			Xb[i], yb[i] = X[j], y[j]
		}
		dt := newTree(rng.Int63())
		if err := dt.Fit(Xb, yb); err != nil {
			return nil, err
		}
		trees = append(trees, dt)
	}
	return trees, nil
}

func averageTrees(trees []*DecisionTree, X [][]float64) ([]float64, error) {
	if len(trees) == 0 {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(X))
	for _, dt := range trees {
		p, err := dt.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := range p {
			out[i] += p[i]
		}
	}
	m := float64(len(trees))
	for i := range out {
		out[i] /= m
	}
	return out, nil
}
