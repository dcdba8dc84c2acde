package models

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"losrisk/internal/dataset"
	"losrisk/internal/metrics"
	"losrisk/pkg/utils"
)

// Params is one point of a hyperparameter grid.
type Params map[string]float64

// Factory builds an unfitted model for a set of hyperparameters.
type Factory func(Params) (Model, error)

type CandidateResult struct {
	Params Params
	Scores []float64
	Mean   float64
	Std    float64
}

// GridSearch scores every point of Grid with k-fold cross-validation and
// keeps the candidate with the highest mean score. Scoring is a scorer name
// from the metrics package where larger is better.
type GridSearch struct {
	Factory Factory
	Grid    map[string][]float64
	Scoring string
	Folds   int
	Shuffle bool
	Seed    int64
	// Parallelism bounds how many candidates are evaluated at once; values
	// below 1 evaluate them one at a time.
	Parallelism int
	// Refit fits the best candidate on the whole training set after the
	// search. Without it BestEstimator returns an unfitted model.
	Refit bool

	results   []CandidateResult
	best      int
	bestModel Model
}

var _ Search = (*GridSearch)(nil)

func (g *GridSearch) Fit(X [][]float64, y []float64) error {
	if g.Factory == nil {
		return errors.New("grid search: no model factory")
	}
	score, ok := metrics.Scorer(g.Scoring)
	if !ok {
		return fmt.Errorf("grid search: unknown scoring %q", g.Scoring)
	}
	if err := checkXY(X, y); err != nil {
		return fmt.Errorf("grid search: %w", err)
	}
	k := g.Folds
	if k == 0 {
		k = 5
	}
	folds, err := dataset.KFold(len(X), k, g.Shuffle, g.Seed)
	if err != nil {
		return fmt.Errorf("grid search: %w", err)
	}

	candidates := expandGrid(g.Grid)
	if len(candidates) == 0 {
		return errors.New("grid search: grid has a parameter without values")
	}
	results := make([]CandidateResult, len(candidates))
	var eg errgroup.Group
	eg.SetLimit(max(g.Parallelism, 1))
	for i, p := range candidates {
		eg.Go(func() error {
			r, err := g.evaluate(p, X, y, folds, score)
			if err != nil {
				return fmt.Errorf("grid search candidate %v: %w", p, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	best := 0
	for i := range results {
		if results[i].Mean > results[best].Mean {
			best = i
		}
	}
	g.results = results
	g.best = best

	m, err := g.Factory(results[best].Params)
	if err != nil {
		return fmt.Errorf("grid search: build best model: %w", err)
	}
	if g.Refit {
		if err := m.Fit(X, y); err != nil {
			return fmt.Errorf("grid search: refit best model: %w", err)
		}
	}
	g.bestModel = m

	utils.Logger().Debug("grid search finished",
		zap.String("model", m.Name()),
		zap.Int("candidates", len(results)),
		zap.Any("best_params", results[best].Params),
		zap.Float64("best_mean", results[best].Mean),
		zap.Float64("best_std", results[best].Std),
	)
	return nil
}

func (g *GridSearch) evaluate(p Params, X [][]float64, y []float64, folds []dataset.Fold, score metrics.Func) (CandidateResult, error) {
	scores := make([]float64, len(folds))
	for f, fold := range folds {
		m, err := g.Factory(p)
		if err != nil {
			return CandidateResult{}, err
		}
		xTrain, yTrain := subset(X, y, fold.Train)
		xTest, yTest := subset(X, y, fold.Test)
		if err := m.Fit(xTrain, yTrain); err != nil {
			return CandidateResult{}, fmt.Errorf("fold %d: %w", f, err)
		}
		preds, err := m.Predict(xTest)
		if err != nil {
			return CandidateResult{}, fmt.Errorf("fold %d: %w", f, err)
		}
		if scores[f], err = score(yTest, preds); err != nil {
			return CandidateResult{}, fmt.Errorf("fold %d: %w", f, err)
		}
	}
	mean, std := stat.PopMeanStdDev(scores, nil)
	return CandidateResult{Params: p, Scores: scores, Mean: mean, Std: std}, nil
}

// BestEstimator is nil until Fit succeeds.
func (g *GridSearch) BestEstimator() Model { return g.bestModel }

func (g *GridSearch) BestScore() (mean, std float64) {
	if g.results == nil {
		return 0, 0
	}
	r := g.results[g.best]
	return r.Mean, r.Std
}

func (g *GridSearch) BestParams() Params {
	if g.results == nil {
		return nil
	}
	return g.results[g.best].Params
}

func (g *GridSearch) Results() []CandidateResult { return g.results }

// expandGrid lists every combination of grid values, keys in sorted order
// with the last key varying fastest. An empty grid yields one empty point.
func expandGrid(grid map[string][]float64) []Params {
	keys := make([]string, 0, len(grid))
	for k := range grid {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := []Params{{}}
	for _, k := range keys {
		next := make([]Params, 0, len(out)*len(grid[k]))
		for _, p := range out {
			for _, v := range grid[k] {
				q := make(Params, len(p)+1)
				for pk, pv := range p {
					q[pk] = pv
				}
				q[k] = v
				next = append(next, q)
			}
		}
		out = next
	}
	return out
}

func subset(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i], ys[i] = X[j], y[j]
	}
	return xs, ys
}
