package models_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"losrisk/internal/metrics"
	"losrisk/internal/models"
)

func treeFactory(p models.Params) (models.Model, error) {
	minSplit := 2
	if v, ok := p["min_samples_split"]; ok {
		minSplit = int(v)
	}
	return &models.DecisionTree{MaxDepth: int(p["max_depth"]), MinSamplesSplit: minSplit}, nil
}

func TestGridSearchPicksDeeperTree(t *testing.T) {
	X, y := stepData(40)
	g := &models.GridSearch{
		Factory: treeFactory,
		Grid:    map[string][]float64{"max_depth": {0, 3}},
		Scoring: metrics.NegMAE,
		Folds:   4,
		Shuffle: true,
		Seed:    1,
		Refit:   true,
	}
	require.NoError(t, g.Fit(X, y))

	assert.Equal(t, models.Params{"max_depth": 3}, g.BestParams())
	res := g.Results()
	require.Len(t, res, 2)
	assert.Equal(t, 0.0, res[0].Params["max_depth"])
	assert.Len(t, res[0].Scores, 4)
	assert.Greater(t, res[1].Mean, res[0].Mean)

	mean, std := g.BestScore()
	assert.Equal(t, res[1].Mean, mean)
	assert.Equal(t, res[1].Std, std)
	assert.LessOrEqual(t, mean, 0.0)
	assert.GreaterOrEqual(t, std, 0.0)

	p, err := g.BestEstimator().Predict([][]float64{{3}, {33}})
	require.NoError(t, err)
	assert.InDelta(t, 0, p[0], 1e-9)
	assert.InDelta(t, 10, p[1], 1e-9)
}

func TestGridSearchWithoutRefitLeavesBestUnfitted(t *testing.T) {
	X, y := stepData(20)
	g := &models.GridSearch{
		Factory: treeFactory,
		Grid:    map[string][]float64{"max_depth": {1}},
		Scoring: metrics.NegRMSE,
		Folds:   2,
	}
	mean, std := g.BestScore()
	assert.Zero(t, mean)
	assert.Zero(t, std)
	assert.Nil(t, g.BestEstimator())

	require.NoError(t, g.Fit(X, y))
	_, err := g.BestEstimator().Predict(X)
	assert.ErrorIs(t, err, models.ErrNotFitted)
}

func TestGridSearchParallelMatchesSequential(t *testing.T) {
	X, y := stepData(40)
	grid := map[string][]float64{"max_depth": {1, 2}, "min_samples_split": {2, 5}}
	seq := &models.GridSearch{Factory: treeFactory, Grid: grid, Scoring: metrics.NegMAE, Folds: 5, Shuffle: true, Seed: 4}
	par := &models.GridSearch{Factory: treeFactory, Grid: grid, Scoring: metrics.NegMAE, Folds: 5, Shuffle: true, Seed: 4, Parallelism: 4}
	require.NoError(t, seq.Fit(X, y))
	require.NoError(t, par.Fit(X, y))

	require.Len(t, seq.Results(), 4)
	assert.Equal(t, seq.Results(), par.Results())
	assert.Equal(t, models.Params{"max_depth": 1, "min_samples_split": 5}, seq.Results()[1].Params)
	assert.Equal(t, seq.BestParams(), par.BestParams())
}

func TestGridSearchErrors(t *testing.T) {
	X, y := stepData(20)

	g := &models.GridSearch{Scoring: metrics.NegMAE}
	assert.Error(t, g.Fit(X, y))

	g = &models.GridSearch{Factory: treeFactory, Scoring: "accuracy"}
	assert.Error(t, g.Fit(X, y))

	g = &models.GridSearch{Factory: treeFactory, Scoring: metrics.NegMAE, Folds: 30}
	assert.Error(t, g.Fit(X, y))

	g = &models.GridSearch{Factory: treeFactory, Scoring: metrics.NegMAE, Grid: map[string][]float64{"max_depth": {}}}
	assert.Error(t, g.Fit(X, y))

	boom := errors.New("boom")
	g = &models.GridSearch{
		Factory: func(models.Params) (models.Model, error) { return nil, boom },
		Scoring: metrics.NegMAE,
	}
	assert.ErrorIs(t, g.Fit(X, y), boom)
}
