package training

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"losrisk/internal/dataset"
	"losrisk/internal/metrics"
	"losrisk/internal/models"
	"losrisk/internal/models/mock"
	"losrisk/internal/risk"
	"losrisk/pkg/utils"
)

func useTestLogger(t *testing.T) {
	utils.SetLogger(zaptest.NewLogger(t))
	t.Cleanup(func() { utils.SetLogger(nil) })
}

func frame(rows ...[]float64) dataset.Frame {
	return dataset.Frame{Columns: []string{"x"}, Rows: rows}
}

func TestTrainAndTestModelRejectsUnknownMetric(t *testing.T) {
	ctrl := gomock.NewController(t)
	est := mock.NewMockModel(ctrl)

	_, err := TrainAndTestModel(est, frame([]float64{1}), []float64{1}, frame([]float64{2}), []float64{2}, "xyz")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTrainAndTestModelClipsPredictions(t *testing.T) {
	useTestLogger(t)
	ctrl := gomock.NewController(t)
	est := mock.NewMockModel(ctrl)

	xTrain := frame([]float64{1}, []float64{2})
	xTest := frame([]float64{3}, []float64{4})
	yTrain := []float64{1, 2}
	yTest := []float64{0, 0}

	est.EXPECT().Name().Return("mock").AnyTimes()
	est.EXPECT().Fit(xTrain.Rows, yTrain).Return(nil)
	est.EXPECT().Predict(xTrain.Rows).Return([]float64{-1, 2}, nil)
	est.EXPECT().Predict(xTest.Rows).Return([]float64{-3, -0.5}, nil)

	res, err := TrainAndTestModel(est, xTrain, yTrain, xTest, yTest, metrics.RMSE)
	require.NoError(t, err)
	assert.Same(t, est, res.Model)
	assert.Equal(t, metrics.RMSE, res.ScoringMetric)
	assert.InDelta(t, math.Sqrt(0.5), res.TrainMetric, 1e-12)
	assert.Zero(t, res.TestMetric)
	assert.Equal(t, []float64{0, 0}, res.TestPredictions)
}

func TestMetric(t *testing.T) {
	score, err := Metric(metrics.RMSE)
	require.NoError(t, err)
	v, err := score([]float64{1, 2}, []float64{1, 4})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(2), v, 1e-12)

	score, err = Metric(metrics.F1Weighted)
	require.NoError(t, err)
	v, err = score([]float64{1, 2}, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	_, err = Metric(metrics.MAE)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTrainAndTestModelF1NeedsLabels(t *testing.T) {
	useTestLogger(t)
	x := frame([]float64{0}, []float64{1}, []float64{2}, []float64{3})
	y := []float64{1, 1, 3, 3}

	res, err := TrainAndTestModel(models.NewLinearRegression(), x, y, x, y, metrics.F1Weighted)
	require.NoError(t, err)
	assert.Less(t, res.TestMetric, 0.5)

	res, err = TrainAndTestModel(models.NewClassifier(models.NewLinearRegression()), x, y, x, y, metrics.F1Weighted)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.TestMetric)
}

func TestTrainAndTestModelPropagatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	x := frame([]float64{1})
	boom := errors.New("boom")

	est := mock.NewMockModel(ctrl)
	est.EXPECT().Name().Return("mock").AnyTimes()
	est.EXPECT().Fit(gomock.Any(), gomock.Any()).Return(boom)
	_, err := TrainAndTestModel(est, x, []float64{1}, x, []float64{1}, metrics.RMSE)
	assert.ErrorIs(t, err, boom)

	est = mock.NewMockModel(ctrl)
	est.EXPECT().Name().Return("mock").AnyTimes()
	est.EXPECT().Fit(gomock.Any(), gomock.Any()).Return(nil)
	est.EXPECT().Predict(gomock.Any()).Return(nil, boom)
	_, err = TrainAndTestModel(est, x, []float64{1}, x, []float64{1}, metrics.F1Weighted)
	assert.ErrorIs(t, err, boom)

	est = mock.NewMockModel(ctrl)
	est.EXPECT().Name().Return("mock").AnyTimes()
	est.EXPECT().Fit(gomock.Any(), gomock.Any()).Return(nil)
	est.EXPECT().Predict(gomock.Any()).Return([]float64{1, 2}, nil).Times(2)
	_, err = TrainAndTestModel(est, x, []float64{1}, x, []float64{1}, metrics.RMSE)
	assert.Error(t, err)
}

func TestTrainAndTestModelRMSEOnStays(t *testing.T) {
	useTestLogger(t)
	x, y := dataset.StaysFrame(dataset.GenerateStays(300, 5))
	p, err := dataset.TrainTestValidateSplit(x, y, 0.6, 0.2, 0.2, 5)
	require.NoError(t, err)

	for _, est := range []models.Model{models.NewLinearRegression(), models.NewGradientBoosting(), models.NewRandomForest()} {
		res, err := TrainAndTestModel(est, p.XTrain, p.YTrain, p.XTest, p.YTest, metrics.RMSE)
		require.NoError(t, err, est.Name())
		assert.GreaterOrEqual(t, res.TrainMetric, 0.0, est.Name())
		assert.GreaterOrEqual(t, res.TestMetric, 0.0, est.Name())
		// the synthetic noise has a standard deviation of 1.5 days
		assert.Less(t, res.TestMetric, 4.0, est.Name())
	}
}

func TestTrainAndTestModelF1OnRiskLabels(t *testing.T) {
	useTestLogger(t)
	x, los := dataset.StaysFrame(dataset.GenerateStays(300, 8))
	labels := make([]float64, len(los))
	for i, s := range risk.Scores(los) {
		labels[i] = float64(s)
	}
	xTrain, xTest, yTrain, yTest, err := dataset.TrainTestSplit(x, labels, 0.75, 0.25, 8)
	require.NoError(t, err)

	res, err := TrainAndTestModel(models.NewClassifier(models.NewLinearRegression()), xTrain, yTrain, xTest, yTest, metrics.F1Weighted)
	require.NoError(t, err)
	assert.Equal(t, metrics.F1Weighted, res.ScoringMetric)
	assert.Greater(t, res.TrainMetric, 0.0)
	assert.LessOrEqual(t, res.TrainMetric, 1.0)
	assert.LessOrEqual(t, res.TestMetric, 1.0)
}

func TestTrainModelRejectsUnknownEvaluator(t *testing.T) {
	ctrl := gomock.NewController(t)
	search := mock.NewMockSearch(ctrl)

	_, err := TrainModel(search, frame([]float64{1}), []float64{1}, "xyz")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTrainModelRefitsAndRounds(t *testing.T) {
	useTestLogger(t)
	ctrl := gomock.NewController(t)
	search := mock.NewMockSearch(ctrl)
	best := mock.NewMockModel(ctrl)

	x := frame([]float64{1}, []float64{2}, []float64{3})
	y := []float64{0, 3, 5}

	best.EXPECT().Name().Return("best").AnyTimes()
	gomock.InOrder(
		search.EXPECT().Fit(x.Rows, y).Return(nil),
		best.EXPECT().Fit(x.Rows, y).Return(nil),
		best.EXPECT().Predict(x.Rows).Return([]float64{-2, 3, 4}, nil),
	)
	search.EXPECT().BestScore().Return(-1.23456, 0.4567)
	search.EXPECT().BestEstimator().Return(best)

	res, err := TrainModel(search, x, y, metrics.MAE)
	require.NoError(t, err)
	assert.Same(t, best, res.Model)
	assert.Equal(t, metrics.MAE, res.Evaluator)
	assert.Equal(t, -1.235, res.CVScoreMean)
	assert.Equal(t, 0.46, res.CVScoreStd)
	assert.Equal(t, 0.333, res.TrainScore)
}

func TestTrainModelRoundsHalfAwayFromZero(t *testing.T) {
	useTestLogger(t)
	ctrl := gomock.NewController(t)
	search := mock.NewMockSearch(ctrl)
	best := mock.NewMockModel(ctrl)
	x := frame([]float64{1}, []float64{2})
	y := []float64{1, 1}

	best.EXPECT().Name().Return("best").AnyTimes()
	best.EXPECT().Fit(x.Rows, y).Return(nil)
	best.EXPECT().Predict(x.Rows).Return([]float64{1, 1}, nil)
	search.EXPECT().Fit(x.Rows, y).Return(nil)
	search.EXPECT().BestScore().Return(-2.0625, 0.125)
	search.EXPECT().BestEstimator().Return(best)

	res, err := TrainModel(search, x, y, metrics.F1Weighted)
	require.NoError(t, err)
	assert.Equal(t, -2.063, res.CVScoreMean)
	assert.Equal(t, 0.13, res.CVScoreStd)
	assert.Equal(t, 1.0, res.TrainScore)
}

func TestTrainModelErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	x := frame([]float64{1})
	boom := errors.New("boom")

	search := mock.NewMockSearch(ctrl)
	search.EXPECT().Fit(gomock.Any(), gomock.Any()).Return(boom)
	_, err := TrainModel(search, x, []float64{1}, metrics.F1Weighted)
	assert.ErrorIs(t, err, boom)

	search = mock.NewMockSearch(ctrl)
	search.EXPECT().Fit(gomock.Any(), gomock.Any()).Return(nil)
	search.EXPECT().BestScore().Return(0.0, 0.0)
	search.EXPECT().BestEstimator().Return(nil)
	_, err = TrainModel(search, x, []float64{1}, metrics.F1Weighted)
	assert.Error(t, err)
}

func TestTrainModelWithGridSearch(t *testing.T) {
	useTestLogger(t)
	x, y := dataset.StaysFrame(dataset.GenerateStays(120, 2))
	g := &models.GridSearch{
		Factory: func(p models.Params) (models.Model, error) {
			return &models.DecisionTree{MaxDepth: int(p["max_depth"]), MinSamplesSplit: 5, MaxThresholdsPerFe: 16}, nil
		},
		Grid:    map[string][]float64{"max_depth": {1, 3, 5}},
		Scoring: metrics.NegMAE,
		Folds:   3,
	}

	// Refit is off, so the model is only usable because TrainModel refits it.
	res, err := TrainModel(g, x, y, metrics.MAE)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.CVScoreMean, 0.0)
	assert.GreaterOrEqual(t, res.CVScoreStd, 0.0)
	assert.GreaterOrEqual(t, res.TrainScore, 0.0)
	assert.Equal(t, res.TrainScore, math.Round(res.TrainScore*1000)/1000)

	_, err = res.Model.Predict(x.Rows)
	assert.NoError(t, err)
}
