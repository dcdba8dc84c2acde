// Package training fits length of stay models and scores them on held-out
// or training data.
package training

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats/scalar"

	"losrisk/internal/dataset"
	"losrisk/internal/metrics"
	"losrisk/internal/models"
	"losrisk/pkg/utils"
)

// ErrInvalidArgument reports a scoring metric or evaluator outside the
// supported set.
var ErrInvalidArgument = errors.New("invalid argument")

// Result is the outcome of TrainAndTestModel. Model is the estimator that
// was passed in, now fitted. TestPredictions holds its clipped predictions
// for the test set.
type Result struct {
	Model           models.Model `json:"-"`
	TestPredictions []float64    `json:"-"`
	ScoringMetric   string       `json:"scoring_metric"`
	TrainMetric     float64      `json:"train_metric"`
	TestMetric      float64      `json:"test_metric"`
}

// SearchResult is the outcome of TrainModel.
type SearchResult struct {
	Model       models.Model `json:"-"`
	Evaluator   string       `json:"evaluator"`
	CVScoreMean float64      `json:"cv_score_mean"`
	CVScoreStd  float64      `json:"cv_score_std"`
	TrainScore  float64      `json:"train_score"`
}

// Metric returns the scoring function for a TrainAndTestModel metric name.
func Metric(name string) (metrics.Func, error) {
	switch name {
	case metrics.RMSE:
		return metrics.RootMeanSquaredError, nil
	case metrics.F1Weighted:
		return metrics.WeightedF1, nil
	}
	return nil, fmt.Errorf("%w: scoring metric %q, want %q or %q", ErrInvalidArgument, name, metrics.RMSE, metrics.F1Weighted)
}

func evaluatorFor(name string) (metrics.Func, error) {
	switch name {
	case metrics.MAE:
		return metrics.MeanAbsoluteError, nil
	case metrics.F1Weighted:
		return metrics.WeightedF1, nil
	}
	return nil, fmt.Errorf("%w: evaluator %q, want %q or %q", ErrInvalidArgument, name, metrics.MAE, metrics.F1Weighted)
}

// TrainAndTestModel fits est on the training data, predicts both sets,
// floors the predictions at zero and scores them with scoringMetric, which
// must be "rmse" or "f1_weighted". est is fitted in place.
//
// f1_weighted compares values as exact labels, so continuous predictions
// score near zero; wrap a regressor in models.Classifier to emit labels.
func TrainAndTestModel(est models.Model, xTrain dataset.Frame, yTrain []float64, xTest dataset.Frame, yTest []float64, scoringMetric string) (*Result, error) {
	score, err := Metric(scoringMetric)
	if err != nil {
		return nil, err
	}
	if err := est.Fit(xTrain.Rows, yTrain); err != nil {
		return nil, fmt.Errorf("fit %s: %w", est.Name(), err)
	}
	predsTrain, err := PredictClipped(est, xTrain)
	if err != nil {
		return nil, err
	}
	predsTest, err := PredictClipped(est, xTest)
	if err != nil {
		return nil, err
	}

	res := &Result{Model: est, TestPredictions: predsTest, ScoringMetric: scoringMetric}
	if res.TrainMetric, err = score(yTrain, predsTrain); err != nil {
		return nil, fmt.Errorf("score training set: %w", err)
	}
	if res.TestMetric, err = score(yTest, predsTest); err != nil {
		return nil, fmt.Errorf("score test set: %w", err)
	}

	utils.Logger().Info("model trained",
		zap.String("model", est.Name()),
		zap.String("scoring_metric", scoringMetric),
		zap.Float64("train_metric", res.TrainMetric),
		zap.Float64("test_metric", res.TestMetric),
	)
	return res, nil
}

// TrainModel runs search over the training data, refits its best estimator
// on the full training set and scores the refit model's clipped training
// predictions with evaluator ("mean_absolute_error" or "f1_weighted").
// The cross-validation mean is rounded to 3 decimals, the standard
// deviation to 2 and the evaluator value to 3.
func TrainModel(search models.Search, xTrain dataset.Frame, yTrain []float64, evaluator string) (*SearchResult, error) {
	eval, err := evaluatorFor(evaluator)
	if err != nil {
		return nil, err
	}
	if err := search.Fit(xTrain.Rows, yTrain); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	mean, std := search.BestScore()

	// The search's own refit is not relied on; the winner is always fit
	// again on the full training set here.
	best := search.BestEstimator()
	if best == nil {
		return nil, errors.New("search returned no best estimator")
	}
	if err := best.Fit(xTrain.Rows, yTrain); err != nil {
		return nil, fmt.Errorf("refit %s: %w", best.Name(), err)
	}
	preds, err := PredictClipped(best, xTrain)
	if err != nil {
		return nil, err
	}
	value, err := eval(yTrain, preds)
	if err != nil {
		return nil, fmt.Errorf("evaluate training set: %w", err)
	}

	res := &SearchResult{
		Model:       best,
		Evaluator:   evaluator,
		CVScoreMean: scalar.Round(mean, 3),
		CVScoreStd:  scalar.Round(std, 2),
		TrainScore:  scalar.Round(value, 3),
	}
	utils.Logger().Info("search model trained",
		zap.String("model", best.Name()),
		zap.String("evaluator", evaluator),
		zap.Float64("cv_score_mean", res.CVScoreMean),
		zap.Float64("cv_score_std", res.CVScoreStd),
		zap.Float64("train_score", res.TrainScore),
	)
	return res, nil
}

// PredictClipped predicts x with m and floors the predictions at zero.
func PredictClipped(m models.Model, x dataset.Frame) ([]float64, error) {
	p, err := m.Predict(x.Rows)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", m.Name(), err)
	}
	return metrics.ClipNonNegative(p), nil
}
