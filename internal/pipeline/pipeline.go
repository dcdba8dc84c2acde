// Package pipeline wires a split, a train/test run and the report together
// for one estimator.
package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"losrisk/internal/config"
	"losrisk/internal/dataset"
	"losrisk/internal/models"
	"losrisk/internal/report"
	"losrisk/internal/risk"
	"losrisk/internal/training"
	"losrisk/pkg/utils"
)

type Sizes struct {
	Train    int `json:"train"`
	Validate int `json:"validate"`
	Test     int `json:"test"`
}

// Summary describes one pipeline run.
type Summary struct {
	Model          string           `json:"model"`
	Sizes          Sizes            `json:"sizes"`
	Result         *training.Result `json:"result"`
	ValidateMetric float64          `json:"validate_metric"`
	// TestRisk counts test predictions per risk score; index 0 is unused.
	TestRisk [6]int `json:"test_risk"`
}

// Run splits x and y as configured, trains est on the training part, scores
// it on the test and validation parts and writes a report when
// cfg.ReportDir is set.
func Run(cfg *config.Config, x dataset.Frame, y []float64, est models.Model) (*Summary, error) {
	log := utils.Logger()

	parts, err := dataset.TrainTestValidateSplit(x, y, cfg.Split.Train, cfg.Split.Validate, cfg.Split.Test, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	log.Info("dataset split",
		zap.Int("train", parts.XTrain.Len()),
		zap.Int("validate", parts.XValidate.Len()),
		zap.Int("test", parts.XTest.Len()),
	)

	res, err := training.TrainAndTestModel(est, parts.XTrain, parts.YTrain, parts.XTest, parts.YTest, cfg.ScoringMetric)
	if err != nil {
		return nil, err
	}

	predsValidate, err := training.PredictClipped(est, parts.XValidate)
	if err != nil {
		return nil, err
	}
	score, err := training.Metric(cfg.ScoringMetric)
	if err != nil {
		return nil, err
	}
	validateMetric, err := score(parts.YValidate, predsValidate)
	if err != nil {
		return nil, fmt.Errorf("score validation set: %w", err)
	}

	s := &Summary{
		Model: est.Name(),
		Sizes: Sizes{
			Train:    parts.XTrain.Len(),
			Validate: parts.XValidate.Len(),
			Test:     parts.XTest.Len(),
		},
		Result:         res,
		ValidateMetric: validateMetric,
		TestRisk:       risk.Histogram(res.TestPredictions),
	}

	if cfg.ReportDir != "" {
		if err := report.Write(cfg.ReportDir, s, parts.YTest, res.TestPredictions); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
		log.Info("report written", zap.String("dir", cfg.ReportDir))
	}
	return s, nil
}
