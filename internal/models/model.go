package models

//go:generate mockgen -source=model.go -destination=mock/model.go -package=mock

import (
	"errors"
	"fmt"
)

var ErrNotFitted = errors.New("model is not fitted")

// Model is a trainable predictor of a numeric target.
type Model interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
	Name() string
}

// Search picks the best candidate model over a hyperparameter space.
type Search interface {
	Fit(X [][]float64, y []float64) error
	BestEstimator() Model
	// BestScore is the mean and standard deviation of the best candidate's
	// cross-validation scores.
	BestScore() (mean, std float64)
}

func checkXY(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("no training rows")
	}
	if len(X) != len(y) {
		return fmt.Errorf("%d rows but %d targets", len(X), len(y))
	}
	return nil
}

func checkWidth(X [][]float64, want int) error {
	for i := range X {
		if len(X[i]) != want {
			return fmt.Errorf("row %d has %d features, model expects %d", i, len(X[i]), want)
		}
	}
	return nil
}
