// Package metrics implements the scalar scores used to evaluate length of
// stay models.
package metrics

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

const (
	RMSE       = "rmse"
	MAE        = "mean_absolute_error"
	F1Weighted = "f1_weighted"

	NegMAE  = "neg_mean_absolute_error"
	NegRMSE = "neg_root_mean_squared_error"
)

var ErrEmpty = errors.New("metrics: empty input")

// Func computes a score from actual and predicted values.
type Func func(actual, predicted []float64) (float64, error)

// Scorer returns a cross-validation scorer where larger is better. Error
// metrics are negated.
func Scorer(name string) (Func, bool) {
	switch name {
	case NegMAE:
		return negate(MeanAbsoluteError), true
	case NegRMSE:
		return negate(RootMeanSquaredError), true
	case F1Weighted:
		return WeightedF1, true
	}
	return nil, false
}

func negate(f Func) Func {
	return func(a, p []float64) (float64, error) {
		v, err := f(a, p)
		return -v, err
	}
}

func check(actual, predicted []float64) error {
	if len(actual) != len(predicted) {
		return fmt.Errorf("metrics: length mismatch: %d actual vs %d predicted", len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return ErrEmpty
	}
	return nil
}

func RootMeanSquaredError(actual, predicted []float64) (float64, error) {
	if err := check(actual, predicted); err != nil {
		return 0, err
	}
	var sum float64
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(actual))), nil
}

func MeanAbsoluteError(actual, predicted []float64) (float64, error) {
	if err := check(actual, predicted); err != nil {
		return 0, err
	}
	var sum float64
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual)), nil
}

// WeightedF1 averages per-label F1 weighted by each label's support in
// actual. Values are compared as exact labels; the label set is the union
// of actual and predicted values.
func WeightedF1(actual, predicted []float64) (float64, error) {
	if err := check(actual, predicted); err != nil {
		return 0, err
	}
	type counts struct{ tp, fp, fn int }
	byLabel := map[float64]*counts{}
	get := func(l float64) *counts {
		c, ok := byLabel[l]
		if !ok {
			c = &counts{}
			byLabel[l] = c
		}
		return c
	}
	for i := range actual {
		if actual[i] == predicted[i] {
			get(actual[i]).tp++
			continue
		}
		get(predicted[i]).fp++
		get(actual[i]).fn++
	}

	labels := make([]float64, 0, len(byLabel))
	for l := range byLabel {
		labels = append(labels, l)
	}
	sort.Float64s(labels)

	var total, weighted float64
	for _, l := range labels {
		c := byLabel[l]
		support := float64(c.tp + c.fn)
		total += support
		weighted += support * f1(c.tp, c.fp, c.fn)
	}
	if total == 0 {
		return 0, nil
	}
	return weighted / total, nil
}

func f1(tp, fp, fn int) float64 {
	var precision, recall float64
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// ClipNonNegative floors every value at zero. The input is left untouched.
func ClipNonNegative(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = math.Max(v, 0)
	}
	return out
}
