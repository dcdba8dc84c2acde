package models

import (
	"math"
	"sort"
)

type gbStump struct {
	Feature   int
	Threshold float64
	LeftVal   float64
	RightVal  float64
}

// GradientBoosting fits squared-error boosted stumps on the residuals of a
// constant mean start.
type GradientBoosting struct {
	NEstimators        int
	LearningRate       float64
	MinSamples         int
	MaxThresholdsPerFe int
	Init               float64
	Stumps             []gbStump
	NFeatures          int
}

func NewGradientBoosting() *GradientBoosting {
	return &GradientBoosting{NEstimators: 100, LearningRate: 0.1, MinSamples: 5, MaxThresholdsPerFe: 32}
}

func (gb *GradientBoosting) Name() string { return "GradientBoosting" }

func (gb *GradientBoosting) Fit(X [][]float64, y []float64) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	n := len(X)
	gb.NFeatures = len(X[0])
	if err := checkWidth(X, gb.NFeatures); err != nil {
		return err
	}
	gb.Stumps = gb.Stumps[:0]

	sum := 0.0
	for _, v := range y {
		sum += v
	}
	gb.Init = sum / float64(n)
	F := make([]float64, n)
	for i := range F {
		F[i] = gb.Init
	}

	thresholds := make([][]float64, gb.NFeatures)
	for j := range thresholds {
		thresholds[j] = gbCandidateThresholds(X, j, gb.MaxThresholdsPerFe)
	}

	r := make([]float64, n)
	for m := 0; m < gb.NEstimators; m++ {
		for i := 0; i < n; i++ {
			r[i] = y[i] - F[i]
		}

		best := gbStump{Feature: -1}
		bestSSE := math.MaxFloat64
		for j := 0; j < gb.NFeatures; j++ {
			for _, thr := range thresholds[j] {
				var leftSum, rightSum, leftSq, rightSq float64
				var leftCount, rightCount int
				for i := 0; i < n; i++ {
					if X[i][j] <= thr {
						leftSum += r[i]
						leftSq += r[i] * r[i]
						leftCount++
					} else {
						rightSum += r[i]
						rightSq += r[i] * r[i]
						rightCount++
					}
				}
				if leftCount == 0 || rightCount == 0 || leftCount < gb.MinSamples || rightCount < gb.MinSamples {
					continue
				}
				leftAvg := leftSum / float64(leftCount)
				rightAvg := rightSum / float64(rightCount)
				sse := (leftSq - leftSum*leftAvg) + (rightSq - rightSum*rightAvg)
				if sse < bestSSE {
					bestSSE = sse
					best = gbStump{Feature: j, Threshold: thr, LeftVal: leftAvg, RightVal: rightAvg}
				}
			}
		}
		if best.Feature == -1 {
			break
		}
		gb.Stumps = append(gb.Stumps, best)
		for i := 0; i < n; i++ {
			F[i] += gb.LearningRate * best.value(X[i])
		}
	}
	return nil
}

func (s gbStump) value(x []float64) float64 {
	if x[s.Feature] > s.Threshold {
		return s.RightVal
	}
	return s.LeftVal
}

func (gb *GradientBoosting) Predict(X [][]float64) ([]float64, error) {
	if gb.NFeatures == 0 {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, gb.NFeatures); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i := range X {
		f := gb.Init
		for _, s := range gb.Stumps {
			f += gb.LearningRate * s.value(X[i])
		}
		out[i] = f
	}
	return out, nil
}

// gbCandidateThresholds picks nCand evenly spaced quantiles of feature j.
func gbCandidateThresholds(X [][]float64, j int, nCand int) []float64 {
	if nCand <= 0 {
		nCand = 16
	}
	n := len(X)
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = X[i][j]
	}
	sort.Float64s(vals)
	out := make([]float64, 0, nCand)
	for k := 0; k < nCand; k++ {
		idx := int(math.Round(float64(k) / float64(nCand) * float64(n-1)))
		thr := vals[idx]
		if len(out) == 0 || thr != out[len(out)-1] {
			out = append(out, thr)
		}
	}
	return out
}
