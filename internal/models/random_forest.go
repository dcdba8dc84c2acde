package models

import "math"

type RandomForest struct {
	NEstimators        int
	MaxDepth           int
	MinSamples         int
	MaxThresholdsPerFe int
	// MaxFeatures defaults to a third of the features, the usual choice for
	// regression forests.
	MaxFeatures int
	Seed        int64
	Trees       []*DecisionTree
}

func NewRandomForest() *RandomForest {
	return &RandomForest{NEstimators: 30, MaxDepth: 6, MinSamples: 10, MaxThresholdsPerFe: 32}
}

func (rf *RandomForest) Name() string { return "RandomForest" }

func (rf *RandomForest) Fit(X [][]float64, y []float64) error {
	if rf.NEstimators <= 0 {
		rf.NEstimators = 30
	}
	if len(X) == 0 {
		return checkXY(X, y)
	}
	maxFeatures := rf.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Max(1, float64(len(X[0]))/3))
	}
	trees, err := fitBootstrapTrees(X, y, rf.NEstimators, rf.Seed, func(seed int64) *DecisionTree {
		return &DecisionTree{
			MaxDepth:           rf.MaxDepth,
			MinSamplesSplit:    rf.MinSamples,
			MaxThresholdsPerFe: rf.MaxThresholdsPerFe,
			MaxFeatures:        maxFeatures,
			Seed:               seed,
		}
	})
	if err != nil {
		return err
	}
	rf.Trees = trees
	return nil
}

func (rf *RandomForest) Predict(X [][]float64) ([]float64, error) {
	return averageTrees(rf.Trees, X)
}
