package models

import (
	"math"
	"math/rand"
)

type DTNode struct {
	Feature   int
	Threshold float64
	Left      *DTNode
	Right     *DTNode
	IsLeaf    bool
	Value     float64
}

// DecisionTree is a CART regression tree split on squared error.
type DecisionTree struct {
	MaxDepth           int
	MinSamplesSplit    int
	MaxThresholdsPerFe int
	MaxFeatures        int
	Seed               int64
	Root               *DTNode
	NFeatures          int

	rng *rand.Rand
}

func NewDecisionTree() *DecisionTree {
	return &DecisionTree{MaxDepth: 6, MinSamplesSplit: 10, MaxThresholdsPerFe: 64}
}

func (dt *DecisionTree) Name() string { return "DecisionTree" }

func (dt *DecisionTree) Fit(X [][]float64, y []float64) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	dt.NFeatures = len(X[0])
	if err := checkWidth(X, dt.NFeatures); err != nil {
		return err
	}
	dt.rng = rand.New(rand.NewSource(dt.Seed))
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	dt.Root = dt.build(X, y, idx, 0)
	return nil
}

func (dt *DecisionTree) Predict(X [][]float64) ([]float64, error) {
	if dt.Root == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, dt.NFeatures); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i := range X {
		out[i] = dt.predictOne(X[i])
	}
	return out, nil
}

func (dt *DecisionTree) predictOne(x []float64) float64 {
	n := dt.Root
	for !n.IsLeaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

func (dt *DecisionTree) build(X [][]float64, y []float64, idx []int, depth int) *DTNode {
	mean, sse := meanSSE(y, idx)
	node := &DTNode{IsLeaf: true, Value: mean}
	if len(idx) < dt.MinSamplesSplit || depth >= dt.MaxDepth || sse == 0 {
		return node
	}

	bestFeature := -1
	bestThr := 0.0
	bestImp := sse
	var leftBest, rightBest []int

	for _, f := range pickFeatures(dt.rng, dt.NFeatures, dt.MaxFeatures) {
		for _, thr := range candidateThresholds(dt.rng, X, idx, f, dt.MaxThresholdsPerFe) {
			lIdx, rIdx := splitIdx(X, idx, f, thr)
			if len(lIdx) == 0 || len(rIdx) == 0 {
				continue
			}
			_, lSSE := meanSSE(y, lIdx)
			_, rSSE := meanSSE(y, rIdx)
			if imp := lSSE + rSSE; imp < bestImp {
				bestImp = imp
				bestFeature = f
				bestThr = thr
				leftBest = lIdx
				rightBest = rIdx
			}
		}
	}
	if bestFeature == -1 {
		return node
	}
	node.IsLeaf = false
	node.Feature = bestFeature
	node.Threshold = bestThr
	node.Left = dt.build(X, y, leftBest, depth+1)
	node.Right = dt.build(X, y, rightBest, depth+1)
	return node
}

// meanSSE returns the mean of y over idx and the sum of squared deviations
// from it.
func meanSSE(y []float64, idx []int) (float64, float64) {
	if len(idx) == 0 {
		return 0, 0
	}
	var sum, sumSq float64
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	n := float64(len(idx))
	mean := sum / n
	return mean, math.Max(sumSq-sum*mean, 0)
}

func splitIdx(X [][]float64, idx []int, f int, thr float64) ([]int, []int) {
	l := make([]int, 0, len(idx))
	r := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][f] <= thr {
			l = append(l, i)
		} else {
			r = append(r, i)
		}
	}
	return l, r
}

// candidateThresholds samples up to maxC observed values of feature f;
// maxC <= 0 keeps them all.
func candidateThresholds(rng *rand.Rand, X [][]float64, idx []int, f int, maxC int) []float64 {
	values := make([]float64, len(idx))
	for j, i := range idx {
		values[j] = X[i][f]
	}
	if maxC <= 0 || maxC >= len(values) {
		return values
	}
	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	return values[:maxC]
}

func pickFeatures(rng *rand.Rand, nFeats int, maxFeats int) []int {
	if maxFeats <= 0 || maxFeats >= nFeats {
		out := make([]int, nFeats)
		for i := range out {
			out[i] = i
		}
		return out
	}
	return rng.Perm(nFeats)[:maxFeats]
}
