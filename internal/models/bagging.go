package models

// Bagging averages full-feature regression trees grown on bootstrap
// resamples.
type Bagging struct {
	NEstimators        int
	MaxDepth           int
	MinSamples         int
	MaxThresholdsPerFe int
	Seed               int64
	Trees              []*DecisionTree
}

func NewBagging() *Bagging {
	return &Bagging{NEstimators: 30, MaxDepth: 6, MinSamples: 10, MaxThresholdsPerFe: 32}
}

func (bg *Bagging) Name() string { return "Bagging" }

func (bg *Bagging) Fit(X [][]float64, y []float64) error {
	if bg.NEstimators <= 0 {
		bg.NEstimators = 30
	}
	trees, err := fitBootstrapTrees(X, y, bg.NEstimators, bg.Seed, func(seed int64) *DecisionTree {
		return &DecisionTree{
			MaxDepth:           bg.MaxDepth,
			MinSamplesSplit:    bg.MinSamples,
			MaxThresholdsPerFe: bg.MaxThresholdsPerFe,
			Seed:               seed,
		}
	})
	if err != nil {
		return err
	}
	bg.Trees = trees
	return nil
}

func (bg *Bagging) Predict(X [][]float64) ([]float64, error) {
	return averageTrees(bg.Trees, X)
}
