package dataset

import (
	"fmt"
	"math/rand"
)

type Fold struct {
	Train []int
	Test  []int
}

// KFold splits n row indices into k consecutive folds; the first n%k folds
// get one extra row. With shuffle the indices are permuted with seed first.
func KFold(n, k int, shuffle bool, seed int64) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("kfold: need at least 2 folds, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("kfold: %d folds for %d rows", k, n)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if shuffle {
		idx = rand.New(rand.NewSource(seed)).Perm(n)
	}

	folds := make([]Fold, 0, k)
	start := 0
	for f := 0; f < k; f++ {
		size := n / k
		if f < n%k {
			size++
		}
		test := idx[start : start+size]
		train := make([]int, 0, n-size)
		train = append(train, idx[:start]...)
		train = append(train, idx[start+size:]...)
		folds = append(folds, Fold{Train: train, Test: test})
		start += size
	}
	return folds, nil
}
