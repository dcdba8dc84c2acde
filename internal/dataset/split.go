package dataset

import (
	"fmt"
	"math"
	"math/rand"
)

// TrainTestSplit shuffles row indices with seed and cuts them into a test
// part of ceil(testSize*n) rows followed by a train part of
// floor(trainSize*n) rows. Rows left over are dropped.
func TrainTestSplit(x Frame, y []float64, trainSize, testSize float64, seed int64) (xTrain, xTest Frame, yTrain, yTest []float64, err error) {
	n := x.Len()
	if len(y) != n {
		return Frame{}, Frame{}, nil, nil, fmt.Errorf("split: %d feature rows but %d targets", n, len(y))
	}
	trainIdx, testIdx, err := shuffleSplit(n, trainSize, testSize, seed)
	if err != nil {
		return Frame{}, Frame{}, nil, nil, err
	}
	return x.Take(trainIdx), x.Take(testIdx), take(y, trainIdx), take(y, testIdx), nil
}

func shuffleSplit(n int, trainSize, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("split: test size %v must be in (0, 1)", testSize)
	}
	if trainSize <= 0 || trainSize >= 1 {
		return nil, nil, fmt.Errorf("split: train size %v must be in (0, 1)", trainSize)
	}
	if trainSize+testSize > 1 {
		return nil, nil, fmt.Errorf("split: train size %v plus test size %v exceeds 1", trainSize, testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := int(math.Floor(trainSize * float64(n)))
	if nTrain == 0 || nTest == 0 {
		return nil, nil, fmt.Errorf("split: %d rows at train size %v, test size %v leaves an empty partition", n, trainSize, testSize)
	}
	if nTrain+nTest > n {
		return nil, nil, fmt.Errorf("split: %d train + %d test rows exceed %d rows", nTrain, nTest, n)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest : nTest+nTrain], perm[:nTest], nil
}

// Partitions is the result of TrainTestValidateSplit. The i-th row of each
// X partition pairs with the i-th value of the matching Y partition.
type Partitions struct {
	XTrain, XValidate, XTest Frame
	YTrain, YValidate, YTest []float64
}

// TrainTestValidateSplit separates training rows from a validate+test pool
// of validateSize+testSize, then splits the pool using validateSize and
// testSize unchanged as the second split's train and test sizes. The sizes
// are not rescaled to the pool, so at 0.6/0.2/0.2 over 100 rows the pool
// of 40 yields 8 validation and 8 test rows.
func TrainTestValidateSplit(x Frame, y []float64, trainSize, validateSize, testSize float64, seed int64) (Partitions, error) {
	xTrain, xPool, yTrain, yPool, err := TrainTestSplit(x, y, trainSize, validateSize+testSize, seed)
	if err != nil {
		return Partitions{}, fmt.Errorf("train split: %w", err)
	}
	xValidate, xTest, yValidate, yTest, err := TrainTestSplit(xPool, yPool, validateSize, testSize, seed)
	if err != nil {
		return Partitions{}, fmt.Errorf("validate/test split: %w", err)
	}
	return Partitions{
		XTrain: xTrain, XValidate: xValidate, XTest: xTest,
		YTrain: yTrain, YValidate: yValidate, YTest: yTest,
	}, nil
}
