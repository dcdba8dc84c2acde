package models

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression is ordinary least squares with an optional L2 penalty.
// The intercept is fit on centred data and never penalised.
type LinearRegression struct {
	Alpha     float64
	Coef      []float64
	Intercept float64
}

func NewLinearRegression() *LinearRegression {
	return &LinearRegression{Alpha: 1e-3}
}

func (lr *LinearRegression) Name() string { return "LinearRegression" }

func (lr *LinearRegression) Fit(X [][]float64, y []float64) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	n, p := len(X), len(X[0])
	if p == 0 {
		return errors.New("linear regression needs at least one feature")
	}
	if err := checkWidth(X, p); err != nil {
		return err
	}

	xMean := make([]float64, p)
	yMean := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			xMean[j] += X[i][j]
		}
		yMean += y[i]
	}
	for j := range xMean {
		xMean[j] /= float64(n)
	}
	yMean /= float64(n)

	A := mat.NewDense(n, p, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			A.Set(i, j, X[i][j]-xMean[j])
		}
		b.SetVec(i, y[i]-yMean)
	}

	var gram mat.Dense
	gram.Mul(A.T(), A)
	for j := 0; j < p; j++ {
		gram.Set(j, j, gram.At(j, j)+lr.Alpha)
	}
	var rhs mat.VecDense
	rhs.MulVec(A.T(), b)

	var coef mat.VecDense
	if err := coef.SolveVec(&gram, &rhs); err != nil {
		return fmt.Errorf("solve normal equations: %w", err)
	}

	lr.Coef = make([]float64, p)
	lr.Intercept = yMean
	for j := 0; j < p; j++ {
		lr.Coef[j] = coef.AtVec(j)
		lr.Intercept -= lr.Coef[j] * xMean[j]
	}
	return nil
}

func (lr *LinearRegression) Predict(X [][]float64) ([]float64, error) {
	if lr.Coef == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(lr.Coef)); err != nil {
		return nil, err
	}
	if len(X) == 0 {
		return []float64{}, nil
	}
	A := mat.NewDense(len(X), len(lr.Coef), nil)
	for i := range X {
		A.SetRow(i, X[i])
	}
	var out mat.VecDense
	out.MulVec(A, mat.NewVecDense(len(lr.Coef), lr.Coef))
	preds := make([]float64, len(X))
	for i := range preds {
		preds[i] = out.AtVec(i) + lr.Intercept
	}
	return preds, nil
}
