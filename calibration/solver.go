/*
DESCRIPTION
  solver.go provides linear least-squares solvers for the polynomial
  coefficients, and construction of the design matrix.

AUTHORS
  The arc2d authors

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean)

  It is free software: you can redistribute it and/or modify them
  under the terms of the GNU General Public License as published by the
  Free Software Foundation, either version 3 of the License, or (at your
  option) any later version.

  It is distributed in the hope that it will be useful, but WITHOUT
  ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
  FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License
  for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt. If not, see http://www.gnu.org/licenses.
*/

package calibration

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// rankTol is the relative size below which a singular value, or a diagonal
// element of R, is treated as zero.
const rankTol = 1e-10

// Solver solves the linear least-squares problem min ||W^½(Ac - b)|| for the
// coefficients c. weights may be nil, in which case all rows are weighted
// equally.
type Solver interface {
	Solve(a *mat.Dense, b *mat.VecDense, weights []float64) (*mat.VecDense, error)
}

// QRSolver solves using a QR factorisation of A. It is the default solver.
type QRSolver struct{}

// Solve implements Solver.
func (QRSolver) Solve(a *mat.Dense, b *mat.VecDense, weights []float64) (*mat.VecDense, error) {
	a, b, err := prepare(a, b, weights)
	if err != nil {
		return nil, err
	}
	_, n := a.Dims()

	qr := new(mat.QR)
	qr.Factorize(a)

	var r mat.Dense
	qr.RTo(&r)
	var max float64
	for i := 0; i < n; i++ {
		max = math.Max(max, math.Abs(r.At(i, i)))
	}
	for i := 0; i < n; i++ {
		if math.Abs(r.At(i, i)) <= rankTol*max {
			return nil, fmt.Errorf("%w: design matrix is rank deficient (column %d)", ErrSingularFit, i)
		}
	}

	c := mat.NewVecDense(n, nil)
	err = qr.SolveVecTo(c, false, b)
	if err != nil {
		return nil, fmt.Errorf("%w: could not solve QR: %v", ErrSingularFit, err)
	}
	return c, nil
}

// SVDSolver solves using a thin singular value decomposition of A.
type SVDSolver struct{}

// Solve implements Solver.
func (SVDSolver) Solve(a *mat.Dense, b *mat.VecDense, weights []float64) (*mat.VecDense, error) {
	a, b, err := prepare(a, b, weights)
	if err != nil {
		return nil, err
	}
	_, n := a.Dims()

	svd := new(mat.SVD)
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, fmt.Errorf("%w: SVD factorisation failed", ErrSingularFit)
	}
	rank := svd.Rank(rankTol)
	if rank < n {
		return nil, fmt.Errorf("%w: design matrix has rank %d, need %d", ErrSingularFit, rank, n)
	}

	c := mat.NewVecDense(n, nil)
	svd.SolveVecTo(c, b, rank)
	return c, nil
}

// prepare checks the problem is not under-determined and applies weights,
// returning new matrices if any weighting was needed.
func prepare(a *mat.Dense, b *mat.VecDense, weights []float64) (*mat.Dense, *mat.VecDense, error) {
	m, n := a.Dims()
	if b.Len() != m {
		return nil, nil, fmt.Errorf("%w: target has length %d, design matrix has %d rows", ErrDomain, b.Len(), m)
	}
	if m < n {
		return nil, nil, fmt.Errorf("%w: %d points for %d coefficients", ErrSingularFit, m, n)
	}
	if weights == nil {
		return a, b, nil
	}
	if len(weights) != m {
		return nil, nil, fmt.Errorf("%w: %d weights for %d points", ErrConfiguration, len(weights), m)
	}

	wa := mat.DenseCopyOf(a)
	wb := mat.VecDenseCopyOf(b)
	for i, w := range weights {
		if w < 0 || !finite(w) {
			return nil, nil, fmt.Errorf("%w: invalid weight %v for point %d", ErrConfiguration, w, i)
		}
		s := math.Sqrt(w)
		row := wa.RawRowView(i)
		for j := range row {
			row[j] *= s
		}
		wb.SetVec(i, s*wb.AtVec(i))
	}
	return wa, wb, nil
}

// designMatrix builds the design matrix and target vector from the points not
// rejected by mask. It also returns the weights of the included points, or nil
// if weights is nil.
func designMatrix(basis Basis, x, y, target, weights []float64, mask []bool) (*mat.Dense, *mat.VecDense, []float64, error) {
	var idx []int
	for i := range x {
		if !mask[i] {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: no points included", ErrSingularFit)
	}

	n := basis.Len()
	a := mat.NewDense(len(idx), n, nil)
	b := mat.NewVecDense(len(idx), nil)
	var w []float64
	if weights != nil {
		w = make([]float64, len(idx))
	}
	px := make([]float64, basis.DegreeX+1)
	py := make([]float64, basis.DegreeY+1)
	for r, i := range idx {
		basis.eval(a.RawRowView(r), px, py, x[i], y[i])
		b.SetVec(r, target[i])
		if w != nil {
			w[r] = weights[i]
		}
	}
	return a, b, w, nil
}
