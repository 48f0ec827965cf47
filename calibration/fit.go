/*
DESCRIPTION
  fit.go provides the robust two-dimensional fit: repeated linear least
  squares with sigma clipping of outlying lines until the set of rejected
  lines stops changing.

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
	"io"
	"math"

	"github.com/ausocean/utils/logging"
	"gonum.org/v1/gonum/floats"
)

// floorTol is the residual, relative to the largest wavelength, below which a
// line is never rejected. It stops rounding noise in an exact fit from being
// clipped against a vanishing spread.
const floorTol = 1e-8

// Result holds the outcome of a robust fit.
type Result struct {
	// Model is the final fitted model.
	Model *Model

	// Mask holds one entry per observation; true means the line was rejected
	// and is not part of the fit that produced Model.
	Mask []bool

	// Converged is false if clipping stopped because the iteration budget was
	// exhausted before the mask stabilised. Model and Mask are still usable.
	Converged bool

	// Iterations is the number of least-squares fits performed.
	Iterations int

	// Residuals holds Model(pixel, order)/order - wavelength for every line,
	// including rejected ones.
	Residuals []float64
}

// Rejected returns the indices of rejected lines.
func (r *Result) Rejected() []int {
	var idx []int
	for i, m := range r.Mask {
		if m {
			idx = append(idx, i)
		}
	}
	return idx
}

// fitter holds the fit configuration.
type fitter struct {
	degreeX, degreeY int
	family           Family
	sigma            float64
	maxIter          int
	spread           Spread
	solver           Solver
	weights          []float64
	initMask         []bool
	log              logging.Logger
}

func newFitter(opts ...Option) (*fitter, error) {
	f := &fitter{
		degreeX: DefaultPixelDegree,
		degreeY: DefaultOrderDegree,
		family:  Legendre{},
		sigma:   DefaultSigma,
		maxIter: DefaultMaxIterations,
		spread:  StdDev,
		solver:  QRSolver{},
	}
	for i, opt := range opts {
		err := opt(f)
		if err != nil {
			return nil, fmt.Errorf("could not apply option %d: %w", i, err)
		}
	}
	if f.log == nil {
		f.log = logging.New(logging.Info, io.Discard, true)
	}
	return f, nil
}

// Fit fits a two-dimensional polynomial in normalised pixel position and order
// to wavelength*order of the observed lines, rejecting outliers by iterative
// sigma clipping. totalPixel is the detector extent along the dispersion
// direction.
//
// Each iteration fits the currently included lines, then re-evaluates every
// line against the new model: lines whose residual exceeds sigma times the
// spread of the included residuals are rejected and all others are included,
// so a rejection is never permanent. Clipping stops when the mask is unchanged
// or after the maximum number of iterations, in which case Result.Converged
// is false.
//
// Configuration and input problems are reported before any fitting with
// ErrConfiguration or ErrDomain. A rank-deficient or under-determined fit at
// any iteration aborts with ErrSingularFit.
func Fit(obs Observations, totalPixel float64, opts ...Option) (*Result, error) {
	f, err := newFitter(opts...)
	if err != nil {
		return nil, err
	}

	l, err := newLoop(f, obs, totalPixel)
	if err != nil {
		return nil, err
	}
	n := obs.Len()

	f.log.Debug("starting fit", "family", f.family.Name(), "pixelDegree", f.degreeX, "orderDegree", f.degreeY,
		"lines", n, "terms", l.basis.Len(), "sigma", f.sigma, "spread", f.spread.String())

	for !l.done() {
		err = l.step()
		if err != nil {
			return nil, fmt.Errorf("fit failed at iteration %d: %w", l.fits, err)
		}
	}

	res := &Result{
		Model:      l.model,
		Mask:       l.mask,
		Converged:  l.state == stateConverged,
		Iterations: l.fits,
		Residuals:  l.resid,
	}
	if !res.Converged {
		f.log.Warning("fit did not converge, using last model", "iterations", l.fits, "rejected", len(res.Rejected()))
	} else {
		f.log.Debug("fit converged", "iterations", l.fits, "rejected", len(res.Rejected()))
	}
	return res, nil
}

// state is the state of the clipping loop.
type state int

const (
	stateFitting state = iota
	stateClipping
	stateConverged
	stateExhausted
)

func (s state) String() string {
	switch s {
	case stateFitting:
		return "fitting"
	case stateClipping:
		return "clipping"
	case stateConverged:
		return "converged"
	case stateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// loop is the clipping state machine. mask is only replaced between a
// clipping step and the following fitting step.
type loop struct {
	*fitter
	basis      Basis
	totalPixel float64

	x, y, target, wavelength []float64

	state state
	mask  []bool    // Mask used for the current model.
	model *Model    // Model fitted to the points included by mask.
	resid []float64 // Residuals of all points against model.
	count int       // Clipping iterations that changed the mask.
	fits  int       // Least-squares fits performed.
	floor float64   // Residuals at or below floor are never rejected.
}

// newLoop validates the input and returns a loop ready to make its first fit.
func newLoop(f *fitter, obs Observations, totalPixel float64) (*loop, error) {
	err := obs.Validate()
	if err != nil {
		return nil, err
	}
	n := obs.Len()
	if f.weights != nil && len(f.weights) != n {
		return nil, fmt.Errorf("%w: %d weights for %d observations", ErrConfiguration, len(f.weights), n)
	}
	if f.initMask != nil && len(f.initMask) != n {
		return nil, fmt.Errorf("%w: initial mask has length %d for %d observations", ErrConfiguration, len(f.initMask), n)
	}

	x, px, py, err := Normalize(obs.Pixel, obs.Order, totalPixel)
	if err != nil {
		return nil, err
	}

	l := &loop{
		fitter:     f,
		basis:      Basis{Family: f.family, DegreeX: f.degreeX, DegreeY: f.degreeY, DomainX: px, DomainY: py},
		totalPixel: totalPixel,
		x:          x,
		y:          orderFloats(obs.Order),
		target:     obs.target(),
		wavelength: obs.Wavelength,
		mask:       make([]bool, n),
		floor:      floorTol * floats.Norm(obs.Wavelength, math.Inf(1)),
	}
	if f.initMask != nil {
		copy(l.mask, f.initMask)
	}
	return l, nil
}

func (l *loop) done() bool {
	return l.state == stateConverged || l.state == stateExhausted
}

// step performs one state transition.
func (l *loop) step() error {
	switch l.state {
	case stateFitting:
		err := l.fit()
		if err != nil {
			return err
		}
		l.state = stateClipping

	case stateClipping:
		next := l.clip()
		if equalMasks(next, l.mask) {
			l.state = stateConverged
			return nil
		}
		l.count++
		if l.count >= l.maxIter {
			l.state = stateExhausted
			return nil
		}
		l.mask = next
		l.state = stateFitting

	default:
		return fmt.Errorf("step called in terminal state %s", l.state)
	}
	return nil
}

// fit solves for the coefficients using the included points and computes the
// residuals of every point.
func (l *loop) fit() error {
	a, b, w, err := designMatrix(l.basis, l.x, l.y, l.target, l.weights, l.mask)
	if err != nil {
		return err
	}
	c, err := l.solver.Solve(a, b, w)
	if err != nil {
		return err
	}
	l.fits++

	l.model, err = NewModel(l.basis, c.RawVector().Data, l.totalPixel)
	if err != nil {
		return fmt.Errorf("could not create model: %w", err)
	}

	if l.resid == nil {
		l.resid = make([]float64, len(l.x))
	}
	for i := range l.x {
		l.resid[i] = l.model.EvalNorm(l.x[i], l.y[i])/l.y[i] - l.wavelength[i]
	}
	return nil
}

// clip returns a new mask rejecting points whose residual exceeds sigma times
// the spread of the residuals of the points included in the current fit.
func (l *loop) clip() []bool {
	var inc []float64
	for i, r := range l.resid {
		if !l.mask[i] {
			inc = append(inc, r)
		}
	}
	thresh := math.Max(l.sigma*l.spread.Estimate(inc), l.floor)

	next := make([]bool, len(l.resid))
	var n int
	for i, r := range l.resid {
		next[i] = math.Abs(r) > thresh
		if next[i] {
			n++
		}
	}
	l.log.Debug("clipped residuals", "iteration", l.count, "threshold", thresh, "rejected", n)
	return next
}

func equalMasks(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
