/*
DESCRIPTION
  options.go provides options for configuring a fit.

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

	"github.com/ausocean/utils/logging"
)

// Fit defaults.
const (
	DefaultPixelDegree   = 3
	DefaultOrderDegree   = 4
	DefaultSigma         = 3.0
	DefaultMaxIterations = 100
)

// Option is the function signature returned by option functions below for
// use in Fit.
type Option func(*fitter) error

// WithDegrees returns an Option that sets the polynomial degree along the
// pixel (dispersion) direction and along the order direction.
func WithDegrees(pixel, order int) Option {
	return func(f *fitter) error {
		if pixel < 0 || order < 0 {
			return fmt.Errorf("%w: degrees must be >= 0, got (%d, %d)", ErrConfiguration, pixel, order)
		}
		f.degreeX, f.degreeY = pixel, order
		return nil
	}
}

// WithFamily returns an Option that sets the basis family.
func WithFamily(fam Family) Option {
	return func(f *fitter) error {
		if fam == nil {
			return fmt.Errorf("%w: nil basis family", ErrConfiguration)
		}
		f.family = fam
		return nil
	}
}

// WithFamilyName returns an Option that sets the basis family by name, one of
// FamilyNames.
func WithFamilyName(name string) Option {
	return func(f *fitter) error {
		fam, err := ParseFamily(name)
		if err != nil {
			return err
		}
		f.family = fam
		return nil
	}
}

// WithSigma returns an Option that sets the clipping threshold in units of
// the residual spread.
func WithSigma(sigma float64) Option {
	return func(f *fitter) error {
		if !(sigma > 0) || math.IsInf(sigma, 0) {
			return fmt.Errorf("%w: sigma must be positive, got %v", ErrConfiguration, sigma)
		}
		f.sigma = sigma
		return nil
	}
}

// WithMaxIterations returns an Option that sets the number of clipping
// iterations after which the fit stops without having converged.
func WithMaxIterations(n int) Option {
	return func(f *fitter) error {
		if n < 1 {
			return fmt.Errorf("%w: max iterations must be >= 1, got %d", ErrConfiguration, n)
		}
		f.maxIter = n
		return nil
	}
}

// WithSpread returns an Option that sets the residual spread estimator.
func WithSpread(s Spread) Option {
	return func(f *fitter) error {
		switch s {
		case StdDev, MAD:
		default:
			return fmt.Errorf("%w: unknown spread estimator %d", ErrConfiguration, s)
		}
		f.spread = s
		return nil
	}
}

// WithSolver returns an Option that sets the linear least-squares solver.
func WithSolver(s Solver) Option {
	return func(f *fitter) error {
		if s == nil {
			return fmt.Errorf("%w: nil solver", ErrConfiguration)
		}
		f.solver = s
		return nil
	}
}

// WithWeights returns an Option that sets per-line weights. There must be
// one weight per observation.
func WithWeights(w []float64) Option {
	return func(f *fitter) error {
		f.weights = w
		return nil
	}
}

// WithInitialMask returns an Option that starts clipping from the given mask
// rather than with every line included. There must be one entry per
// observation; true means rejected.
func WithInitialMask(mask []bool) Option {
	return func(f *fitter) error {
		f.initMask = mask
		return nil
	}
}

// WithLogger returns an Option that sets the logger used to report progress.
func WithLogger(l logging.Logger) Option {
	return func(f *fitter) error {
		f.log = l
		return nil
	}
}
