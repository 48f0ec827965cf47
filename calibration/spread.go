/*
DESCRIPTION
  spread.go provides estimators of the spread of fit residuals.

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
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Spread is an estimator of the spread of residuals used for clipping.
type Spread int

// Spread estimators.
const (
	// StdDev is the sample standard deviation.
	StdDev Spread = iota

	// MAD is the median absolute deviation about the median, scaled by 1.4826
	// to match the standard deviation of normally distributed residuals.
	MAD
)

// madScale converts a median absolute deviation into a standard deviation
// for normally distributed values.
const madScale = 1.482602218505602

func (s Spread) String() string {
	switch s {
	case StdDev:
		return "stddev"
	case MAD:
		return "mad"
	default:
		return "unknown"
	}
}

// Estimate returns the spread of r. Fewer than two values have no spread.
func (s Spread) Estimate(r []float64) float64 {
	if len(r) < 2 {
		return 0
	}
	switch s {
	case MAD:
		m := median(r)
		dev := make([]float64, len(r))
		for i, v := range r {
			dev[i] = math.Abs(v - m)
		}
		return madScale * median(dev)
	default:
		_, sd := stat.MeanStdDev(r, nil)
		return sd
	}
}

// median returns the median of v, averaging the middle pair for even lengths.
// v is not modified.
func median(v []float64) float64 {
	s := make([]float64, len(v))
	copy(s, v)
	sort.Float64s(s)
	lo := stat.Quantile(0.5, stat.Empirical, s, nil)
	if len(s)%2 == 1 {
		return lo
	}
	return (lo + s[len(s)/2]) / 2
}
