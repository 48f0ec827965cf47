/*
DESCRIPTION
  domain.go provides coordinate normalisation of pixel positions and orders
  into the domains used for fitting.

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

	"gonum.org/v1/gonum/floats"
)

// Domain is the range of an independent variable over which a polynomial
// basis is defined. Values are mapped linearly from [Min, Max] to [-1, 1]
// before the basis is evaluated.
type Domain struct {
	Min, Max float64
}

// PixelDomain is the domain of normalised pixel positions.
var PixelDomain = Domain{Min: 0, Max: 1}

// Scale maps v from the domain to [-1, 1]. A degenerate domain (Min == Max)
// maps every value to 0, so only the constant term of a basis is non-trivial.
func (d Domain) Scale(v float64) float64 {
	w := d.Max - d.Min
	if w == 0 {
		return 0
	}
	return 2*(v-d.Min)/w - 1
}

// Degenerate returns true if the domain has zero width.
func (d Domain) Degenerate() bool { return d.Max == d.Min }

// Normalize maps raw pixel positions to [0, 1] by dividing by totalPixel-1, so
// that a given polynomial degree behaves the same whatever the detector
// binning. It also returns the pixel domain and the order domain, which is
// [min(order), max(order)] in natural order units.
func Normalize(pixel []float64, order []int, totalPixel float64) ([]float64, Domain, Domain, error) {
	if math.IsNaN(totalPixel) || totalPixel <= 1 {
		return nil, Domain{}, Domain{}, fmt.Errorf("%w: total pixel count must be > 1, got %v", ErrDomain, totalPixel)
	}
	if len(order) == 0 {
		return nil, Domain{}, Domain{}, fmt.Errorf("%w: no orders", ErrDomain)
	}

	norm := make([]float64, len(pixel))
	copy(norm, pixel)
	floats.Scale(1/(totalPixel-1), norm)

	o := orderFloats(order)
	return norm, PixelDomain, Domain{Min: floats.Min(o), Max: floats.Max(o)}, nil
}

// orderFloats returns the orders as float64 values.
func orderFloats(order []int) []float64 {
	o := make([]float64, len(order))
	for i, v := range order {
		o[i] = float64(v)
	}
	return o
}
