/*
DESCRIPTION
  observations.go provides the Observations type, which holds identified arc
  lines as parallel pixel, wavelength and order sequences.

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

// Package calibration derives a two-dimensional wavelength solution for a
// cross-dispersed (echelle) spectrograph. Identified arc lines, each with a
// pixel position, an echelle order and a reference wavelength, are fitted with
// a single polynomial surface in (pixel, order) using linear least squares and
// iterative sigma clipping. The quantity fitted is wavelength*order, which the
// grating equation makes a smooth function of pixel position across orders.
package calibration

import (
	"fmt"
	"math"
)

// Observations holds identified arc lines. The three slices are parallel; the
// i'th line has position Pixel[i], reference wavelength Wavelength[i] and
// echelle order Order[i].
type Observations struct {
	Pixel, Wavelength []float64
	Order             []int
}

// NewObservations returns a new Observations with capacity for n lines.
func NewObservations(n int) *Observations {
	return &Observations{
		Pixel:      make([]float64, 0, n),
		Wavelength: make([]float64, 0, n),
		Order:      make([]int, 0, n),
	}
}

// Add adds an identified line.
func (o *Observations) Add(pixel, wavelength float64, order int) {
	o.Pixel = append(o.Pixel, pixel)
	o.Wavelength = append(o.Wavelength, wavelength)
	o.Order = append(o.Order, order)
}

// Len returns the number of lines.
func (o *Observations) Len() int { return len(o.Pixel) }

// Validate checks that the sequences have equal, non-zero length, that the
// orders are positive and that all values are finite.
func (o *Observations) Validate() error {
	n := len(o.Pixel)
	if n == 0 {
		return fmt.Errorf("%w: no observations", ErrDomain)
	}
	if len(o.Wavelength) != n || len(o.Order) != n {
		return fmt.Errorf("%w: unequal lengths (pixel %d, wavelength %d, order %d)",
			ErrDomain, n, len(o.Wavelength), len(o.Order))
	}
	for i := 0; i < n; i++ {
		if o.Order[i] <= 0 {
			return fmt.Errorf("%w: line %d has non-positive order %d", ErrDomain, i, o.Order[i])
		}
		if !finite(o.Pixel[i]) || !finite(o.Wavelength[i]) {
			return fmt.Errorf("%w: line %d has non-finite value", ErrDomain, i)
		}
	}
	return nil
}

// target returns wavelength*order for each line.
func (o *Observations) target() []float64 {
	t := make([]float64, len(o.Wavelength))
	for i, w := range o.Wavelength {
		t[i] = w * float64(o.Order[i])
	}
	return t
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
