/*
DESCRIPTION
  model.go provides the fitted two-dimensional wavelength solution.

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

	"gonum.org/v1/gonum/floats"
)

// Model is a fitted wavelength solution. It evaluates wavelength*order at any
// (pixel, order) pair. A Model is immutable; accessors return copies.
type Model struct {
	basis      Basis
	coeffs     []float64
	totalPixel float64
}

// NewModel returns a Model from a basis, its coefficients and the total pixel
// count used to normalise pixel positions. The coefficients are ordered as the
// basis terms, so len(coeffs) must equal basis.Len().
func NewModel(basis Basis, coeffs []float64, totalPixel float64) (*Model, error) {
	if basis.Family == nil {
		return nil, fmt.Errorf("%w: no basis family", ErrConfiguration)
	}
	if basis.DegreeX < 0 || basis.DegreeY < 0 {
		return nil, fmt.Errorf("%w: negative degree (%d, %d)", ErrConfiguration, basis.DegreeX, basis.DegreeY)
	}
	if len(coeffs) != basis.Len() {
		return nil, fmt.Errorf("%w: %d coefficients for %d basis terms", ErrConfiguration, len(coeffs), basis.Len())
	}
	if totalPixel <= 1 {
		return nil, fmt.Errorf("%w: total pixel count must be > 1, got %v", ErrDomain, totalPixel)
	}
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	return &Model{basis: basis, coeffs: c, totalPixel: totalPixel}, nil
}

// Family returns the basis family of the model.
func (m *Model) Family() Family { return m.basis.Family }

// Degrees returns the polynomial degrees in pixel and in order.
func (m *Model) Degrees() (pixel, order int) { return m.basis.DegreeX, m.basis.DegreeY }

// Domains returns the normalised pixel domain and the order domain.
func (m *Model) Domains() (pixel, order Domain) { return m.basis.DomainX, m.basis.DomainY }

// TotalPixel returns the detector extent used to normalise pixel positions.
func (m *Model) TotalPixel() float64 { return m.totalPixel }

// Coefficients returns a copy of the coefficients, ordered row-major over
// (pixel degree, order degree).
func (m *Model) Coefficients() []float64 {
	c := make([]float64, len(m.coeffs))
	copy(c, m.coeffs)
	return c
}

// Coefficient returns the coefficient of P[i](pixel)*P[j](order). It returns
// ErrDomain if i or j is outside the degrees of the model.
func (m *Model) Coefficient(i, j int) (float64, error) {
	if i < 0 || i > m.basis.DegreeX || j < 0 || j > m.basis.DegreeY {
		return 0, fmt.Errorf("%w: no coefficient (%d, %d) for degrees (%d, %d)", ErrDomain, i, j, m.basis.DegreeX, m.basis.DegreeY)
	}
	return m.coeffs[i*(m.basis.DegreeY+1)+j], nil
}

// EvalNorm evaluates the model at normalised pixel position x and order y.
func (m *Model) EvalNorm(x, y float64) float64 {
	t := make([]float64, m.basis.Len())
	m.basis.Eval(t, x, y)
	return floats.Dot(t, m.coeffs)
}

// Eval evaluates the model in wavelength*order units at raw pixel positions
// and orders. Dividing by order to recover wavelength is left to the caller.
func (m *Model) Eval(pixel []float64, order []int) ([]float64, error) {
	if len(pixel) != len(order) {
		return nil, fmt.Errorf("%w: %d pixels for %d orders", ErrDomain, len(pixel), len(order))
	}
	out := make([]float64, len(pixel))
	t := make([]float64, m.basis.Len())
	px := make([]float64, m.basis.DegreeX+1)
	py := make([]float64, m.basis.DegreeY+1)
	for i := range pixel {
		m.basis.eval(t, px, py, pixel[i]/(m.totalPixel-1), float64(order[i]))
		out[i] = floats.Dot(t, m.coeffs)
	}
	return out, nil
}

// Wavelength returns the model wavelength at a raw pixel position in an order.
func (m *Model) Wavelength(pixel float64, order int) float64 {
	return m.EvalNorm(pixel/(m.totalPixel-1), float64(order)) / float64(order)
}

// String returns a short description of the model.
func (m *Model) String() string {
	return fmt.Sprintf("%s degree (%d, %d), pixel domain [%g, %g], order domain [%g, %g]",
		m.basis.Family.Name(), m.basis.DegreeX, m.basis.DegreeY,
		m.basis.DomainX.Min, m.basis.DomainX.Max, m.basis.DomainY.Min, m.basis.DomainY.Max)
}
