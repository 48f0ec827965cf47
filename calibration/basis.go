/*
DESCRIPTION
  basis.go provides the Legendre and Chebyshev polynomial families and the
  two-dimensional basis built from them.

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
	"strings"
)

// Basis family names.
const (
	NameLegendre  = "legendre2d"
	NameChebyshev = "chebyshev2d"
)

// FamilyNames holds every valid basis family name.
var FamilyNames = []string{NameLegendre, NameChebyshev}

// Family is a univariate orthogonal polynomial family on [-1, 1].
type Family interface {
	// Name returns the family name, e.g. "legendre2d".
	Name() string

	// Term returns the polynomial of the given degree evaluated at x.
	Term(degree int, x float64) float64

	// Terms fills dst[k] with the polynomial of degree k evaluated at x, for
	// k < len(dst).
	Terms(dst []float64, x float64)
}

// Legendre is the Legendre polynomial family.
type Legendre struct{}

func (Legendre) Name() string { return NameLegendre }

func (l Legendre) Term(degree int, x float64) float64 { return term(l, degree, x) }

// Terms uses the recurrence (k+1)P[k+1] = (2k+1)xP[k] - kP[k-1].
func (Legendre) Terms(dst []float64, x float64) {
	if len(dst) == 0 {
		return
	}
	dst[0] = 1
	if len(dst) == 1 {
		return
	}
	dst[1] = x
	for k := 1; k+1 < len(dst); k++ {
		fk := float64(k)
		dst[k+1] = ((2*fk+1)*x*dst[k] - fk*dst[k-1]) / (fk + 1)
	}
}

// Chebyshev is the Chebyshev polynomial family of the first kind.
type Chebyshev struct{}

func (Chebyshev) Name() string { return NameChebyshev }

func (c Chebyshev) Term(degree int, x float64) float64 { return term(c, degree, x) }

// Terms uses the recurrence T[k+1] = 2xT[k] - T[k-1].
func (Chebyshev) Terms(dst []float64, x float64) {
	if len(dst) == 0 {
		return
	}
	dst[0] = 1
	if len(dst) == 1 {
		return
	}
	dst[1] = x
	for k := 1; k+1 < len(dst); k++ {
		dst[k+1] = 2*x*dst[k] - dst[k-1]
	}
}

func term(f Family, degree int, x float64) float64 {
	if degree < 0 {
		return 0
	}
	t := make([]float64, degree+1)
	f.Terms(t, x)
	return t[degree]
}

// ParseFamily returns the Family with the given name.
func ParseFamily(name string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameLegendre:
		return Legendre{}, nil
	case NameChebyshev:
		return Chebyshev{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown fit function %q, possible values are %v", ErrConfiguration, name, FamilyNames)
	}
}

// Basis is a two-dimensional tensor-product polynomial basis. Term
// d1*(DegreeY+1)+d2 is P[d1](x') * P[d2](y'), where x' and y' are x and y
// scaled from their domains to [-1, 1].
type Basis struct {
	Family           Family
	DegreeX, DegreeY int
	DomainX, DomainY Domain
}

// Len returns the number of basis terms.
func (b Basis) Len() int { return (b.DegreeX + 1) * (b.DegreeY + 1) }

// Eval writes the basis terms at (x, y) into dst, which must have length
// b.Len().
func (b Basis) Eval(dst []float64, x, y float64) {
	px := make([]float64, b.DegreeX+1)
	py := make([]float64, b.DegreeY+1)
	b.eval(dst, px, py, x, y)
}

// eval is Eval with caller-provided scratch space.
func (b Basis) eval(dst, px, py []float64, x, y float64) {
	b.Family.Terms(px, b.DomainX.Scale(x))
	b.Family.Terms(py, b.DomainY.Scale(y))
	k := 0
	for _, vx := range px {
		for _, vy := range py {
			dst[k] = vx * vy
			k++
		}
	}
}
