/*
DESCRIPTION
  basis_test.go provides testing for functionality in basis.go and domain.go.

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
	"errors"
	"math"
	"testing"
)

const tol = 1e-12

// TestFamilyTerms checks the univariate recurrences against closed forms.
func TestFamilyTerms(t *testing.T) {
	tests := []struct {
		fam  Family
		deg  int
		x    float64
		want float64
	}{
		{fam: Legendre{}, deg: 0, x: 0.3, want: 1},
		{fam: Legendre{}, deg: 1, x: 0.3, want: 0.3},
		{fam: Legendre{}, deg: 2, x: 0.5, want: -0.125},
		{fam: Legendre{}, deg: 3, x: 0.5, want: -0.4375},
		{fam: Legendre{}, deg: 4, x: 1, want: 1},
		{fam: Legendre{}, deg: 5, x: -1, want: -1},
		{fam: Chebyshev{}, deg: 0, x: 0.3, want: 1},
		{fam: Chebyshev{}, deg: 2, x: 0.5, want: -0.5},
		{fam: Chebyshev{}, deg: 3, x: 0.5, want: -1},
		{fam: Chebyshev{}, deg: 7, x: math.Cos(0.4), want: math.Cos(7 * 0.4)},
		{fam: Chebyshev{}, deg: 10, x: math.Cos(1.3), want: math.Cos(10 * 1.3)},
	}

	for i, test := range tests {
		got := test.fam.Term(test.deg, test.x)
		if math.Abs(got-test.want) > tol {
			t.Errorf("did not get expected term for test %d (%s degree %d). Got: %v, Want: %v",
				i, test.fam.Name(), test.deg, got, test.want)
		}
	}
}

// TestParseFamily checks that only the known family names are accepted.
func TestParseFamily(t *testing.T) {
	for _, name := range FamilyNames {
		fam, err := ParseFamily(name)
		if err != nil {
			t.Errorf("did not expect error for %q: %v", name, err)
			continue
		}
		if fam.Name() != name {
			t.Errorf("did not get expected family. Got: %s, Want: %s", fam.Name(), name)
		}
	}

	for _, name := range []string{"", "legendre", "polynomial2d", "spline3"} {
		_, err := ParseFamily(name)
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("did not get expected error for %q. Got: %v, Want: %v", name, err, ErrConfiguration)
		}
	}
}

// TestBasisOrdering checks that basis terms are ordered row-major over
// (pixel degree, order degree).
func TestBasisOrdering(t *testing.T) {
	b := Basis{
		Family:  Legendre{},
		DegreeX: 1,
		DegreeY: 2,
		DomainX: PixelDomain,
		DomainY: Domain{Min: 3, Max: 8},
	}
	if b.Len() != 6 {
		t.Fatalf("did not get expected basis length. Got: %d, Want: 6", b.Len())
	}

	const x, y = 0.75, 4.0
	xs, ys := 0.5, -0.6
	p2 := (3*ys*ys - 1) / 2
	want := []float64{1, ys, p2, xs, xs * ys, xs * p2}

	got := make([]float64, b.Len())
	b.Eval(got, x, y)
	for i := range want {
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("did not get expected term %d. Got: %v, Want: %v", i, got[i], want[i])
		}
	}
}

// TestDomainScale checks the mapping of domains onto [-1, 1].
func TestDomainScale(t *testing.T) {
	tests := []struct {
		d    Domain
		v    float64
		want float64
	}{
		{d: PixelDomain, v: 0, want: -1},
		{d: PixelDomain, v: 1, want: 1},
		{d: PixelDomain, v: 0.25, want: -0.5},
		{d: Domain{Min: 3, Max: 8}, v: 5.5, want: 0},
		{d: Domain{Min: 5, Max: 5}, v: 5, want: 0},
		{d: Domain{Min: 5, Max: 5}, v: 7, want: 0},
	}

	for i, test := range tests {
		got := test.d.Scale(test.v)
		if math.Abs(got-test.want) > tol {
			t.Errorf("did not get expected scaled value for test %d. Got: %v, Want: %v", i, got, test.want)
		}
	}
}

// TestNormalize checks pixel normalisation, the order domain and the
// rejection of degenerate input.
func TestNormalize(t *testing.T) {
	norm, px, od, err := Normalize([]float64{0, 511.5, 1023}, []int{7, 3, 5}, 1024)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	want := []float64{0, 0.5, 1}
	for i := range want {
		if math.Abs(norm[i]-want[i]) > tol {
			t.Errorf("did not get expected normalised pixel %d. Got: %v, Want: %v", i, norm[i], want[i])
		}
	}
	if px != PixelDomain {
		t.Errorf("did not get expected pixel domain. Got: %v, Want: %v", px, PixelDomain)
	}
	if od != (Domain{Min: 3, Max: 7}) {
		t.Errorf("did not get expected order domain. Got: %v", od)
	}

	tests := []struct {
		order []int
		total float64
	}{
		{order: []int{3}, total: 1},
		{order: []int{3}, total: 0},
		{order: []int{3}, total: math.NaN()},
		{order: nil, total: 1024},
	}
	for i, test := range tests {
		_, _, _, err := Normalize([]float64{1}, test.order, test.total)
		if !errors.Is(err, ErrDomain) {
			t.Errorf("did not get expected error for test %d. Got: %v, Want: %v", i, err, ErrDomain)
		}
	}
}

// TestValidate checks validation of observations.
func TestValidate(t *testing.T) {
	tests := []struct {
		obs  Observations
		want error
	}{
		{obs: Observations{Pixel: []float64{1}, Wavelength: []float64{1}, Order: []int{3}}},
		{obs: Observations{}, want: ErrDomain},
		{obs: Observations{Pixel: []float64{1, 2}, Wavelength: []float64{1}, Order: []int{3, 3}}, want: ErrDomain},
		{obs: Observations{Pixel: []float64{1}, Wavelength: []float64{1}, Order: []int{0}}, want: ErrDomain},
		{obs: Observations{Pixel: []float64{math.NaN()}, Wavelength: []float64{1}, Order: []int{3}}, want: ErrDomain},
		{obs: Observations{Pixel: []float64{1}, Wavelength: []float64{math.Inf(1)}, Order: []int{3}}, want: ErrDomain},
	}

	for i, test := range tests {
		err := test.obs.Validate()
		if !errors.Is(err, test.want) {
			t.Errorf("did not get expected error for test %d. Got: %v, Want: %v", i, err, test.want)
		}
	}
}
