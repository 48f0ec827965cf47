/*
DESCRIPTION
  concurrent_test.go provides testing for functionality in concurrent.go.

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
	"testing"

	"gonum.org/v1/gonum/floats"
)

// TestFitAll checks that independent fits run concurrently return their
// outcomes in job order.
func TestFitAll(t *testing.T) {
	leg, _ := synthetic(t, Legendre{})
	cheb, _ := synthetic(t, Chebyshev{})

	jobs := []Job{
		{Name: "legendre", Obs: leg, TotalPixel: totalPixel},
		{Name: "chebyshev", Obs: cheb, TotalPixel: totalPixel, Options: []Option{WithFamily(Chebyshev{})}},
		{Name: "bad", Obs: leg, TotalPixel: 1},
		{Name: "clipped", Obs: perturb(leg, 50, 30), TotalPixel: totalPixel, Options: []Option{WithSpread(MAD)}},
	}

	out := FitAll(jobs)
	if len(out) != len(jobs) {
		t.Fatalf("did not get expected outcome count. Got: %d, Want: %d", len(out), len(jobs))
	}
	for i := range jobs {
		if out[i].Name != jobs[i].Name {
			t.Errorf("did not get expected outcome order at %d. Got: %s, Want: %s", i, out[i].Name, jobs[i].Name)
		}
	}

	for _, i := range []int{0, 1, 3} {
		if out[i].Err != nil {
			t.Errorf("did not expect error for %s: %v", out[i].Name, out[i].Err)
			continue
		}
		if !floats.EqualApprox(out[i].Result.Model.Coefficients(), trueCoeffs(), 1e-6) {
			t.Errorf("did not get expected coefficients for %s", out[i].Name)
		}
	}
	if !errors.Is(out[2].Err, ErrDomain) {
		t.Errorf("did not get expected error for bad job. Got: %v, Want: %v", out[2].Err, ErrDomain)
	}
	if got := out[3].Result.Rejected(); len(got) != 1 || got[0] != 30 {
		t.Errorf("did not get expected rejections. Got: %v, Want: [30]", got)
	}
}

// TestResample checks that resamples are reproducible and drawn from the
// original lines.
func TestResample(t *testing.T) {
	obs, _ := synthetic(t, Legendre{})

	a := Resample(obs, 3, 42)
	b := Resample(obs, 3, 42)
	if len(a) != 3 {
		t.Fatalf("did not get expected resample count. Got: %d, Want: 3", len(a))
	}

	for i := range a {
		if a[i].Len() != obs.Len() {
			t.Errorf("did not get expected resample length. Got: %d, Want: %d", a[i].Len(), obs.Len())
		}
		if !floats.Equal(a[i].Pixel, b[i].Pixel) {
			t.Errorf("resample %d is not reproducible", i)
		}
		for j := range a[i].Pixel {
			if !contains(obs, a[i].Pixel[j], a[i].Wavelength[j], a[i].Order[j]) {
				t.Errorf("resample %d line %d is not an original line", i, j)
			}
		}
	}
}

func contains(obs Observations, p, w float64, o int) bool {
	for i := range obs.Pixel {
		if obs.Pixel[i] == p && obs.Wavelength[i] == w && obs.Order[i] == o {
			return true
		}
	}
	return false
}
