/*
DESCRIPTION
  qa_test.go provides testing for residual statistics and plotting.

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

package qa

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andreyvit/diff"
	"github.com/ausocean/arc2d/calibration"
)

const totalPixel = 101

// linear returns a model whose wavelength is linear in pixel, with a
// dispersion of 2 in order 3 and 1.5 in order 4.
func linear(t *testing.T) *calibration.Model {
	t.Helper()
	basis := calibration.Basis{
		Family:  calibration.Legendre{},
		DegreeX: 1,
		DomainX: calibration.PixelDomain,
		DomainY: calibration.Domain{Min: 3, Max: 4},
	}
	m, err := calibration.NewModel(basis, []float64{30000, 300}, totalPixel)
	if err != nil {
		t.Fatalf("could not create model: %v", err)
	}
	return m
}

// lines returns observations offset from the model by known residuals, and
// a mask rejecting the last line.
func lines(m *calibration.Model) (calibration.Observations, []bool) {
	type line struct {
		pixel float64
		order int
		resid float64
	}
	ls := []line{
		{10, 3, 0.2}, {30, 3, -0.2}, {50, 3, 0.2}, {70, 3, -0.2},
		{20, 4, 0.1}, {60, 4, -0.1}, {90, 4, 5},
	}
	obs := calibration.NewObservations(len(ls))
	for _, l := range ls {
		obs.Add(l.pixel, m.Wavelength(l.pixel, l.order)-l.resid, l.order)
	}
	mask := make([]bool, len(ls))
	mask[len(ls)-1] = true
	return *obs, mask
}

func TestResiduals(t *testing.T) {
	m := linear(t)
	obs, mask := lines(m)

	rep, err := Residuals(m, mask, obs)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	want := []OrderStats{
		{Order: 3, Lines: 4, Rejected: 0, Dispersion: 2, RMS: 0.2, RMSPixels: 0.1},
		{Order: 4, Lines: 3, Rejected: 1, Dispersion: 1.5, RMS: 0.1, RMSPixels: 0.1 / 1.5},
	}
	if len(rep.Orders) != len(want) {
		t.Fatalf("did not get expected number of orders. Got: %d, Want: %d", len(rep.Orders), len(want))
	}
	const tol = 1e-9
	for i, w := range want {
		got := rep.Orders[i]
		if got.Order != w.Order || got.Lines != w.Lines || got.Rejected != w.Rejected {
			t.Errorf("did not get expected counts for order %d. Got: %+v, Want: %+v", w.Order, got, w)
		}
		for _, c := range []struct {
			name      string
			got, want float64
		}{
			{"dispersion", got.Dispersion, w.Dispersion},
			{"rms", got.RMS, w.RMS},
			{"rms pixels", got.RMSPixels, w.RMSPixels},
		} {
			if math.Abs(c.got-c.want) > tol {
				t.Errorf("did not get expected %s for order %d. Got: %v, Want: %v", c.name, w.Order, c.got, c.want)
			}
		}
	}
	if math.Abs(rep.RMS-math.Sqrt(0.18/6)) > tol {
		t.Errorf("did not get expected global rms. Got: %v, Want: %v", rep.RMS, math.Sqrt(0.18/6))
	}
	if math.Abs(rep.Residuals[6]-5) > tol {
		t.Errorf("did not get expected residual for rejected line. Got: %v, Want: 5", rep.Residuals[6])
	}
}

func TestResidualsErrors(t *testing.T) {
	m := linear(t)
	obs, mask := lines(m)

	_, err := Residuals(m, mask[:3], obs)
	if !errors.Is(err, calibration.ErrDomain) {
		t.Errorf("did not get expected error for short mask. Got: %v, Want: %v", err, calibration.ErrDomain)
	}

	_, err = Residuals(m, nil, calibration.Observations{})
	if !errors.Is(err, calibration.ErrDomain) {
		t.Errorf("did not get expected error for no lines. Got: %v, Want: %v", err, calibration.ErrDomain)
	}
}

func TestFormat(t *testing.T) {
	m := linear(t)
	obs, mask := lines(m)
	rep, err := Residuals(m, mask, obs)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	var buf bytes.Buffer
	err = rep.Format(&buf)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	want := strings.Join([]string{
		"model: legendre2d degree (1, 0), pixel domain [0, 1], order domain [3, 4]",
		"order lines rejected   dispersion        rms rms(pix)",
		"    3     4        0      2.00000    0.20000    0.100",
		"    4     3        1      1.50000    0.10000    0.067",
		"global rms: 0.17321",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("did not get expected report:\n%v", diff.LineDiff(want, got))
	}
}

func TestOrders(t *testing.T) {
	obs := calibration.Observations{Order: []int{5, 3, 5, 4, 3}}
	got := Orders(obs)
	want := []int{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("did not get expected orders. Got: %v, Want: %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("did not get expected orders. Got: %v, Want: %v", got, want)
			break
		}
	}
}

func TestPlot(t *testing.T) {
	m := linear(t)
	obs, mask := lines(m)
	dir := t.TempDir()

	err := Plot(dir, m, mask, obs)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	for _, name := range []string{
		"Order 3.png",
		"Order 3 residuals.png",
		"Order 4.png",
		"Order 4 residuals.png",
		"All orders residuals.png",
	} {
		fi, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("expected plot %q: %v", name, err)
			continue
		}
		if fi.Size() == 0 {
			t.Errorf("plot %q is empty", name)
		}
	}
}
