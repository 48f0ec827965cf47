/*
DESCRIPTION
  report.go provides residual statistics of a wavelength solution, per
  order and overall, and a text report of them.

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

// Package qa provides quality assessment of a fitted wavelength solution:
// residual statistics per order and plots of the fit. It only reads the
// model, mask and observations, and never modifies them.
package qa

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/ausocean/arc2d/calibration"
	"gonum.org/v1/gonum/stat"
)

// OrderStats holds the residual statistics of one order.
type OrderStats struct {
	Order      int
	Lines      int     // Lines in the order.
	Rejected   int     // Lines rejected by the fit.
	Dispersion float64 // Wavelength units per pixel across the detector.
	RMS        float64 // Population standard deviation of included residuals in wavelength units.
	RMSPixels  float64 // RMS in pixels.
}

// Report holds the residual statistics of a solution.
type Report struct {
	Model     string
	Orders    []OrderStats
	RMS       float64   // Over included lines of all orders, in wavelength units.
	Residuals []float64 // Model wavelength minus reference wavelength, per line.
}

// Residuals computes the residuals of each line against the model, in
// wavelength units, and their statistics per order over included lines.
func Residuals(m *calibration.Model, mask []bool, obs calibration.Observations) (*Report, error) {
	err := obs.Validate()
	if err != nil {
		return nil, err
	}
	if len(mask) != obs.Len() {
		return nil, fmt.Errorf("%w: mask has length %d for %d lines", calibration.ErrDomain, len(mask), obs.Len())
	}

	wo, err := m.Eval(obs.Pixel, obs.Order)
	if err != nil {
		return nil, fmt.Errorf("could not evaluate model: %w", err)
	}
	rep := &Report{Model: m.String(), Residuals: make([]float64, obs.Len())}
	for i := range wo {
		rep.Residuals[i] = wo[i]/float64(obs.Order[i]) - obs.Wavelength[i]
	}

	var all []float64
	for _, order := range Orders(obs) {
		s := OrderStats{Order: order, Dispersion: Dispersion(m, order)}
		var inc []float64
		for i, o := range obs.Order {
			if o != order {
				continue
			}
			s.Lines++
			if mask[i] {
				s.Rejected++
				continue
			}
			inc = append(inc, rep.Residuals[i])
		}
		s.RMS = spread(inc)
		if s.Dispersion != 0 {
			s.RMSPixels = s.RMS / math.Abs(s.Dispersion)
		}
		all = append(all, inc...)
		rep.Orders = append(rep.Orders, s)
	}
	rep.RMS = spread(all)
	return rep, nil
}

// Dispersion returns the mean wavelength change per pixel of an order, from
// the model wavelengths at the first and last pixel of the detector.
func Dispersion(m *calibration.Model, order int) float64 {
	last := m.TotalPixel() - 1
	return (m.Wavelength(last, order) - m.Wavelength(0, order)) / last
}

// Orders returns the distinct orders of the observations in increasing order.
func Orders(obs calibration.Observations) []int {
	seen := make(map[int]bool)
	var orders []int
	for _, o := range obs.Order {
		if !seen[o] {
			seen[o] = true
			orders = append(orders, o)
		}
	}
	sort.Ints(orders)
	return orders
}

// Format writes the report as text.
func (r *Report) Format(w io.Writer) error {
	_, err := fmt.Fprintf(w, "model: %s\n", r.Model)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%5s %5s %8s %12s %10s %8s\n", "order", "lines", "rejected", "dispersion", "rms", "rms(pix)")
	if err != nil {
		return err
	}
	for _, s := range r.Orders {
		_, err = fmt.Fprintf(w, "%5d %5d %8d %12.5f %10.5f %8.3f\n", s.Order, s.Lines, s.Rejected, s.Dispersion, s.RMS, s.RMSPixels)
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "global rms: %.5f\n", r.RMS)
	return err
}

// spread returns the population standard deviation of v, or 0 for fewer
// than two values.
func spread(v []float64) float64 {
	n := float64(len(v))
	if n < 2 {
		return 0
	}
	_, sd := stat.MeanStdDev(v, nil)
	return sd * math.Sqrt((n-1)/n)
}
