/*
DESCRIPTION
  plot.go provides plots of a wavelength solution and its residuals.

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
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/ausocean/arc2d/calibration"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// residualScale magnifies residuals when drawn over the model curve.
const residualScale = 100

// Plot writes, for each order, a plot of the model with the lines overlaid
// (residuals magnified by 100) and a plot of the residuals in pixels, plus a
// plot of all residuals against pixel. Rejected lines are drawn as crosses.
// Files are written to dir as PNG.
func Plot(dir string, m *calibration.Model, mask []bool, obs calibration.Observations) error {
	rep, err := Residuals(m, mask, obs)
	if err != nil {
		return fmt.Errorf("could not analyse residuals: %w", err)
	}

	orders := Orders(obs)
	for _, s := range rep.Orders {
		c := orderColor(s.Order, orders[0], orders[len(orders)-1])
		inc, rej, incRes, rejRes := split(m, mask, obs, rep.Residuals, s)

		err = plotToFile(dir,
			fmt.Sprintf("Order %d", s.Order),
			"Row (pixel)",
			fmt.Sprintf("Wavelength, RMS=%.3f pixel", s.RMSPixels),
			func(p *plot.Plot) error {
				return addOrder(p, m, s.Order, c, inc, rej)
			},
		)
		if err != nil {
			return fmt.Errorf("could not plot order %d: %w", s.Order, err)
		}

		err = plotToFile(dir,
			fmt.Sprintf("Order %d residuals", s.Order),
			"Row (pixel)",
			"Residual (pixel)",
			func(p *plot.Plot) error {
				return addResiduals(p, c, incRes, rejRes)
			},
		)
		if err != nil {
			return fmt.Errorf("could not plot order %d residuals: %w", s.Order, err)
		}
	}

	err = plotToFile(dir,
		"All orders residuals",
		"Row (pixel)",
		fmt.Sprintf("Residual, RMS=%.5f", rep.RMS),
		func(p *plot.Plot) error {
			for _, order := range orders {
				var xy plotter.XYs
				for i, o := range obs.Order {
					if o == order && !mask[i] {
						xy = append(xy, plotter.XY{X: obs.Pixel[i], Y: rep.Residuals[i]})
					}
				}
				s, err := plotter.NewScatter(xy)
				if err != nil {
					return err
				}
				s.GlyphStyle.Color = orderColor(order, orders[0], orders[len(orders)-1])
				p.Add(s)
				p.Legend.Add(fmt.Sprintf("order %d", order), s)
			}
			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("could not plot global residuals: %w", err)
	}
	return nil
}

// split returns points of an order for plotting: model wavelength plus
// magnified residual for included and rejected lines, and residuals in
// pixels for the same.
func split(m *calibration.Model, mask []bool, obs calibration.Observations, resid []float64, s OrderStats) (inc, rej, incRes, rejRes plotter.XYs) {
	for i, o := range obs.Order {
		if o != s.Order {
			continue
		}
		w := m.Wavelength(obs.Pixel[i], o)
		pt := plotter.XY{X: obs.Pixel[i], Y: w + residualScale*resid[i]}
		var res plotter.XY
		if s.Dispersion != 0 {
			res = plotter.XY{X: obs.Pixel[i], Y: resid[i] / s.Dispersion}
		}
		if mask[i] {
			rej = append(rej, pt)
			rejRes = append(rejRes, res)
			continue
		}
		inc = append(inc, pt)
		incRes = append(incRes, res)
	}
	return inc, rej, incRes, rejRes
}

// addOrder draws the model curve of an order and its lines.
func addOrder(p *plot.Plot, m *calibration.Model, order int, c color.Color, inc, rej plotter.XYs) error {
	n := int(m.TotalPixel())
	curve := make(plotter.XYs, n)
	for i := range curve {
		curve[i].X = float64(i)
		curve[i].Y = m.Wavelength(float64(i), order)
	}
	l, err := plotter.NewLine(curve)
	if err != nil {
		return err
	}
	l.Color = c
	l.Width = vg.Points(2)
	p.Add(l)
	p.Legend.Add("model", l)
	return addPoints(p, c, inc, rej)
}

// addResiduals draws residuals about a dotted zero line.
func addResiduals(p *plot.Plot, c color.Color, inc, rej plotter.XYs) error {
	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = c
	zero.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(zero)
	return addPoints(p, c, inc, rej)
}

// addPoints draws included lines as circles and rejected lines as crosses.
func addPoints(p *plot.Plot, c color.Color, inc, rej plotter.XYs) error {
	if len(inc) > 0 {
		s, err := plotter.NewScatter(inc)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = c
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add("included", s)
	}
	if len(rej) > 0 {
		s, err := plotter.NewScatter(rej)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = color.Black
		s.GlyphStyle.Shape = draw.CrossGlyph{}
		p.Add(s)
		p.Legend.Add("rejected", s)
	}
	return nil
}

// orderColor shades orders from red (highest) to blue (lowest).
func orderColor(order, min, max int) color.Color {
	if max == min {
		return color.RGBA{R: 255, A: 255}
	}
	r := float64(order-max) / float64(min-max)
	b := float64(order-min) / float64(max-min)
	return color.RGBA{R: uint8(255 * r), B: uint8(255 * b), A: 255}
}

// plotToFile creates a plot with a specified name and x&y titles using the
// provided draw function, and then saves to a PNG file in dir with filename
// of name.
func plotToFile(dir, name, xTitle, yTitle string, draw func(*plot.Plot) error) error {
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = xTitle
	p.Y.Label.Text = yTitle
	err := draw(p)
	if err != nil {
		return fmt.Errorf("could not draw plot contents: %w", err)
	}
	if err := p.Save(15*vg.Centimeter, 15*vg.Centimeter, filepath.Join(dir, name+".png")); err != nil {
		return fmt.Errorf("could not save plot: %w", err)
	}
	return nil
}
