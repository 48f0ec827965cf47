/*
DESCRIPTION
  gnirs.go provides the properties of the GNIRS spectrograph in its
  cross-dispersed configurations.

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

// Package gnirs describes configurations of the Gemini Near-InfraRed
// Spectrograph (GNIRS): which echelle order falls in each cross-dispersed
// slit, the wavelength coverage of each order, and the detector geometry.
package gnirs

import (
	"fmt"
	"sort"

	"github.com/ausocean/arc2d/calibration"
	"github.com/ausocean/utils/sliceutils"
)

// Order describes one echelle order of a configuration.
type Order struct {
	Number int     // Echelle order number.
	Slit   int     // Cross-dispersed slit (science extension) holding the order.
	Min    float64 // Shortest wavelength in microns.
	Max    float64 // Longest wavelength in microns.
}

// Configuration holds the properties of GNIRS for a given configuration.
type Configuration struct {
	Name    string
	Mode    string
	Grating string
	Camera  string
	Orders  []Order
	Rows    int // Detector size in the spectral direction.
	Cols    int // Detector size in the spatial direction.
}

// DefaultName is the configuration used when none is given.
const DefaultName = "32/mmSB"

// 32/mmSB_G5533 setup, covering XYJHK with the short blue camera.
var configurations = map[string]Configuration{
	"32/mmSB": {
		Name:    "32/mmSB",
		Mode:    "SXD",
		Grating: "32/mmSB_G5533",
		Camera:  "ShortBlue_G5540",
		Orders: []Order{
			{Number: 3, Slit: 1, Min: 1.869, Max: 2.531},
			{Number: 4, Slit: 2, Min: 1.402, Max: 1.898},
			{Number: 5, Slit: 3, Min: 1.122, Max: 1.518},
			{Number: 6, Slit: 4, Min: 0.935, Max: 1.265},
			{Number: 7, Slit: 5, Min: 0.802, Max: 1.084},
			{Number: 8, Slit: 6, Min: 0.702, Max: 0.948},
		},
		Rows: 1024,
		Cols: 1024,
	},
}

// Names returns the names of the supported configurations.
func Names() []string {
	names := make([]string, 0, len(configurations))
	for n := range configurations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the configuration with the given name.
func Lookup(name string) (*Configuration, error) {
	if !sliceutils.ContainsString(Names(), name) {
		return nil, fmt.Errorf("%w: %q is not a configuration currently covered, possible values are %v",
			calibration.ErrConfiguration, name, Names())
	}
	c := configurations[name]
	c.Orders = append([]Order(nil), c.Orders...)
	return &c, nil
}

// String implements fmt.Stringer.
func (c *Configuration) String() string {
	return "GNIRS configuration: " + c.Name
}

// OrderForSlit returns the echelle order observed in the given slit.
func (c *Configuration) OrderForSlit(slit int) (int, error) {
	for _, o := range c.Orders {
		if o.Slit == slit {
			return o.Number, nil
		}
	}
	return 0, fmt.Errorf("%w: no slit %d in configuration %s", calibration.ErrConfiguration, slit, c.Name)
}

// Slits returns the slit numbers of the configuration in increasing order.
func (c *Configuration) Slits() []int {
	s := make([]int, len(c.Orders))
	for i, o := range c.Orders {
		s[i] = o.Slit
	}
	sort.Ints(s)
	return s
}

// OrderRange returns the wavelength coverage of an order in microns.
func (c *Configuration) OrderRange(order int) (min, max float64, ok bool) {
	for _, o := range c.Orders {
		if o.Number == order {
			return o.Min, o.Max, true
		}
	}
	return 0, 0, false
}
