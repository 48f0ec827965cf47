/*
DESCRIPTION
  fits.go provides reading of the detector geometry from an arc frame.

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

package gnirs

import (
	"fmt"
	"io"

	"github.com/astrogo/fitsio"
)

// Detector axes as numbered by FITS (NAXIS1, NAXIS2).
const (
	AxisX = 1 // Columns.
	AxisY = 2 // Rows; the dispersion direction of cross-dispersed GNIRS data.
)

// DetectorExtent returns the length of the given axis of the primary image in
// the FITS data read from r. It gives the total pixel count in the dispersion
// direction without relying on the configuration defaults, e.g. for binned
// or trimmed frames.
func DetectorExtent(r io.Reader, axis int) (int, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return 0, fmt.Errorf("could not open FITS data: %w", err)
	}
	defer f.Close()

	axes := f.HDU(0).Header().Axes()
	if axis < 1 || axis > len(axes) {
		return 0, fmt.Errorf("no axis %d in primary HDU with %d axes", axis, len(axes))
	}
	return axes[axis-1], nil
}
