/*
DESCRIPTION
  errors.go provides the error values returned by the calibration package.

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

import "errors"

// Errors returned by fitting. Callers should match these with errors.Is, since
// they are usually wrapped with the details of the failure.
var (
	// ErrConfiguration is returned for an unrecognised basis family or
	// instrument configuration, or for invalid fit options. It is always
	// returned before any numeric work is done.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrDomain is returned for input that cannot be normalised, e.g. a total
	// pixel count <= 1, no orders, or sequences of unequal length.
	ErrDomain = errors.New("invalid input domain")

	// ErrSingularFit is returned when the design matrix is under-determined or
	// rank deficient for the included points. The fit is abandoned; reducing
	// the polynomial degrees is left to the caller.
	ErrSingularFit = errors.New("singular fit")
)
