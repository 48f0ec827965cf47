/*
DESCRIPTION
  gnirs_test.go provides testing for functionality in gnirs.go and fits.go.

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
	"bytes"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/stretchr/testify/require"

	"github.com/ausocean/arc2d/calibration"
)

// TestLookup checks the known configuration and rejection of unknown names.
func TestLookup(t *testing.T) {
	c, err := Lookup(DefaultName)
	require.NoError(t, err)
	require.Equal(t, "SXD", c.Mode)
	require.Equal(t, 1024, c.Rows)
	require.Equal(t, "GNIRS configuration: 32/mmSB", c.String())
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, c.Slits())

	for slit, want := range map[int]int{1: 3, 3: 5, 6: 8} {
		got, err := c.OrderForSlit(slit)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err = c.OrderForSlit(7)
	require.ErrorIs(t, err, calibration.ErrConfiguration)

	min, max, ok := c.OrderRange(5)
	require.True(t, ok)
	require.Equal(t, 1.122, min)
	require.Equal(t, 1.518, max)
	_, _, ok = c.OrderRange(9)
	require.False(t, ok)

	for _, name := range []string{"", "10/mmLBSX", "32/mmsb"} {
		_, err := Lookup(name)
		require.ErrorIs(t, err, calibration.ErrConfiguration, name)
	}
}

// TestLookupCopy checks that a returned configuration can be modified without
// affecting later lookups.
func TestLookupCopy(t *testing.T) {
	c, err := Lookup(DefaultName)
	require.NoError(t, err)
	c.Orders[0].Number = 99

	c, err = Lookup(DefaultName)
	require.NoError(t, err)
	require.Equal(t, 3, c.Orders[0].Number)
}

// TestDetectorExtent writes a small FITS image and reads its axes back.
func TestDetectorExtent(t *testing.T) {
	const cols, rows = 8, 6

	var buf bytes.Buffer
	f, err := fitsio.Create(&buf)
	require.NoError(t, err)
	im := fitsio.NewImage(16, []int{cols, rows})
	require.NoError(t, im.Write(make([]int16, cols*rows)))
	require.NoError(t, f.Write(im))
	require.NoError(t, im.Close())
	require.NoError(t, f.Close())

	data := buf.Bytes()
	n, err := DetectorExtent(bytes.NewReader(data), AxisY)
	require.NoError(t, err)
	require.Equal(t, rows, n)

	n, err = DetectorExtent(bytes.NewReader(data), AxisX)
	require.NoError(t, err)
	require.Equal(t, cols, n)

	_, err = DetectorExtent(bytes.NewReader(data), 3)
	require.Error(t, err)

	_, err = DetectorExtent(bytes.NewReader([]byte("not a fits file")), AxisY)
	require.Error(t, err)
}
