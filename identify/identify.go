/*
DESCRIPTION
  identify.go provides a reader for the database files written by the IRAF
  identify task, from which the pixel positions and wavelengths of
  identified arc lines are taken.

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

// Package identify reads IRAF identify database files. A database file holds
// one block per identify session; each block records the image section that
// was identified and a table of features with their pixel centroid, measured
// wavelength, reference wavelength and width.
package identify

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Errors returned by the reader.
var (
	ErrFormat   = errors.New("identify: malformed database")
	ErrNoBlocks = errors.New("identify: no identify blocks")
	ErrNoColumn = errors.New("identify: no block for column")
)

// Median requests the block at the median column in Select.
const Median = -1

// Feature is an identified line.
type Feature struct {
	Pixel     float64 // Centroid position in pixels.
	Measured  float64 // Wavelength given by the identify fit.
	Reference float64 // Reference (laboratory) wavelength; NaN if INDEF.
	Width     float64 // Line width in pixels.
}

// Block is one identify session.
type Block struct {
	Date     string // Text following "# " that opened the block.
	Image    string // Image section given on the begin line.
	Column   int    // Column (or line) index of the identified section.
	Features []Feature
}

// Lines returns the pixel positions, measured wavelengths and reference
// wavelengths of the features that have a reference wavelength.
func (b *Block) Lines() (pixel, measured, reference []float64) {
	for _, f := range b.Features {
		if math.IsNaN(f.Reference) {
			continue
		}
		pixel = append(pixel, f.Pixel)
		measured = append(measured, f.Measured)
		reference = append(reference, f.Reference)
	}
	return pixel, measured, reference
}

// FileName returns the database file name for the given root image name and
// slit (extension) number, following the Gemini IRAF convention.
func FileName(root string, slit int) string {
	return fmt.Sprintf("id%s_SCI_%d_", root, slit)
}

// ReadFile reads the identify blocks in the database file at path.
func ReadFile(path string) ([]Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open database file: %w", err)
	}
	defer f.Close()

	blocks, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return blocks, nil
}

// Read reads identify blocks from r. A line starting with "# " opens a block,
// a "begin" line gives the image section, a "features N" line is followed by
// N feature lines, and a blank line closes the block.
func Read(r io.Reader) ([]Block, error) {
	var (
		blocks []Block
		cur    *Block
		lineNo int
	)
	s := bufio.NewScanner(r)
	next := func() (string, bool) {
		if !s.Scan() {
			return "", false
		}
		lineNo++
		return s.Text(), true
	}

	for {
		line, ok := next()
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "# "):
			if cur != nil {
				blocks = append(blocks, *cur)
			}
			cur = &Block{Date: strings.TrimSpace(line[2:]), Column: -1}

		case cur == nil:
			continue

		case trimmed == "":
			blocks = append(blocks, *cur)
			cur = nil

		case strings.HasPrefix(trimmed, "begin"):
			fields := strings.Fields(trimmed)
			cur.Image = fields[len(fields)-1]
			col, err := column(cur.Image)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, lineNo, err)
			}
			cur.Column = col

		case strings.HasPrefix(trimmed, "features"):
			fields := strings.Fields(trimmed)
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: line %d: missing feature count", ErrFormat, lineNo)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: line %d: bad feature count %q", ErrFormat, lineNo, fields[1])
			}
			for i := 0; i < n; i++ {
				fl, ok := next()
				if !ok {
					return nil, fmt.Errorf("%w: %d of %d features before end of input", ErrFormat, i, n)
				}
				f, err := feature(fl)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, lineNo, err)
				}
				cur.Features = append(cur.Features, f)
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("could not scan database: %w", err)
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}
	if len(blocks) == 0 {
		return nil, ErrNoBlocks
	}
	return blocks, nil
}

// column returns the column index from an image section such as
// "arc[SCI,1][512,*]", i.e. the first integer between the last "][" and the
// closing bracket.
func column(section string) (int, error) {
	i := strings.LastIndex(section, "][")
	if i < 0 {
		return 0, fmt.Errorf("no section in %q", section)
	}
	sec := strings.TrimSuffix(section[i+2:], "]")
	for _, f := range strings.Split(sec, ",") {
		f = strings.TrimSpace(f)
		if j := strings.Index(f, ":"); j >= 0 {
			f = f[:j]
		}
		c, err := strconv.Atoi(f)
		if err == nil {
			return c, nil
		}
	}
	return 0, fmt.Errorf("no column index in %q", section)
}

// feature parses a feature line of at least four fields.
func feature(line string) (Feature, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return Feature{}, fmt.Errorf("feature has %d fields, need 4", len(fields))
	}
	var v [4]float64
	for i := range v {
		if fields[i] == "INDEF" {
			v[i] = math.NaN()
			continue
		}
		var err error
		v[i], err = strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return Feature{}, fmt.Errorf("bad feature field %d: %w", i, err)
		}
	}
	if math.IsNaN(v[0]) {
		return Feature{}, errors.New("feature has no pixel position")
	}
	return Feature{Pixel: v[0], Measured: v[1], Reference: v[2], Width: v[3]}, nil
}

// Select returns the block for the given column. If column is Median, the
// block whose column is nearest the median of all block columns is returned,
// the lower one on a tie. When several sessions identified the same column the
// last one is used.
func Select(blocks []Block, col int) (Block, error) {
	if len(blocks) == 0 {
		return Block{}, ErrNoBlocks
	}

	if col == Median {
		cols := make([]int, len(blocks))
		for i, b := range blocks {
			cols[i] = b.Column
		}
		sort.Ints(cols)
		n := len(cols)
		med := float64(cols[n/2])
		if n%2 == 0 {
			med = float64(cols[n/2-1]+cols[n/2]) / 2
		}
		col = cols[0]
		for _, c := range cols {
			if math.Abs(float64(c)-med) < math.Abs(float64(col)-med) {
				col = c
			}
		}
	}

	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i].Column == col {
			return blocks[i], nil
		}
	}
	return Block{}, fmt.Errorf("%w %d", ErrNoColumn, col)
}
