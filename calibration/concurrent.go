/*
DESCRIPTION
  concurrent.go provides concurrent evaluation of independent fits, e.g. of
  several configurations, basis families or resampled line lists.

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
	"math/rand"
	"sync"
)

// Job is an independent fit request.
type Job struct {
	Name       string
	Obs        Observations
	TotalPixel float64
	Options    []Option
}

// Outcome is the outcome of a Job.
type Outcome struct {
	Name   string
	Result *Result
	Err    error
}

// FitAll runs each job in its own goroutine and returns the outcomes in job
// order. Jobs share no mutable state, so callers must not share the slices of
// one job's observations or options with another that modifies them.
func FitAll(jobs []Job) []Outcome {
	out := make([]Outcome, len(jobs))
	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := Fit(jobs[i].Obs, jobs[i].TotalPixel, jobs[i].Options...)
			out[i] = Outcome{Name: jobs[i].Name, Result: res, Err: err}
		}(i)
	}
	wg.Wait()
	return out
}

// Resample returns n bootstrap resamples of obs, each drawn with replacement
// using a source seeded with seed. The resamples can be fitted with FitAll to
// estimate the scatter of the solution.
func Resample(obs Observations, n int, seed int64) []Observations {
	rng := rand.New(rand.NewSource(seed))
	l := obs.Len()
	out := make([]Observations, n)
	for i := range out {
		o := NewObservations(l)
		for j := 0; j < l; j++ {
			k := rng.Intn(l)
			o.Add(obs.Pixel[k], obs.Wavelength[k], obs.Order[k])
		}
		out[i] = *o
	}
	return out
}
