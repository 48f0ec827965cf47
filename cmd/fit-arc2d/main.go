/*
DESCRIPTION
  fit-arc2d fits a two dimensional wavelength solution to the identified
  arc lines of a GNIRS cross-dispersed frame.

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

// fit-arc2d reads the IRAF identify database files of each cross-dispersed
// slit of a GNIRS arc frame, fits a single 2D wavelength solution across all
// orders with iterative sigma clipping, and prints the coefficients, the
// residual statistics and the rejected lines. Fits with several basis
// families may be run at once by giving a comma separated Family.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/arc2d/calibration"
	"github.com/ausocean/arc2d/gnirs"
	"github.com/ausocean/arc2d/identify"
	"github.com/ausocean/arc2d/qa"
	"github.com/ausocean/utils/filemap"
	"github.com/ausocean/utils/logging"
	"github.com/ausocean/utils/sliceutils"
	"gonum.org/v1/gonum/stat"
)

// Logging configuration consts.
const (
	defaultLogPath = "fit-arc2d.log"
	logMaxSize     = 50 // MB.
	logMaxBackup   = 5
	logMaxAge      = 28 // Days.
	logSuppress    = false
)

// config holds the command line configuration.
type config struct {
	DatabaseDir  string
	RootFilename string
	Config       string
	Family       string
	PixelDegree  int
	OrderDegree  int
	Sigma        float64
	MaxIter      int
	Column       int
	ArcFile      string
	PlotDir      string
	Bootstrap    int
	LogLevel     int
	LogPath      string
	ConfigFile   string
}

func main() {
	cfg, err := parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fileLog := &lumberjack.Logger{
		Filename:   cfg.LogPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(int8(cfg.LogLevel), io.MultiWriter(fileLog, os.Stderr), logSuppress)

	err = run(cfg, log, os.Stdout)
	if err != nil {
		log.Error("fit failed", "error", err)
		os.Exit(1)
	}
}

// parse parses args into a config using flags. Values in the file named by
// ConfigFile, one "key value" pair per line, fill flags not given in args.
func parse(flags *flag.FlagSet, args []string) (*config, error) {
	var cfg config
	flags.StringVar(&cfg.DatabaseDir, "DatabaseDir", "./database/", "Specifies IRAF database directory")
	flags.StringVar(&cfg.RootFilename, "RootFilename", "", "Specifies root filename of the identified arc frame")
	flags.StringVar(&cfg.Config, "Config", gnirs.DefaultName, "Specifies GNIRS configuration, one of "+strings.Join(gnirs.Names(), ", "))
	flags.StringVar(&cfg.Family, "Family", calibration.NameLegendre, "Specifies comma separated basis families, of "+strings.Join(calibration.FamilyNames, ", "))
	flags.IntVar(&cfg.PixelDegree, "PixelDegree", 3, "Specifies polynomial degree along the dispersion direction")
	flags.IntVar(&cfg.OrderDegree, "OrderDegree", 4, "Specifies polynomial degree across orders")
	flags.Float64Var(&cfg.Sigma, "Sigma", 3, "Specifies rejection threshold in units of residual spread")
	flags.IntVar(&cfg.MaxIter, "MaxIter", 100, "Specifies maximum number of rejection iterations")
	flags.IntVar(&cfg.Column, "Column", identify.Median, "Specifies identified column to use, -1 for the median")
	flags.StringVar(&cfg.ArcFile, "ArcFile", "", "Specifies FITS arc frame giving the detector extent")
	flags.StringVar(&cfg.PlotDir, "PlotDir", "", "Specifies directory for plots, none if empty")
	flags.IntVar(&cfg.Bootstrap, "Bootstrap", 0, "Specifies number of bootstrap resamples for coefficient errors")
	flags.IntVar(&cfg.LogLevel, "LogLevel", int(logging.Info), "Specifies log level")
	flags.StringVar(&cfg.LogPath, "LogPath", defaultLogPath, "Specifies log path")
	flags.StringVar(&cfg.ConfigFile, "ConfigFile", "", "Specifies config file")
	err := flags.Parse(args)
	if err != nil {
		return nil, err
	}

	if cfg.ConfigFile != "" {
		err = readConfig(flags, cfg.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	}

	if cfg.LogLevel < int(logging.Debug) || cfg.LogLevel > int(logging.Fatal) {
		return nil, fmt.Errorf("invalid log level %d", cfg.LogLevel)
	}
	if cfg.RootFilename == "" {
		return nil, errors.New("no RootFilename given")
	}
	return &cfg, nil
}

// readConfig sets flags were not set on the command line from the
// key value pairs in the file at path.
func readConfig(flags *flag.FlagSet, path string) error {
	values, err := filemap.ReadFrom(path, "\n", " ")
	if err != nil {
		return err
	}

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for k, v := range values {
		if k == "" || set[k] {
			continue
		}
		if flags.Lookup(k) == nil {
			return fmt.Errorf("unknown key %q", k)
		}
		err = flags.Set(k, strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("bad value for %s: %w", k, err)
		}
	}
	return nil
}

// run fits the lines of every slit of the configuration with each requested
// family and writes the results to w.
func run(cfg *config, log logging.Logger, w io.Writer) error {
	conf, err := gnirs.Lookup(cfg.Config)
	if err != nil {
		return err
	}
	log.Debug("using configuration", "config", conf.String())

	totalPixel, err := detectorExtent(cfg, conf)
	if err != nil {
		return err
	}
	log.Debug("got detector extent", "totalPixel", totalPixel)

	obs, err := readLines(cfg, conf, log)
	if err != nil {
		return err
	}
	log.Info("read identified lines", "lines", obs.Len())

	families, err := parseFamilies(cfg.Family)
	if err != nil {
		return err
	}

	jobs := make([]calibration.Job, len(families))
	for i, fam := range families {
		jobs[i] = calibration.Job{
			Name:       fam,
			Obs:        obs,
			TotalPixel: totalPixel,
			Options:    options(cfg, fam, log),
		}
	}

	for _, o := range calibration.FitAll(jobs) {
		if o.Err != nil {
			return fmt.Errorf("could not fit %s: %w", o.Name, o.Err)
		}
		err = report(w, o, obs)
		if err != nil {
			return fmt.Errorf("could not write report: %w", err)
		}

		if cfg.Bootstrap > 0 {
			err = bootstrap(w, cfg, o.Name, obs, totalPixel, log)
			if err != nil {
				return err
			}
		}

		if cfg.PlotDir == "" {
			continue
		}
		dir := filepath.Join(cfg.PlotDir, o.Name)
		err = os.MkdirAll(dir, 0o755)
		if err != nil {
			return fmt.Errorf("could not create plot directory: %w", err)
		}
		err = qa.Plot(dir, o.Result.Model, o.Result.Mask, obs)
		if err != nil {
			return fmt.Errorf("could not plot %s: %w", o.Name, err)
		}
		log.Info("wrote plots", "dir", dir)
	}
	return nil
}

func options(cfg *config, family string, log logging.Logger) []calibration.Option {
	return []calibration.Option{
		calibration.WithFamilyName(family),
		calibration.WithDegrees(cfg.PixelDegree, cfg.OrderDegree),
		calibration.WithSigma(cfg.Sigma),
		calibration.WithMaxIterations(cfg.MaxIter),
		calibration.WithLogger(log),
	}
}

// detectorExtent returns the number of pixels in the dispersion direction,
// from the arc frame if given, otherwise from the configuration.
func detectorExtent(cfg *config, conf *gnirs.Configuration) (float64, error) {
	if cfg.ArcFile == "" {
		return float64(conf.Rows), nil
	}
	f, err := os.Open(cfg.ArcFile)
	if err != nil {
		return 0, fmt.Errorf("could not open arc file: %w", err)
	}
	defer f.Close()
	n, err := gnirs.DetectorExtent(f, gnirs.AxisY)
	if err != nil {
		return 0, fmt.Errorf("could not get detector extent from %s: %w", cfg.ArcFile, err)
	}
	return float64(n), nil
}

// readLines reads the lines with reference wavelengths of each slit of the
// configuration. Slits without a database file are skipped.
func readLines(cfg *config, conf *gnirs.Configuration, log logging.Logger) (calibration.Observations, error) {
	obs := calibration.NewObservations(0)
	for _, slit := range conf.Slits() {
		order, err := conf.OrderForSlit(slit)
		if err != nil {
			return calibration.Observations{}, err
		}

		path := filepath.Join(cfg.DatabaseDir, identify.FileName(cfg.RootFilename, slit))
		blocks, err := identify.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warning("no database file for slit, skipping", "slit", slit, "path", path)
			continue
		}
		if err != nil {
			return calibration.Observations{}, err
		}

		b, err := identify.Select(blocks, cfg.Column)
		if err != nil {
			return calibration.Observations{}, fmt.Errorf("could not select block for slit %d: %w", slit, err)
		}
		pixel, _, ref := b.Lines()
		log.Debug("selected block", "slit", slit, "order", order, "column", b.Column, "lines", len(pixel))
		for i := range pixel {
			obs.Add(pixel[i], ref[i], order)
		}
	}
	if obs.Len() == 0 {
		return calibration.Observations{}, fmt.Errorf("%w: no identified lines for %s in %s", calibration.ErrDomain, cfg.RootFilename, cfg.DatabaseDir)
	}
	return *obs, nil
}

// parseFamilies splits a comma separated list of family names, checking each.
func parseFamilies(s string) ([]string, error) {
	var fams []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" || sliceutils.ContainsString(fams, f) {
			continue
		}
		if !sliceutils.ContainsString(calibration.FamilyNames, f) {
			return nil, fmt.Errorf("%w: unknown family %q", calibration.ErrConfiguration, f)
		}
		fams = append(fams, f)
	}
	if len(fams) == 0 {
		return nil, fmt.Errorf("%w: no family given", calibration.ErrConfiguration)
	}
	return fams, nil
}

// report writes the coefficients, residual statistics and rejected lines of
// a fit.
func report(w io.Writer, o calibration.Outcome, obs calibration.Observations) error {
	res := o.Result
	_, err := fmt.Fprintf(w, "== %s: converged=%t iterations=%d\n", o.Name, res.Converged, res.Iterations)
	if err != nil {
		return err
	}

	dx, dy := res.Model.Degrees()
	_, err = fmt.Fprintln(w, "coefficients (pixel degree, order degree):")
	if err != nil {
		return err
	}
	for i := 0; i <= dx; i++ {
		for j := 0; j <= dy; j++ {
			c, err := res.Model.Coefficient(i, j)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "  c[%d,%d] = %.8g\n", i, j, c)
			if err != nil {
				return err
			}
		}
	}

	rep, err := qa.Residuals(res.Model, res.Mask, obs)
	if err != nil {
		return err
	}
	err = rep.Format(w)
	if err != nil {
		return err
	}

	rej := res.Rejected()
	_, err = fmt.Fprintf(w, "rejected %d of %d lines\n", len(rej), obs.Len())
	if err != nil {
		return err
	}
	for _, i := range rej {
		_, err = fmt.Fprintf(w, "  order %d pixel %.2f wavelength %.4f residual %.4f\n", obs.Order[i], obs.Pixel[i], obs.Wavelength[i], rep.Residuals[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// bootstrap fits resamples of the lines and writes the standard deviation of
// each coefficient over the resamples.
func bootstrap(w io.Writer, cfg *config, family string, obs calibration.Observations, totalPixel float64, log logging.Logger) error {
	samples := calibration.Resample(obs, cfg.Bootstrap, 1)
	jobs := make([]calibration.Job, len(samples))
	for i, s := range samples {
		jobs[i] = calibration.Job{
			Name:       fmt.Sprintf("%s/%d", family, i),
			Obs:        s,
			TotalPixel: totalPixel,
			Options:    options(cfg, family, log),
		}
	}

	var coeffs [][]float64
	for _, o := range calibration.FitAll(jobs) {
		if o.Err != nil {
			log.Warning("bootstrap fit failed", "job", o.Name, "error", o.Err)
			continue
		}
		coeffs = append(coeffs, o.Result.Model.Coefficients())
	}
	if len(coeffs) < 2 {
		return fmt.Errorf("%w: only %d of %d bootstrap fits succeeded", calibration.ErrSingularFit, len(coeffs), len(samples))
	}

	_, err := fmt.Fprintf(w, "bootstrap standard deviation over %d fits:\n", len(coeffs))
	if err != nil {
		return err
	}
	v := make([]float64, len(coeffs))
	for k := range coeffs[0] {
		for i := range coeffs {
			v[i] = coeffs[i][k]
		}
		_, err = fmt.Fprintf(w, "  c[%d] = %.4g\n", k, stat.StdDev(v, nil))
		if err != nil {
			return err
		}
	}
	return nil
}
