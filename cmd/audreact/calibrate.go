// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/ik5/audreact"
	"github.com/ik5/audreact/internal/config"
	"github.com/ik5/audreact/media"
)

type calibrateFlags struct {
	config string
	fps    int
	save   bool
	name   string
	quiet  bool
}

func parseCalibrate(args []string) (calibrateFlags, string, error) {
	var f calibrateFlags

	fs := flag.NewFlagSet("calibrate", flag.ContinueOnError)
	fs.StringVar(&f.config, "config", defaultConfigPath, "configuration file")
	fs.IntVar(&f.fps, "fps", 0, "sampling rate of the pass, frames per second (default from config)")
	fs.BoolVar(&f.save, "save", false, "store the measured bounds in the configuration file")
	fs.StringVar(&f.name, "name", "", "name to store the track under")
	fs.BoolVar(&f.quiet, "quiet", false, "do not draw the progress bar")

	if err := fs.Parse(args); err != nil {
		return f, "", err
	}
	if fs.NArg() != 1 {
		return f, "", errUsage
	}

	return f, fs.Arg(0), nil
}

// setup loads configuration and builds the logger and the pipeline.
func setup(configPath string) (*config.Config, *logrus.Logger, io.Closer, *media.Context, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	logger, closer, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	pipe, err := media.NewContext(cfg.Pipeline.Media())
	if err != nil {
		closer.Close()
		return nil, nil, nil, nil, err
	}

	return cfg, logger, closer, pipe, nil
}

func runCalibrate(ctx context.Context, args []string) error {
	f, track, err := parseCalibrate(args)
	if err != nil {
		return err
	}

	cfg, logger, closer, pipe, err := setup(f.config)
	if err != nil {
		return err
	}
	defer closer.Close()

	fps := cfg.Render.FrameRate
	if f.fps > 0 {
		fps = f.fps
	}

	ar, err := audreact.New(pipe, audreact.Single(track),
		audreact.WithLogger(logger),
		audreact.WithFrameRate(fps),
	)
	if err != nil {
		return err
	}
	defer ar.Close()

	logger.WithFields(logrus.Fields{"track": track, "fps": fps}).Info("Calibration pass started")

	if err := ar.Load(ctx, nil); err != nil {
		return fmt.Errorf("loading %s: %w", track, err)
	}

	var out io.Writer = os.Stderr
	if f.quiet {
		out = nil
	}
	finish := trackProgress(ar.Sources().Anchor().Element, ar.Sources().Duration(), out)

	bounds, err := ar.Calibrate(ctx, nil)
	finish(err == nil)
	if err != nil {
		return fmt.Errorf("calibrating %s: %w", track, err)
	}

	entry := config.TrackConfig{
		Name:     f.name,
		Path:     track,
		MinPower: bounds.Min,
		MaxPower: bounds.Max,
	}

	if err := writeTrack(os.Stdout, entry); err != nil {
		return err
	}

	if f.save {
		cfg.SetTrack(entry)
		if err := cfg.SaveToFile(f.config); err != nil {
			return err
		}
		logger.WithField("config", f.config).Info("Bounds saved")
	}

	return nil
}

// trackProgress draws the position of el while a pass runs. The returned
// func stops drawing, completing the bar when done is true.
func trackProgress(el media.Element, duration float64, out io.Writer) func(done bool) {
	p := mpb.New(mpb.WithWidth(64), mpb.WithOutput(out))

	total := int64(math.Ceil(duration * 1000))
	bar := p.AddBar(total,
		mpb.PrependDecorators(
			decor.Name("Calibrating: "),
			decor.Elapsed(decor.ET_STYLE_GO),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)

	quit := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				bar.SetCurrent(int64(el.CurrentTime() * 1000))
			}
		}
	}()

	return func(done bool) {
		close(quit)
		<-stopped

		if done {
			bar.SetCurrent(total)
			bar.SetTotal(-1, true)
		} else {
			bar.Abort(false)
		}
		p.Wait()
	}
}

// writeTrack prints entry as a [[tracks]] block ready to paste into the
// configuration file.
func writeTrack(w io.Writer, entry config.TrackConfig) error {
	doc := struct {
		Tracks []config.TrackConfig `toml:"tracks"`
	}{Tracks: []config.TrackConfig{entry}}

	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode bounds: %w", err)
	}
	return nil
}
