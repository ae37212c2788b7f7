// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audreact"
	"github.com/ik5/audreact/analysis"
	"github.com/ik5/audreact/internal/config"
	"github.com/ik5/audreact/internal/ui"
)

// parseTracks reads one plain locator as a single track, or id=locator
// pairs as a multi source set.
func parseTracks(args []string) (audreact.Tracks, error) {
	if len(args) == 0 {
		return nil, errUsage
	}
	if len(args) == 1 && !strings.Contains(args[0], "=") {
		return audreact.Single(args[0]), nil
	}

	tracks := audreact.Multiple{}
	for _, arg := range args {
		id, loc, ok := strings.Cut(arg, "=")
		if !ok || id == "" || loc == "" {
			return nil, fmt.Errorf("invalid source %q, want id=track", arg)
		}
		if _, dup := tracks[id]; dup {
			return nil, fmt.Errorf("duplicate source id %q", id)
		}
		tracks[id] = loc
	}
	return tracks, nil
}

func runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tracks, err := parseTracks(fs.Args())
	if err != nil {
		return err
	}

	cfg, logger, closer, pipe, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer closer.Close()

	// the terminal belongs to the TUI
	if cfg.Logging.File == "" {
		logger.SetOutput(io.Discard)
	}

	ar, err := audreact.New(pipe, tracks, audreact.WithLogger(logger))
	if err != nil {
		return err
	}
	defer ar.Close()

	single, isSingle := tracks.(audreact.Single)
	opts := ui.Options{
		Title:     describe(tracks),
		Bands:     cfg.Render.Bands,
		Clamp:     cfg.Render.Clamp,
		FrameRate: cfg.Render.FrameRate,
	}

	if isSingle {
		applyBounds(ar, cfg, string(single), logger)
	} else {
		opts.Sources = ar.Sources().IDs()
	}

	if err := ar.LoadAndPlay(ctx, nil); err != nil {
		return fmt.Errorf("loading: %w", err)
	}

	prog := tea.NewProgram(ui.NewModel(ar, opts), tea.WithAltScreen(), tea.WithContext(ctx))

	if isSingle {
		w, err := config.NewWatcher(*configPath, logrus.NewEntry(logger), func(c *config.Config) {
			if b, ok := applyBounds(ar, c, string(single), logger); ok {
				prog.Send(ui.ReloadedMsg(b))
			}
		})
		if err != nil {
			logger.WithError(err).Warn("Config changes will not be picked up")
		} else {
			wctx, cancel := context.WithCancel(ctx)
			defer cancel()
			go w.Run(wctx)
		}
	}

	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// applyBounds sets the known bounds of track from cfg, if there are any.
func applyBounds(ar *audreact.AudioReactive, cfg *config.Config, track string, logger *logrus.Logger) (analysis.Bounds, bool) {
	t, ok := cfg.Track(track)
	if !ok || !t.Calibrated() {
		logger.WithField("track", track).Warn("No calibration known, run audreact calibrate -save")
		return analysis.Bounds{}, false
	}
	ar.SetSongFrequencies(t.Bounds())
	return t.Bounds(), true
}

func describe(tracks audreact.Tracks) string {
	switch t := tracks.(type) {
	case audreact.Single:
		return string(t)
	case audreact.Multiple:
		ids := make([]string, 0, len(t))
		for id := range t {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		return strings.Join(ids, " + ")
	}
	return ""
}
