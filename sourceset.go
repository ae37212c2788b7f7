// SPDX-License-Identifier: EPL-2.0

package audreact

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audreact/analysis"
	"github.com/ik5/audreact/media"
)

// Source is one loaded track of a SourceSet.
type Source struct {
	ID       string
	Locator  string
	Element  media.Element
	Analyzer *analysis.FrequencyAnalyzer
}

// Duration in seconds as reported when the element became ready.
func (s *Source) Duration() float64 { return s.Element.Duration() }

// SourceSet loads one or several sources and tracks the anchor, the source
// whose clock and end govern the whole set.
type SourceSet struct {
	multiple bool
	ids      []string
	locators map[string]string
	log      *logrus.Entry
	now      func() time.Time

	sources  map[string]*Source
	order    []*Source
	anchor   *Source
	duration float64
	started  time.Time
}

// NewSourceSet validates tracks. Nothing is opened until Load.
func NewSourceSet(tracks Tracks, log *logrus.Entry) (*SourceSet, error) {
	if log == nil {
		log = logrus.NewEntry(defaultOptions().logger)
	}

	s := &SourceSet{
		locators: make(map[string]string),
		log:      log,
		now:      time.Now,
	}

	switch t := tracks.(type) {
	case Single:
		if t == "" {
			return nil, ErrNoSources
		}
		s.ids = []string{SingleID}
		s.locators[SingleID] = string(t)
	case Multiple:
		if len(t) == 0 {
			return nil, ErrNoSources
		}
		s.multiple = true
		for id, loc := range t {
			if loc == "" {
				return nil, fmt.Errorf("%w: source %q has no locator", ErrNoSources, id)
			}
			s.ids = append(s.ids, id)
			s.locators[id] = loc
		}
		slices.Sort(s.ids)
	default:
		return nil, ErrNoSources
	}

	return s, nil
}

func (s *SourceSet) Multiple() bool { return s.multiple }

// IDs lists the source ids in sorted order.
func (s *SourceSet) IDs() []string { return slices.Clone(s.ids) }

type readyResult struct {
	src *Source
	err error
}

// Load opens every source and waits until all of them are ready. Sources are
// committed to the set only once the last one is ready, so a failed or
// cancelled load leaves the set empty. The anchor is the longest source;
// on equal durations the one that became ready first wins.
func (s *SourceSet) Load(ctx context.Context, p media.Pipeline) error {
	if s.order != nil {
		return fmt.Errorf("%w: sources already loaded", ErrInvalidState)
	}

	bins := p.FrequencyBinCount()
	if bins <= 0 {
		return ErrConfiguration
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opened := make([]*Source, 0, len(s.ids))
	fail := func(err error) error {
		for _, src := range opened {
			src.Element.Close()
		}
		return err
	}

	for _, id := range s.ids {
		el, err := p.Open(ctx, s.locators[id])
		if err != nil {
			return fail(fmt.Errorf("opening source %q: %w", id, err))
		}
		opened = append(opened, &Source{ID: id, Locator: s.locators[id], Element: el})
	}

	results := make(chan readyResult, len(opened))
	for _, src := range opened {
		go func() {
			select {
			case <-src.Element.Ready():
				results <- readyResult{src: src, err: src.Element.Err()}
			case <-ctx.Done():
				results <- readyResult{src: src, err: ctx.Err()}
			}
		}()
	}

	loaded := make([]*Source, 0, len(opened))
	for range opened {
		r := <-results
		if r.err != nil {
			return fail(fmt.Errorf("loading source %q: %w", r.src.ID, r.err))
		}

		s.log.WithFields(logrus.Fields{
			"source":   r.src.ID,
			"duration": r.src.Duration(),
		}).Debug("source ready")
		loaded = append(loaded, r.src)
	}

	for _, src := range loaded {
		spectrum, err := p.Analyse(src.Element)
		if err != nil {
			return fail(fmt.Errorf("analysing source %q: %w", src.ID, err))
		}
		if src.Analyzer, err = analysis.NewFrequencyAnalyzer(spectrum, bins); err != nil {
			return fail(err)
		}
	}

	s.commit(loaded)
	return nil
}

func (s *SourceSet) commit(loaded []*Source) {
	s.sources = make(map[string]*Source, len(loaded))
	anchor := loaded[0]
	for _, src := range loaded {
		s.sources[src.ID] = src
		if src.Duration() > anchor.Duration() {
			anchor = src
		}
	}

	s.order = loaded
	s.anchor = anchor
	s.duration = anchor.Duration()

	s.log.WithFields(logrus.Fields{
		"anchor":   anchor.ID,
		"duration": s.duration,
		"sources":  len(loaded),
	}).Debug("anchor selected")
}

func (s *SourceSet) Loaded() bool { return s.order != nil }

// Play starts every source in one pass and records a single start time.
func (s *SourceSet) Play() error {
	if s.order == nil {
		return fmt.Errorf("%w: sources not loaded", ErrInvalidState)
	}

	for _, src := range s.order {
		if err := src.Element.Play(); err != nil {
			return fmt.Errorf("starting source %q: %w", src.ID, err)
		}
	}
	s.started = s.now()

	return nil
}

// Started is the time of the last Play.
func (s *SourceSet) Started() time.Time { return s.started }

// Anchor is nil before Load.
func (s *SourceSet) Anchor() *Source { return s.anchor }

// Duration of the whole set, the anchor's duration.
func (s *SourceSet) Duration() float64 { return s.duration }

// Sources in load completion order.
func (s *SourceSet) Sources() []*Source { return slices.Clone(s.order) }

func (s *SourceSet) Source(id string) (*Source, error) {
	src, ok := s.sources[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	return src, nil
}

// Progress is the anchor position as a percentage of the set duration,
// rounded to two decimals. It is 0 before Load and for a zero duration.
func (s *SourceSet) Progress() float64 {
	if s.anchor == nil || s.duration <= 0 {
		return 0
	}

	p := s.anchor.Element.CurrentTime() * 100 / s.duration
	return math.Round(p*100) / 100
}

func (s *SourceSet) Close() error {
	var errs []error
	for _, src := range s.order {
		if err := src.Element.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing source %q: %w", src.ID, err))
		}
	}
	return errors.Join(errs...)
}
