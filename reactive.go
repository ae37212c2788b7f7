// SPDX-License-Identifier: EPL-2.0

package audreact

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audreact/analysis"
	"github.com/ik5/audreact/media"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateCalibrating
	StatePlaying
	StateEnded
	StateClosed
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StateLoading:     "loading",
	StateReady:       "ready",
	StateCalibrating: "calibrating",
	StatePlaying:     "playing",
	StateEnded:       "ended",
	StateClosed:      "closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// AudioReactive drives a SourceSet through load, calibration and playback
// and answers the per-frame renderer queries. It is safe for concurrent use.
type AudioReactive struct {
	id       uuid.UUID
	pipeline media.Pipeline
	frames   func() media.Ticker
	log      *logrus.Entry

	mu      sync.Mutex
	state   State
	set     *SourceSet
	norm    *analysis.Normalizer
	onEnded func()
	ended   chan struct{}
	armed   bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New prepares an instance for tracks on pipeline. The bin count is read
// from the pipeline once and MAX_POWER is derived from it.
func New(pipeline media.Pipeline, tracks Tracks, opts ...Option) (*AudioReactive, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New()
	log := o.logger.WithField("instance", id.String())

	bins := pipeline.FrequencyBinCount()
	norm, err := analysis.NewNormalizer(bins)
	if err != nil {
		return nil, fmt.Errorf("pipeline reports %d bins: %w", bins, err)
	}

	set, err := NewSourceSet(tracks, log)
	if err != nil {
		return nil, err
	}
	set.now = o.now

	log.WithFields(logrus.Fields{
		"bins":      bins,
		"max_power": norm.MaxPower(),
		"multiple":  set.Multiple(),
	}).Info("audio reactive created")

	return &AudioReactive{
		id:       id,
		pipeline: pipeline,
		frames:   o.frames,
		log:      log,
		set:      set,
		norm:     norm,
		onEnded:  o.onEnded,
		ended:    make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

func (a *AudioReactive) ID() uuid.UUID { return a.id }

func (a *AudioReactive) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Sources exposes the underlying set. Its methods are not synchronised with
// the facade.
func (a *AudioReactive) Sources() *SourceSet { return a.set }

// MaxPower is the theoretical maximum for the pipeline's bin count.
func (a *AudioReactive) MaxPower() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.norm.MaxPower()
}

func (a *AudioReactive) Bins() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.norm.Bins()
}

// transition moves from one of from to next, or reports ErrInvalidState.
// Must be called with mu held.
func (a *AudioReactive) transition(next State, from ...State) error {
	if a.state == StateClosed {
		return ErrClosed
	}
	for _, s := range from {
		if a.state == s {
			a.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: cannot go from %s to %s", ErrInvalidState, a.state, next)
}

// Load opens and waits for every source, then calls onReady. Close or a
// cancelled ctx abort the wait. A failed load returns to Idle.
func (a *AudioReactive) Load(ctx context.Context, onReady func()) error {
	a.mu.Lock()
	if err := a.transition(StateLoading, StateIdle); err != nil {
		a.mu.Unlock()
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	err := a.set.Load(ctx, a.pipeline)
	cancel()

	a.mu.Lock()
	a.cancel = nil
	switch {
	case a.state == StateClosed:
		a.mu.Unlock()
		if err == nil {
			a.set.Close()
		}
		return ErrClosed
	case err != nil:
		a.state = StateIdle
		a.mu.Unlock()
		a.log.WithError(err).Warn("load failed")
		return err
	}
	a.state = StateReady
	a.mu.Unlock()

	a.log.WithField("duration", a.set.Duration()).Debug("sources loaded")
	if onReady != nil {
		onReady()
	}
	return nil
}

// Calibrate plays the single source once to the end, sampling its power on
// every frame tick, and applies the measured bounds. onComplete receives
// them too, for reuse through SetSongFrequencies.
func (a *AudioReactive) Calibrate(ctx context.Context, onComplete func(analysis.Bounds)) (analysis.Bounds, error) {
	a.mu.Lock()
	if a.set.Multiple() {
		a.mu.Unlock()
		return analysis.Bounds{}, fmt.Errorf("%w: calibrate", ErrUnsupported)
	}
	if err := a.transition(StateCalibrating, StateReady); err != nil {
		a.mu.Unlock()
		return analysis.Bounds{}, err
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	src := a.set.Anchor()
	a.mu.Unlock()

	defer cancel()

	bounds, err := a.calibrate(ctx, src)

	a.mu.Lock()
	a.cancel = nil
	if a.state == StateClosed {
		a.mu.Unlock()
		a.set.Close()
		return analysis.Bounds{}, ErrClosed
	}
	a.state = StateReady
	if err != nil {
		a.mu.Unlock()
		a.log.WithError(err).Warn("calibration failed")
		return analysis.Bounds{}, err
	}
	a.norm.SetRange(bounds)
	rng, _ := a.norm.Range()
	a.mu.Unlock()

	entry := a.log.WithFields(logrus.Fields{
		"min_power": bounds.Min,
		"max_power": bounds.Max,
		"span":      rng.Span,
	})
	if rng.Span == 0 {
		entry.Warn("calibration range is zero")
	} else {
		entry.Info("calibration complete")
	}

	if onComplete != nil {
		onComplete(bounds)
	}
	return bounds, nil
}

func (a *AudioReactive) calibrate(ctx context.Context, src *Source) (analysis.Bounds, error) {
	ticker := a.frames()
	defer ticker.Stop()

	if err := src.Element.Play(); err != nil {
		return analysis.Bounds{}, fmt.Errorf("starting calibration pass: %w", err)
	}

	return analysis.NewCalibrator().Run(ctx, ticker.C(), src.Element.Ended(), src.Analyzer)
}

// Play starts every source from Ready, or again after the previous run ended.
func (a *AudioReactive) Play(onPlay func()) error {
	a.mu.Lock()
	prev := a.state
	if err := a.transition(StatePlaying, StateReady, StateEnded); err != nil {
		a.mu.Unlock()
		return err
	}
	if err := a.set.Play(); err != nil {
		a.state = prev
		a.mu.Unlock()
		return err
	}

	if a.armed {
		a.ended = make(chan struct{})
	}
	a.armed = true
	run := a.ended
	go a.watchEnd(run, a.set.Anchor().Element.Ended())
	a.mu.Unlock()

	a.log.WithField("started", a.set.Started()).Debug("playback started")
	if onPlay != nil {
		onPlay()
	}
	return nil
}

// watchEnd waits for the anchor of one playback run.
func (a *AudioReactive) watchEnd(run chan struct{}, anchorEnded <-chan struct{}) {
	select {
	case <-anchorEnded:
	case <-a.done:
		return
	}

	a.mu.Lock()
	if a.ended != run || a.state != StatePlaying {
		a.mu.Unlock()
		return
	}
	a.state = StateEnded
	close(run)
	hook := a.onEnded
	a.mu.Unlock()

	a.log.Debug("playback ended")
	hook()
}

// LoadAndPlay is Load followed by Play.
func (a *AudioReactive) LoadAndPlay(ctx context.Context, onPlay func()) error {
	if err := a.Load(ctx, nil); err != nil {
		return err
	}
	return a.Play(onPlay)
}

// LoadAndCalibrate is Load followed by Calibrate.
func (a *AudioReactive) LoadAndCalibrate(ctx context.Context, onComplete func(analysis.Bounds)) (analysis.Bounds, error) {
	if err := a.Load(ctx, nil); err != nil {
		return analysis.Bounds{}, err
	}
	return a.Calibrate(ctx, onComplete)
}

// SetSongFrequencies applies raw bounds from an earlier calibration instead
// of running one.
func (a *AudioReactive) SetSongFrequencies(b analysis.Bounds) {
	a.mu.Lock()
	a.norm.SetRange(b)
	a.mu.Unlock()

	a.log.WithFields(logrus.Fields{
		"min_power": b.Min,
		"max_power": b.Max,
	}).Info("calibration set")
}

// Calibration reports the raw bounds in use, if any.
func (a *AudioReactive) Calibration() (analysis.Bounds, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.norm.Bounds()
}

// playing resolves a source for a spectrum query. Must be called with mu held.
func (a *AudioReactive) playing(id string, named bool) (*Source, error) {
	if !named && a.set.Multiple() {
		return nil, ErrUnsupported
	}
	if a.state != StatePlaying {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, a.state)
	}
	if !named {
		return a.set.Anchor(), nil
	}
	return a.set.Source(id)
}

// AverageValue is the calibrated intensity of the current frame. It is not
// clamped.
func (a *AudioReactive) AverageValue() (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	src, err := a.playing("", false)
	if err != nil {
		return 0, err
	}

	raw, err := src.Analyzer.AveragePower()
	if err != nil {
		return 0, err
	}
	return a.norm.Intensity(raw)
}

// SourcePower is the uncalibrated power of one named source, raw power over
// MAX_POWER. It works in both modes.
func (a *AudioReactive) SourcePower(id string) (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	src, err := a.playing(id, true)
	if err != nil {
		return 0, err
	}

	raw, err := src.Analyzer.AveragePower()
	if err != nil {
		return 0, err
	}
	return a.norm.Analysed(raw), nil
}

// FrequencyValues returns N per-bin levels of the single source.
func (a *AudioReactive) FrequencyValues() ([]float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	src, err := a.playing("", false)
	if err != nil {
		return nil, err
	}
	return src.Analyzer.NormalizedBins(), nil
}

func (a *AudioReactive) SourceFrequencyValues(id string) ([]float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	src, err := a.playing(id, true)
	if err != nil {
		return nil, err
	}
	return src.Analyzer.NormalizedBins(), nil
}

// AudioProgress is the anchor position in percent, two decimals.
func (a *AudioReactive) AudioProgress() (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StatePlaying && a.state != StateEnded {
		return 0, fmt.Errorf("%w: %s", ErrInvalidState, a.state)
	}
	return a.set.Progress(), nil
}

// OnEnded replaces the hook fired once per run when the anchor ends. nil
// restores the no-op.
func (a *AudioReactive) OnEnded(fn func()) {
	if fn == nil {
		fn = func() {}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEnded = fn
}

// Ended is closed when the current or next playback run ends.
func (a *AudioReactive) Ended() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ended
}

// Close stops a pending load or calibration, releases the end watcher and
// closes every source. It is idempotent.
func (a *AudioReactive) Close() error {
	a.mu.Lock()
	if a.state == StateClosed {
		a.mu.Unlock()
		return nil
	}
	a.state = StateClosed
	close(a.done)
	busy := a.cancel != nil
	if busy {
		a.cancel()
	}
	a.mu.Unlock()

	a.log.Debug("closed")
	if busy {
		// the pending load or calibration closes the sources on its way out
		return nil
	}
	return a.set.Close()
}

// Clamp bounds v to [0, 1] for renderers that need it.
func Clamp(v float64) float64 {
	return max(0, min(v, 1))
}
