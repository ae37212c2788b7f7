// SPDX-License-Identifier: EPL-2.0

// Package ui renders an AudioReactive in the terminal with Bubbletea.
package ui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ik5/audreact"
	"github.com/ik5/audreact/analysis"
)

// Reactive is the part of audreact.AudioReactive the renderer pulls from.
type Reactive interface {
	AverageValue() (float64, error)
	FrequencyValues() ([]float64, error)
	SourcePower(id string) (float64, error)
	AudioProgress() (float64, error)
	State() audreact.State
}

// Options configure a Model.
type Options struct {
	Title     string
	Sources   []string // stems shown in multi source mode
	Bands     int
	Clamp     bool
	FrameRate int
}

type tickMsg time.Time

// ReloadedMsg tells the model new bounds were applied.
type ReloadedMsg analysis.Bounds

// Model is the Bubbletea model for the watch view.
type Model struct {
	ar       Reactive
	opts     Options
	interval time.Duration

	progress   float64
	intensity  float64
	calibrated bool
	levels     []float64
	powers     []float64
	state      audreact.State
	status     string
	err        error
	quitting   bool
}

func NewModel(ar Reactive, opts Options) Model {
	if opts.Bands < 1 {
		opts.Bands = 24
	}
	if opts.FrameRate < 1 {
		opts.FrameRate = 30
	}

	return Model{
		ar:       ar,
		opts:     opts,
		interval: time.Second / time.Duration(opts.FrameRate),
		levels:   make([]float64, opts.Bands),
		powers:   make([]float64, len(opts.Sources)),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case ReloadedMsg:
		m.status = "calibration reloaded"
		return m, nil

	case tickMsg:
		m.poll()
		return m, m.tick()
	}

	return m, nil
}

// poll reads one frame of values.
func (m *Model) poll() {
	m.state = m.ar.State()
	m.err = nil

	if p, err := m.ar.AudioProgress(); err == nil {
		m.progress = p
	}
	if m.state != audreact.StatePlaying {
		return
	}

	if len(m.opts.Sources) > 0 {
		for i, id := range m.opts.Sources {
			if v, err := m.ar.SourcePower(id); err == nil {
				m.powers[i] = v
			}
		}
		return
	}

	v, err := m.ar.AverageValue()
	switch {
	case err == nil:
		if m.opts.Clamp {
			v = audreact.Clamp(v)
		}
		m.intensity = v
		m.calibrated = true
	case errors.Is(err, audreact.ErrUncalibrated):
		m.calibrated = false
	default:
		m.err = err
	}

	bins, err := m.ar.FrequencyValues()
	if err != nil {
		m.err = err
		return
	}
	m.levels = Fold(bins, m.opts.Bands)
}

// Fold averages per-bin values (m/N) into bands and rescales them to 0..1.
func Fold(bins []float64, bands int) []float64 {
	out := make([]float64, bands)
	if len(bins) == 0 || bands < 1 {
		return out
	}

	scale := float64(len(bins)) / analysis.MaxMagnitude
	for b := range bands {
		lo := b * len(bins) / bands
		hi := max((b+1)*len(bins)/bands, lo+1)
		hi = min(hi, len(bins))

		var sum float64
		for _, v := range bins[lo:hi] {
			sum += v
		}
		out[b] = min(sum/float64(hi-lo)*scale, 1)
	}

	return out
}
