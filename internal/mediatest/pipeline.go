// SPDX-License-Identifier: EPL-2.0

package mediatest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ik5/audreact/internal/audiotest"
	"github.com/ik5/audreact/media"
)

var ErrOpen = errors.New("mediatest: open failed")

// Pipeline is a media.Pipeline handing out Elements. Elements are created on
// first Open unless Add registered one before.
type Pipeline struct {
	bins int

	mu       sync.Mutex
	elements map[string]*Element
	spectra  map[string]media.Spectrum
	failing  map[string]bool
	opened   []string
}

func NewPipeline(bins int) *Pipeline {
	return &Pipeline{
		bins:     bins,
		elements: make(map[string]*Element),
		spectra:  make(map[string]media.Spectrum),
		failing:  make(map[string]bool),
	}
}

// Add registers locator with the spectrum its analyser will read. A nil
// spectrum reads silence.
func (p *Pipeline) Add(locator string, spectrum media.Spectrum) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()

	el := NewElement(locator)
	p.elements[locator] = el
	if spectrum != nil {
		p.spectra[locator] = spectrum
	}
	return el
}

// FailOpen makes Open of locator return ErrOpen.
func (p *Pipeline) FailOpen(locator string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failing[locator] = true
}

func (p *Pipeline) Element(locator string) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.elements[locator]
}

// Opened lists the locators passed to Open, in call order.
func (p *Pipeline) Opened() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.opened...)
}

func (p *Pipeline) FrequencyBinCount() int { return p.bins }

func (p *Pipeline) Open(_ context.Context, locator string) (media.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.opened = append(p.opened, locator)
	if p.failing[locator] {
		return nil, ErrOpen
	}

	el, ok := p.elements[locator]
	if !ok {
		el = NewElement(locator)
		p.elements[locator] = el
	}
	return el, nil
}

func (p *Pipeline) Analyse(el media.Element) (media.Spectrum, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.spectra[el.Locator()]; ok {
		return s, nil
	}
	return audiotest.NewSpectrum(), nil
}

// Ticker is a media.Ticker fired by hand. Tick blocks until the tick is
// received, so a test knows the consumer has taken it.
type Ticker struct {
	c    chan time.Time
	mu   sync.Mutex
	stop bool
}

func NewTicker() *Ticker {
	return &Ticker{c: make(chan time.Time)}
}

func (t *Ticker) Tick() {
	t.c <- time.Now()
}

func (t *Ticker) C() <-chan time.Time { return t.c }

func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stop = true
}

func (t *Ticker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop
}
