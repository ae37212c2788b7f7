// SPDX-License-Identifier: EPL-2.0

package media

import (
	"context"
	"sync"
	"time"
)

// Track is an Element backed by a fully decoded mono buffer. Playback is
// driven by the wall clock; nothing is sent to an output device.
type Track struct {
	locator string
	rate    int
	now     func() time.Time
	ready   chan struct{}

	mu       sync.Mutex
	samples  []float32
	duration float64
	err      error
	loaded   bool
	closed   bool
	playing  bool
	started  time.Time
	ended    chan struct{}
	armed    bool
	timer    *time.Timer
}

func newTrack(locator string, rate int, now func() time.Time) *Track {
	if now == nil {
		now = time.Now
	}
	return &Track{
		locator: locator,
		rate:    rate,
		now:     now,
		ready:   make(chan struct{}),
		ended:   make(chan struct{}),
	}
}

// load runs decode and publishes the result. It closes ready exactly once.
func (t *Track) load(ctx context.Context, decode func(context.Context) ([]float32, error)) {
	defer close(t.ready)

	samples, err := decode(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.err = err
		return
	}
	t.samples = samples
	t.duration = float64(len(samples)) / float64(t.rate)
	t.loaded = true
}

func (t *Track) Locator() string        { return t.locator }
func (t *Track) Ready() <-chan struct{} { return t.ready }

func (t *Track) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Track) Duration() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

func (t *Track) CurrentTime() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position()
}

// position must be called with mu held.
func (t *Track) position() float64 {
	if !t.playing {
		return 0
	}
	return min(t.now().Sub(t.started).Seconds(), t.duration)
}

// Play starts from 0. A second Play abandons the previous run and hands out
// a fresh Ended channel.
func (t *Track) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.closed:
		return ErrClosed
	case !t.loaded:
		return ErrNotLoaded
	}

	if t.armed {
		t.timer.Stop()
		t.ended = make(chan struct{})
	}

	ended := t.ended
	t.armed = true
	t.playing = true
	t.started = t.now()
	t.timer = time.AfterFunc(time.Duration(t.duration*float64(time.Second)), func() {
		close(ended)
	})

	return nil
}

// Ended returns the channel of the current or next playback run.
func (t *Track) Ended() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ended
}

func (t *Track) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.closed = true
	t.playing = false
	return nil
}

func (t *Track) Window(dst []float32) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	end := min(int(t.position()*float64(t.rate)), len(t.samples))
	start := end - len(dst)

	pad := 0
	if start < 0 {
		pad = -start
		start = 0
	}
	clear(dst[:pad])
	copy(dst[pad:], t.samples[start:end])

	return end
}
