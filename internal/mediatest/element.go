// SPDX-License-Identifier: EPL-2.0

// Package mediatest fakes the host pipeline so playback can be driven by hand.
package mediatest

import (
	"sync"

	"github.com/ik5/audreact/media"
)

// Element is a media.Element whose readiness, clock and end are set by the test.
type Element struct {
	locator string
	ready   chan struct{}
	once    sync.Once

	mu          sync.Mutex
	err         error
	duration    float64
	current     float64
	plays       int
	ended       chan struct{}
	endedClosed bool
	closed      bool
}

func NewElement(locator string) *Element {
	return &Element{
		locator: locator,
		ready:   make(chan struct{}),
		ended:   make(chan struct{}),
	}
}

// SetReady records duration and signals readiness. Later calls do nothing.
func (e *Element) SetReady(duration float64) {
	e.mu.Lock()
	e.duration = duration
	e.mu.Unlock()

	e.once.Do(func() { close(e.ready) })
}

// Fail signals readiness with a load error.
func (e *Element) Fail(err error) {
	e.mu.Lock()
	e.err = err
	e.mu.Unlock()

	e.once.Do(func() { close(e.ready) })
}

func (e *Element) SetTime(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = seconds
}

// Finish ends the current playback run.
func (e *Element) Finish() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.endedClosed {
		close(e.ended)
		e.endedClosed = true
	}
}

func (e *Element) Plays() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.plays
}

func (e *Element) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Element) Locator() string        { return e.locator }
func (e *Element) Ready() <-chan struct{} { return e.ready }

func (e *Element) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Element) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

func (e *Element) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *Element) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return media.ErrClosed
	}
	if e.endedClosed {
		e.ended = make(chan struct{})
		e.endedClosed = false
	}
	e.plays++
	e.current = 0
	return nil
}

func (e *Element) Ended() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ended
}

func (e *Element) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}
