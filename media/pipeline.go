// SPDX-License-Identifier: EPL-2.0

package media

import "context"

// Element is one playable track as the host exposes it.
type Element interface {
	Locator() string
	// Ready is closed once loading finished, successfully or not.
	Ready() <-chan struct{}
	// Err reports why loading failed. Only meaningful after Ready.
	Err() error
	// Duration in seconds, known after Ready.
	Duration() float64
	// CurrentTime is the playback position in seconds.
	CurrentTime() float64
	// Play starts playback from the beginning.
	Play() error
	// Ended is closed when the current playback reaches the end.
	Ended() <-chan struct{}
	Close() error
}

// Spectrum is a live byte spectrum for one element.
type Spectrum interface {
	ByteFrequencyData(dst []uint8) int
}

// Pipeline is the host audio pipeline handle. FrequencyBinCount is fixed
// for the lifetime of the pipeline.
type Pipeline interface {
	FrequencyBinCount() int
	// Open starts loading locator and returns immediately.
	Open(ctx context.Context, locator string) (Element, error)
	// Analyse attaches a spectrum analyser to el.
	Analyse(el Element) (Spectrum, error)
}

// Sampler exposes the most recent mono samples of a playing element.
type Sampler interface {
	// Window fills dst with the len(dst) samples leading up to the current
	// position, zero padded at the front, and returns that position as a
	// sample index.
	Window(dst []float32) (end int)
}
