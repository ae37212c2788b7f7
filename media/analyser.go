// SPDX-License-Identifier: EPL-2.0

package media

import (
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// renderQuantum is the block size, in samples, at which the spectrum is
// refreshed. Reads within one block see the same data.
const renderQuantum = 128

// Analyser computes a byte spectrum from the samples of a Sampler the way a
// browser AnalyserNode does: Blackman window, FFT, magnitude over size,
// exponential smoothing across render quanta, then decibels mapped onto 0..255.
type Analyser struct {
	src Sampler

	smoothing float64
	minDB     float64
	scale     float64

	mu     sync.Mutex
	fft    *fourier.FFT
	window []float64
	frame  []float32
	in     []float64
	coeffs []complex128
	smooth []float64
	block  int
	primed bool
}

func NewAnalyser(src Sampler, cfg Config) *Analyser {
	n := cfg.FFTSize

	return &Analyser{
		src:       src,
		smoothing: cfg.Smoothing,
		minDB:     cfg.MinDecibels,
		scale:     255 / (cfg.MaxDecibels - cfg.MinDecibels),
		fft:       fourier.NewFFT(n),
		window:    blackman(n),
		frame:     make([]float32, n),
		in:        make([]float64, n),
		coeffs:    make([]complex128, n/2+1),
		smooth:    make([]float64, n/2),
	}
}

func (a *Analyser) FrequencyBinCount() int { return len(a.smooth) }

// ByteFrequencyData writes min(len(dst), bins) values and returns the count.
// The smoothing state advances once per render quantum of the playhead, so
// repeated reads of one frame agree.
func (a *Analyser) ByteFrequencyData(dst []uint8) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	block := a.src.Window(a.frame) / renderQuantum
	if !a.primed || block != a.block {
		a.primed, a.block = true, block
		a.update()
	}

	n := min(len(dst), len(a.smooth))
	for k := range n {
		dst[k] = a.toByte(a.smooth[k])
	}

	return n
}

// update folds the current frame into the smoothed magnitudes. Must be
// called with mu held.
func (a *Analyser) update() {
	for i, s := range a.frame {
		a.in[i] = float64(s) * a.window[i]
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.in)

	size := float64(len(a.frame))
	for k := range a.smooth {
		mag := cmplx.Abs(a.coeffs[k]) / size
		a.smooth[k] = a.smoothing*a.smooth[k] + (1-a.smoothing)*mag
	}
}

func (a *Analyser) toByte(mag float64) uint8 {
	db := 20 * math.Log10(mag)
	v := math.Floor(a.scale * (db - a.minDB))
	return uint8(max(0, min(v, 255)))
}

func blackman(n int) []float64 {
	const (
		a0 = 0.42
		a1 = 0.5
		a2 = 0.08
	)

	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return w
}
