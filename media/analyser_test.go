// SPDX-License-Identifier: EPL-2.0

package media

import (
	"math"
	"testing"
)

// constSampler always shows the same window. end is the playhead the
// window is reported at.
type constSampler struct {
	samples []float32
	end     int
}

func (s *constSampler) Window(dst []float32) int {
	copy(dst, s.samples)
	return s.end
}

func silent(n int) *constSampler {
	return &constSampler{samples: make([]float32, n)}
}

func sine(n, rate int, freq, amp float64) *constSampler {
	s := silent(n)
	for i := range s.samples {
		s.samples[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return s
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SampleRate = 8000
	cfg.FFTSize = 256
	cfg.Smoothing = 0
	return cfg
}

func TestAnalyserSilence(t *testing.T) {
	t.Parallel()

	a := NewAnalyser(silent(256), testConfig())

	dst := make([]uint8, a.FrequencyBinCount())
	if n := a.ByteFrequencyData(dst); n != 128 {
		t.Fatalf("ByteFrequencyData() = %d, want 128", n)
	}
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("bin %d = %d, want 0 for silence", i, v)
		}
	}
}

func TestAnalyserPeak(t *testing.T) {
	t.Parallel()

	// 1000 Hz at 8000 Hz over 256 points lands exactly on bin 32
	a := NewAnalyser(sine(256, 8000, 1000, 0.001), testConfig())

	dst := make([]uint8, 128)
	a.ByteFrequencyData(dst)

	peak := 0
	for i, v := range dst {
		if v > dst[peak] {
			peak = i
		}
	}
	if peak != 32 {
		t.Errorf("peak at bin %d, want 32 (spectrum %v)", peak, dst)
	}
	if dst[32] == 0 || dst[32] == 255 {
		t.Errorf("peak value %d should sit inside the decibel range", dst[32])
	}
	if dst[31] >= dst[32] || dst[33] >= dst[32] {
		t.Errorf("neighbours %d/%d not below peak %d", dst[31], dst[33], dst[32])
	}
}

func TestAnalyserLoudClamps(t *testing.T) {
	t.Parallel()

	a := NewAnalyser(sine(256, 8000, 1000, 1), testConfig())

	dst := make([]uint8, 128)
	a.ByteFrequencyData(dst)
	if dst[32] != 255 {
		t.Errorf("bin 32 = %d, want 255 above max decibels", dst[32])
	}
}

func TestAnalyserSmoothing(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Smoothing = 0.8
	src := sine(256, 8000, 1000, 0.001)
	a := NewAnalyser(src, cfg)

	dst := make([]uint8, 128)
	a.ByteFrequencyData(dst)
	first := dst[32]
	for range 50 {
		src.end += renderQuantum
		a.ByteFrequencyData(dst)
	}
	settled := dst[32]

	if first >= settled {
		t.Errorf("smoothed peak did not rise: first %d, settled %d", first, settled)
	}

	b := NewAnalyser(sine(256, 8000, 1000, 0.001), testConfig())
	ref := make([]uint8, 128)
	b.ByteFrequencyData(ref)
	if diff := int(ref[32]) - int(settled); diff < -1 || diff > 1 {
		t.Errorf("settled peak %d, want about %d", settled, ref[32])
	}
}

func TestAnalyserSameFrameReadsAgree(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Smoothing = 0.8
	src := sine(256, 8000, 1000, 0.001)
	src.end = 4000
	a := NewAnalyser(src, cfg)

	first := make([]uint8, 128)
	a.ByteFrequencyData(first)

	// a renderer reading power and bins in one frame
	second := make([]uint8, 128)
	a.ByteFrequencyData(second)

	// still inside the same render quantum
	src.end += renderQuantum / 2
	third := make([]uint8, 128)
	a.ByteFrequencyData(third)

	for k := range first {
		if first[k] != second[k] || first[k] != third[k] {
			t.Fatalf("bin %d read %d, %d, %d within one quantum", k, first[k], second[k], third[k])
		}
	}

	src.end += renderQuantum
	next := make([]uint8, 128)
	a.ByteFrequencyData(next)
	if next[32] <= first[32] {
		t.Errorf("bin 32 = %d after the playhead moved, want above %d", next[32], first[32])
	}
}

func TestAnalyserShortDestination(t *testing.T) {
	t.Parallel()

	a := NewAnalyser(silent(256), testConfig())
	if n := a.ByteFrequencyData(make([]uint8, 10)); n != 10 {
		t.Errorf("ByteFrequencyData() = %d, want 10", n)
	}
}

func TestBlackmanEndpoints(t *testing.T) {
	t.Parallel()

	w := blackman(64)
	if math.Abs(w[0]) > 1e-12 {
		t.Errorf("w[0] = %v, want 0", w[0])
	}
	if math.Abs(w[32]-1) > 1e-12 {
		t.Errorf("w[32] = %v, want 1", w[32])
	}
}
