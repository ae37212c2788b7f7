// SPDX-License-Identifier: EPL-2.0

package audiotest

import "sync"

// Spectrum replays a fixed sequence of byte spectra, one per
// ByteFrequencyData call. The last snapshot repeats once the sequence runs out.
type Spectrum struct {
	mu     sync.Mutex
	frames [][]uint8
	next   int
	calls  int
}

// NewSpectrum returns a Spectrum replaying frames in order.
func NewSpectrum(frames ...[]uint8) *Spectrum {
	return &Spectrum{frames: frames}
}

// Uniform returns a snapshot of n bins all set to v.
func Uniform(n int, v uint8) []uint8 {
	s := make([]uint8, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func (s *Spectrum) ByteFrequencyData(dst []uint8) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if len(s.frames) == 0 {
		clear(dst)
		return len(dst)
	}

	frame := s.frames[min(s.next, len(s.frames)-1)]
	if s.next < len(s.frames) {
		s.next++
	}

	n := copy(dst, frame)
	clear(dst[n:])
	return len(dst)
}

// Rewind starts the sequence over.
func (s *Spectrum) Rewind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = 0
}

// Calls reports how many snapshots were read.
func (s *Spectrum) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
