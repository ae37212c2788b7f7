// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

const (
	// one-pole low-pass coefficient applied to every source frame when downsampling
	lowpassAlpha = 0.5
	// consecutive empty reads tolerated before giving up on a source
	maxStalls = 64
)

// Resampler streams from src to a target sample rate using Catmull-Rom
// cubic interpolation. Works on interleaved samples and preserves the
// channel count.
type Resampler struct {
	src      Source
	rate     int
	ratio    float64 // source frames per output frame
	channels int

	// hist[1] is the source frame at index, hist[0] the one before it and
	// hist[2], hist[3] the two after. Missing frames repeat the last real one.
	hist   [4][]float32
	index  int
	total  int // real frames in src, -1 until the source is exhausted
	read   int
	pos    float64
	primed bool

	buf    []float32
	bufPos int
	bufLen int
	srcEOF bool
	stalls int

	lowpass bool
	state   []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		rate:     dstRate,
		ratio:    ratio,
		channels: channels,
		total:    -1,
		buf:      make([]float32, 1024*channels),
		lowpass:  ratio > 1.0,
		state:    make([]float32, channels),
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// ReadSamples produces interleaved samples at the target rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written < len(dst) {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written, err
			}
		}

		if r.exhausted() {
			return written, io.EOF
		}

		x := float32(r.pos)
		for c := range r.channels {
			dst[written+c] = cubic(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}

		written += r.channels
		r.pos += r.ratio
	}

	return written, nil
}

func (r *Resampler) exhausted() bool {
	return r.total >= 0 && r.index+1 >= r.total
}

func (r *Resampler) prime() error {
	ok, err := r.nextFrame(r.hist[1])
	if err != nil {
		return err
	}
	if !ok {
		r.total = 0
		return io.EOF
	}

	copy(r.hist[0], r.hist[1])
	for i := 2; i < len(r.hist); i++ {
		if err := r.fill(i); err != nil {
			return err
		}
	}

	r.primed = true
	return nil
}

func (r *Resampler) advance() error {
	oldest := r.hist[0]
	r.hist[0], r.hist[1], r.hist[2] = r.hist[1], r.hist[2], r.hist[3]
	r.hist[3] = oldest
	r.index++

	return r.fill(3)
}

func (r *Resampler) fill(i int) error {
	ok, err := r.nextFrame(r.hist[i])
	if err != nil {
		return err
	}
	if !ok {
		if r.total < 0 {
			r.total = r.read
		}
		copy(r.hist[i], r.hist[i-1])
	}
	return nil
}

// nextFrame copies the next whole source frame into dst, reporting false
// once the source is exhausted.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	for r.bufLen-r.bufPos < r.channels {
		if r.srcEOF {
			return false, nil
		}

		left := copy(r.buf, r.buf[r.bufPos:r.bufLen])
		r.bufPos, r.bufLen = 0, left

		n, err := r.src.ReadSamples(r.buf[left:])
		r.bufLen += n

		switch {
		case err == io.EOF:
			r.srcEOF = true
		case err != nil:
			return false, fmt.Errorf("%w", err)
		case n == 0:
			r.stalls++
			if r.stalls > maxStalls {
				return false, ErrNoProgress
			}
		default:
			r.stalls = 0
		}
	}

	copy(dst, r.buf[r.bufPos:r.bufPos+r.channels])
	r.bufPos += r.channels

	if r.lowpass {
		if r.read == 0 {
			copy(r.state, dst)
		}
		for c := range dst {
			dst[c] = lowpassAlpha*dst[c] + (1-lowpassAlpha)*r.state[c]
			r.state[c] = dst[c]
		}
	}

	r.read++
	return true, nil
}

// cubic evaluates the Catmull-Rom spline through y0..y3 at x in [0,1]
// between y1 and y2.
func cubic(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	return ((a0*x+a1)*x+a2)*x + y1
}
