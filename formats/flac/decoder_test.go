// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/mewkiz/flac/frame"
)

// fakeStream serves prepared frames, one subframe slice per channel.
type fakeStream struct {
	frames [][][]int32
	err    error
	closed bool
}

func (f *fakeStream) ParseNext() (*frame.Frame, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.frames) == 0 {
		return nil, io.EOF
	}

	fr := &frame.Frame{}
	for _, samples := range f.frames[0] {
		fr.Subframes = append(fr.Subframes, &frame.Subframe{Samples: samples})
	}
	f.frames = f.frames[1:]
	return fr, nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

func newSource(channels int, frames ...[][]int32) (*source, *fakeStream) {
	fake := &fakeStream{frames: frames}
	return &source{dec: fake, sampleRate: 44100, channels: channels, scale: 32768}, fake
}

func readAll(t *testing.T, s *source, size int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, size)
	for {
		n, err := s.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("this is not a flac stream at all")},
		{"wav", []byte("RIFF\x24\x00\x00\x00WAVEfmt ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); err == nil {
				t.Error("Decode() error = nil, want failure")
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	s, fake := newSource(2)
	if s.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", s.SampleRate())
	}
	if s.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", s.Channels())
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !fake.closed {
		t.Error("Close() did not close the stream")
	}
}

func TestSource_InterleavesChannels(t *testing.T) {
	t.Parallel()

	s, _ := newSource(2,
		[][]int32{{16384, -16384}, {0, 8192}},
		[][]int32{{32767}, {-32768}},
	)

	got := readAll(t, s, 64)
	want := []float32{0.5, 0, -0.5, 0.25, 32767.0 / 32768.0, -1}
	if len(got) != len(want) {
		t.Fatalf("read %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSource_SmallReadsSpanFrames(t *testing.T) {
	t.Parallel()

	s, _ := newSource(1,
		[][]int32{{1, 2, 3}},
		[][]int32{{4, 5}},
		[][]int32{{6, 7, 8, 9}},
	)
	s.scale = 1

	got := readAll(t, s, 2)
	if len(got) != 9 {
		t.Fatalf("read %d samples, want 9", len(got))
	}
	for i, v := range got {
		if v != float32(i+1) {
			t.Errorf("sample[%d] = %v, want %d", i, v, i+1)
		}
	}
}

func TestSource_TrimsToWholeFrames(t *testing.T) {
	t.Parallel()

	s, _ := newSource(2, [][]int32{{1, 2, 3}, {4, 5, 6}})

	n, err := s.ReadSamples(make([]float32, 5))
	if err != nil || n != 4 {
		t.Errorf("ReadSamples(5) = (%d, %v), want (4, nil)", n, err)
	}
	if n, err := s.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("ReadSamples(1) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_EOF(t *testing.T) {
	t.Parallel()

	s, _ := newSource(1, [][]int32{{1, 2}})

	n, err := s.ReadSamples(make([]float32, 8))
	if n != 2 || err != io.EOF {
		t.Errorf("ReadSamples() = (%d, %v), want (2, io.EOF)", n, err)
	}
	n, err = s.ReadSamples(make([]float32, 8))
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() after end = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestSource_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := &source{dec: &fakeStream{err: boom}, channels: 1, scale: 1}
	if _, err := s.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want boom", err)
	}

	mismatch, _ := newSource(2, [][]int32{{1, 2}})
	if _, err := mismatch.ReadSamples(make([]float32, 4)); !errors.Is(err, ErrChannelMismatch) {
		t.Errorf("ReadSamples() error = %v, want ErrChannelMismatch", err)
	}
}
