// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"
)

type fakePCM struct {
	data []int
	err  error
}

func (f *fakePCM) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := copy(buf.Data, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("this is not an aiff file at all")},
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

	s := &source{dec: &fakePCM{}, sampleRate: 22050, channels: 2, scale: 32768}
	if s.SampleRate() != 22050 {
		t.Errorf("SampleRate() = %d, want 22050", s.SampleRate())
	}
	if s.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", s.Channels())
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSource_BitDepthNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bits  int
		value int
		want  float32
	}{
		// AIFF 8-bit PCM is signed, unlike WAV
		{8, -64, -0.5},
		{16, 16384, 0.5},
		{24, 8388607, 8388607.0 / 8388608.0},
		{32, -2147483648, -1},
	}

	for _, tt := range tests {
		s := &source{dec: &fakePCM{data: []int{tt.value}}, channels: 1, scale: float32(int64(1) << (tt.bits - 1))}

		buf := make([]float32, 1)
		if _, err := s.ReadSamples(buf); err != nil && err != io.EOF {
			t.Fatalf("%d-bit ReadSamples() error = %v", tt.bits, err)
		}
		if math.Abs(float64(buf[0]-tt.want)) > 1e-6 {
			t.Errorf("%d-bit %d = %v, want %v", tt.bits, tt.value, buf[0], tt.want)
		}
	}
}

func TestSource_ReadSamples_MultipleReads(t *testing.T) {
	t.Parallel()

	s := &source{dec: &fakePCM{data: []int{1, 2, 3, 4, 5}}, channels: 1, scale: 1}

	buf := make([]float32, 2)
	var got []float32
	for {
		n, err := s.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if len(got) != 5 || got[4] != 5 {
		t.Errorf("read %v, want [1 2 3 4 5]", got)
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	s := &source{dec: &fakePCM{data: []int{1}}, channels: 1, scale: 1}
	if n, err := s.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := &source{dec: &fakePCM{err: boom}, channels: 1, scale: 1}
	if _, err := s.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want boom", err)
	}
}
