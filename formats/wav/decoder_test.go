// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audreact/internal/audiotest"
)

// fakePCM hands out data in chunks of at most step ints.
type fakePCM struct {
	data []int
	step int
	err  error
}

func (f *fakePCM) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := min(len(buf.Data), len(f.data))
	if f.step > 0 {
		n = min(n, f.step)
	}
	copy(buf.Data, f.data[:n])
	f.data = f.data[n:]
	return n, nil
}

func TestDecoder_ValidWAVFile(t *testing.T) {
	t.Parallel()

	data := audiotest.WAV16(8000, 1, []int16{0, 16384, -16384, 32767, -32768})
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if src.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", src.SampleRate())
	}
	if src.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", src.Channels())
	}

	buf := make([]float32, 16)
	n, err := src.ReadSamples(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 5 {
		t.Fatalf("ReadSamples() n = %d, want 5", n)
	}

	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0, -1}
	for i, w := range want {
		if math.Abs(float64(buf[i]-w)) > 1e-6 {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], w)
		}
	}
}

func TestDecoder_StereoWAVFile(t *testing.T) {
	t.Parallel()

	data := audiotest.WAV16(44100, 2, []int16{100, 200, 300, 400})
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
}

func TestDecoder_PlainReader(t *testing.T) {
	t.Parallel()

	data := audiotest.SineWAV16(8000, 800, 440)
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var total int
	buf := make([]float32, 256)
	for {
		n, err := src.ReadSamples(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	if total != 800 {
		t.Errorf("read %d samples, want 800", total)
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("this is not a wav file at all, not even close")},
		{"not WAVE", notWave()},
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

func notWave() []byte {
	data := audiotest.WAV16(8000, 1, []int16{1, 2})
	copy(data[8:12], "AVI ")
	return data
}

func TestSource_EightBit(t *testing.T) {
	t.Parallel()

	src := &source{
		dec:        &fakePCM{data: []int{128, 0, 255, 192}},
		sampleRate: 8000,
		channels:   1,
		bitDepth:   8,
	}

	buf := make([]float32, 4)
	n, _ := src.ReadSamples(buf)
	if n != 4 {
		t.Fatalf("ReadSamples() n = %d, want 4", n)
	}

	want := []float32{0, -1, 127.0 / 128.0, 0.5}
	for i, w := range want {
		if math.Abs(float64(buf[i]-w)) > 1e-6 {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], w)
		}
	}
}

func TestSource_BitDepthNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bits  int
		value int
		want  float32
	}{
		{16, 16384, 0.5},
		{24, -4194304, -0.5},
		{32, 1073741824, 0.5},
	}

	for _, tt := range tests {
		src := &source{dec: &fakePCM{data: []int{tt.value}}, channels: 1, bitDepth: tt.bits}
		buf := make([]float32, 1)
		if _, err := src.ReadSamples(buf); err != nil && err != io.EOF {
			t.Fatalf("%d-bit ReadSamples() error = %v", tt.bits, err)
		}
		if math.Abs(float64(buf[0]-tt.want)) > 1e-6 {
			t.Errorf("%d-bit %d = %v, want %v", tt.bits, tt.value, buf[0], tt.want)
		}
	}
}

func TestSource_ShortReadIsEOF(t *testing.T) {
	t.Parallel()

	src := &source{dec: &fakePCM{data: []int{1, 2, 3}}, channels: 1, bitDepth: 16}

	n, err := src.ReadSamples(make([]float32, 8))
	if n != 3 || err != io.EOF {
		t.Errorf("ReadSamples() = (%d, %v), want (3, io.EOF)", n, err)
	}

	n, err = src.ReadSamples(make([]float32, 8))
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() after end = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src := &source{dec: &fakePCM{data: []int{1}}, channels: 1, bitDepth: 16}
	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := &source{dec: &fakePCM{err: boom}, channels: 1, bitDepth: 16}
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want boom", err)
	}
}

func TestSource_BufferGrowth(t *testing.T) {
	t.Parallel()

	data := make([]int, 100)
	for i := range data {
		data[i] = i
	}
	src := &source{dec: &fakePCM{data: data}, channels: 1, bitDepth: 16}

	small := make([]float32, 10)
	if n, _ := src.ReadSamples(small); n != 10 {
		t.Fatalf("ReadSamples(10) n = %d", n)
	}

	large := make([]float32, 50)
	n, _ := src.ReadSamples(large)
	if n != 50 {
		t.Fatalf("ReadSamples(50) n = %d", n)
	}
	if got, want := large[0], float32(10)/32768; got != want {
		t.Errorf("large[0] = %v, want %v", got, want)
	}
}
