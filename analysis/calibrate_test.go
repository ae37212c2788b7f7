// SPDX-License-Identifier: EPL-2.0

package analysis

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ik5/audreact/internal/audiotest"
)

// runPass drives one calibration over frames, delivering one tick per frame
// and ending the track after the last one.
func runPass(t *testing.T, c *Calibrator, frames [][]uint8) (Bounds, error) {
	t.Helper()

	a, err := NewFrequencyAnalyzer(audiotest.NewSpectrum(frames...), len(frames[0]))
	if err != nil {
		t.Fatalf("NewFrequencyAnalyzer() error = %v", err)
	}

	ticks := make(chan time.Time)
	ended := make(chan struct{})

	type result struct {
		b   Bounds
		err error
	}
	done := make(chan result, 1)
	go func() {
		b, err := c.Run(context.Background(), ticks, ended, a)
		done <- result{b, err}
	}()

	for range frames {
		ticks <- time.Now()
	}
	close(ended)

	r := <-done
	return r.b, r.err
}

func TestCalibrator_StartState(t *testing.T) {
	t.Parallel()

	c := NewCalibrator()
	b := c.Bounds()

	if !math.IsInf(b.Min, 1) {
		t.Errorf("initial Min = %v, want +Inf", b.Min)
	}
	if b.Max != 0 {
		t.Errorf("initial Max = %v, want 0", b.Max)
	}
}

func TestCalibrator_Run(t *testing.T) {
	t.Parallel()

	frames := [][]uint8{
		audiotest.Uniform(4, 10),
		audiotest.Uniform(4, 200),
		audiotest.Uniform(4, 50),
	}

	c := NewCalibrator()
	b, err := runPass(t, c, frames)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Uniform(4, v) has average power v + 0.5
	if b.Min != 10.5 || b.Max != 200.5 {
		t.Errorf("Run() = %+v, want {10.5 200.5}", b)
	}
	if c.Samples() != len(frames) {
		t.Errorf("Samples() = %d, want %d", c.Samples(), len(frames))
	}
}

func TestCalibrator_Idempotent(t *testing.T) {
	t.Parallel()

	frames := make([][]uint8, 60)
	for i := range frames {
		f := make([]uint8, 64)
		for j := range f {
			f[j] = uint8((i*31 + j*17) % 256)
		}
		frames[i] = f
	}

	c := NewCalibrator()
	first, err := runPass(t, c, frames)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := runPass(t, c, frames)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if first != second {
		t.Errorf("Run() not idempotent: %+v then %+v", first, second)
	}
}

func TestCalibrator_EndedWithoutTicks(t *testing.T) {
	t.Parallel()

	a, _ := NewFrequencyAnalyzer(audiotest.NewSpectrum(), 8)
	ended := make(chan struct{})
	close(ended)

	_, err := NewCalibrator().Run(context.Background(), make(chan time.Time), ended, a)
	if !errors.Is(err, ErrNoSamples) {
		t.Errorf("Run() error = %v, want ErrNoSamples", err)
	}
}

func TestCalibrator_Cancel(t *testing.T) {
	t.Parallel()

	a, _ := NewFrequencyAnalyzer(audiotest.NewSpectrum(), 8)
	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan time.Time)

	done := make(chan error, 1)
	go func() {
		_, err := NewCalibrator().Run(ctx, ticks, make(chan struct{}), a)
		done <- err
	}()

	ticks <- time.Now()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}

func TestCalibrator_FramesClosed(t *testing.T) {
	t.Parallel()

	a, _ := NewFrequencyAnalyzer(audiotest.NewSpectrum(), 8)
	ticks := make(chan time.Time)
	close(ticks)

	_, err := NewCalibrator().Run(context.Background(), ticks, make(chan struct{}), a)
	if !errors.Is(err, ErrFramesStopped) {
		t.Errorf("Run() error = %v, want ErrFramesStopped", err)
	}
}
