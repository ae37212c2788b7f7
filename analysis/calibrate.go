// SPDX-License-Identifier: EPL-2.0

package analysis

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Calibrator measures the minimum and maximum average power of one track
// over a full playback.
type Calibrator struct {
	min     float64
	max     float64
	samples int
}

func NewCalibrator() *Calibrator {
	c := &Calibrator{}
	c.Reset()
	return c
}

// Reset returns to the start state: min +Inf, max 0.
func (c *Calibrator) Reset() {
	c.min = math.Inf(1)
	c.max = 0
	c.samples = 0
}

func (c *Calibrator) Observe(power float64) {
	c.min = min(c.min, power)
	c.max = max(c.max, power)
	c.samples++
}

func (c *Calibrator) Samples() int   { return c.samples }
func (c *Calibrator) Bounds() Bounds { return Bounds{Min: c.min, Max: c.max} }

// Run reads the average power of a once per frame tick until ended is
// closed. Every tick is sampled, so a longer track costs proportionally more
// samples. Cancelling ctx stops the pass.
func (c *Calibrator) Run(ctx context.Context, frames <-chan time.Time, ended <-chan struct{}, a *FrequencyAnalyzer) (Bounds, error) {
	c.Reset()

	for {
		// end of track wins over a pending tick
		select {
		case <-ended:
			return c.finish()
		default:
		}

		select {
		case <-ctx.Done():
			return Bounds{}, fmt.Errorf("calibration stopped after %d samples: %w", c.samples, ctx.Err())
		case <-ended:
			return c.finish()
		case _, ok := <-frames:
			if !ok {
				return Bounds{}, ErrFramesStopped
			}

			power, err := a.AveragePower()
			if err != nil {
				return Bounds{}, err
			}
			c.Observe(power)
		}
	}
}

func (c *Calibrator) finish() (Bounds, error) {
	if c.samples == 0 {
		return Bounds{}, ErrNoSamples
	}
	return c.Bounds(), nil
}
