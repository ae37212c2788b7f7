// SPDX-License-Identifier: EPL-2.0

package media

import "fmt"

// Config mirrors the knobs of a browser AnalyserNode.
type Config struct {
	SampleRate  int
	FFTSize     int
	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64
}

func DefaultConfig() Config {
	return Config{
		SampleRate:  44100,
		FFTSize:     2048,
		Smoothing:   0.8,
		MinDecibels: -100,
		MaxDecibels: -30,
	}
}

func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.FFTSize < 32 || c.FFTSize > 32768 || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("%w: fft size %d must be a power of two in [32, 32768]", ErrInvalidConfig, c.FFTSize)
	}
	if c.Smoothing < 0 || c.Smoothing > 1 {
		return fmt.Errorf("%w: smoothing %v outside [0, 1]", ErrInvalidConfig, c.Smoothing)
	}
	if c.MinDecibels >= c.MaxDecibels {
		return fmt.Errorf("%w: min decibels %v not below max %v", ErrInvalidConfig, c.MinDecibels, c.MaxDecibels)
	}
	return nil
}

// FrequencyBinCount is half the FFT size.
func (c Config) FrequencyBinCount() int { return c.FFTSize / 2 }
