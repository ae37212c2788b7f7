// SPDX-License-Identifier: EPL-2.0

package analysis

import "math"

// Bounds are raw average-power readings, as measured by a calibration pass
// or known from an earlier one.
type Bounds struct {
	Min float64
	Max float64
}

// Range is Bounds rescaled by the theoretical maximum.
type Range struct {
	Min  float64
	Max  float64
	Span float64
}

// TheoreticalMax is the power of an all-255 spectrum of bins bins, in
// hundredths:
//
//	(sum(255 + i) / N - 1) / 100
//
// It is not a physical ceiling. The index bias makes it grow with N.
func TheoreticalMax(bins int) (float64, error) {
	if bins <= 0 {
		return 0, ErrNoBins
	}

	var sum float64
	for i := range bins {
		sum += MaxMagnitude + float64(i)
	}

	return (sum/float64(bins) - 1) / 100, nil
}

// Normalizer turns raw average power into a track-calibrated intensity.
// It is not safe for concurrent use.
type Normalizer struct {
	bins       int
	maxPower   float64
	bounds     Bounds
	rng        Range
	calibrated bool
}

func NewNormalizer(bins int) (*Normalizer, error) {
	n := &Normalizer{}
	if err := n.Rebin(bins); err != nil {
		return nil, err
	}
	return n, nil
}

// Rebin recomputes the theoretical maximum for a new bin count and
// rescales the current calibration with it.
func (n *Normalizer) Rebin(bins int) error {
	maxPower, err := TheoreticalMax(bins)
	if err != nil {
		return err
	}

	n.bins = bins
	n.maxPower = maxPower
	if n.calibrated {
		n.SetRange(n.bounds)
	}
	return nil
}

func (n *Normalizer) Bins() int         { return n.bins }
func (n *Normalizer) MaxPower() float64 { return n.maxPower }

// SetRange stores the calibration for the current track.
func (n *Normalizer) SetRange(b Bounds) {
	n.bounds = b
	n.rng.Min = b.Min / n.maxPower
	n.rng.Max = b.Max / n.maxPower
	n.rng.Span = n.rng.Max - n.rng.Min
	n.calibrated = true
}

func (n *Normalizer) Range() (Range, bool)   { return n.rng, n.calibrated }
func (n *Normalizer) Bounds() (Bounds, bool) { return n.bounds, n.calibrated }

// Analysed rescales raw power by the theoretical maximum without applying
// any calibration.
func (n *Normalizer) Analysed(raw float64) float64 {
	return raw / n.maxPower
}

// Intensity maps raw power onto the calibrated range: 0 at the calibrated
// minimum, 1 at the maximum, in steps of 0.01. It is not clamped; louder
// passages than calibration saw go above 1.
func (n *Normalizer) Intensity(raw float64) (float64, error) {
	if !n.calibrated {
		return 0, ErrUncalibrated
	}
	if n.rng.Span == 0 {
		return 0, ErrDegenerateCalibration
	}

	v := (n.Analysed(raw) - n.rng.Min) * 100 / n.rng.Span
	return math.Floor(v+0.5) / 100, nil
}
