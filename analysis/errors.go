// SPDX-License-Identifier: EPL-2.0

package analysis

import "errors"

var (
	// ErrNoBins means the pipeline reports zero frequency bins. It is a
	// configuration error: nothing downstream can be computed.
	ErrNoBins = errors.New("spectrum has no frequency bins")
	// ErrUncalibrated is returned by Intensity before any range was set.
	ErrUncalibrated = errors.New("no calibration range set")
	// ErrDegenerateCalibration is returned by Intensity when the calibrated
	// range is zero wide.
	ErrDegenerateCalibration = errors.New("calibration range is zero")
	// ErrNoSamples means the track ended before the first frame tick.
	ErrNoSamples = errors.New("calibration ended without samples")
	// ErrFramesStopped means the frame ticker channel was closed mid-pass.
	ErrFramesStopped = errors.New("frame ticker stopped during calibration")
)
