// SPDX-License-Identifier: EPL-2.0

package audreact

import (
	"errors"

	"github.com/ik5/audreact/analysis"
)

var (
	// ErrConfiguration means the pipeline has no frequency bins.
	ErrConfiguration = analysis.ErrNoBins
	// ErrUnsupported is returned by spectrum queries and calibration in
	// multi source mode.
	ErrUnsupported           = errors.New("operation needs a single source")
	ErrDegenerateCalibration = analysis.ErrDegenerateCalibration
	ErrUncalibrated          = analysis.ErrUncalibrated
	ErrInvalidState          = errors.New("invalid state for operation")
	ErrNoSources             = errors.New("no audio sources")
	ErrUnknownSource         = errors.New("unknown audio source")
	ErrClosed                = errors.New("audio reactive is closed")
)
