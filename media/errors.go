// SPDX-License-Identifier: EPL-2.0

package media

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid media configuration")
	ErrNotLoaded     = errors.New("track is not loaded")
	ErrClosed        = errors.New("track is closed")
	ErrNotAnalysable = errors.New("element does not expose samples")
)
