// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	// ErrNoChannels indicates a STREAMINFO block without channels or sample rate
	ErrNoChannels = errors.New("flac stream has no channels")
	// ErrUnsupportedBitDepth indicates a sample size outside 4 to 32 bits
	ErrUnsupportedBitDepth = errors.New("unsupported FLAC bit depth")
	// ErrChannelMismatch indicates a frame whose subframe count differs from STREAMINFO
	ErrChannelMismatch = errors.New("flac frame channel count mismatch")
)
