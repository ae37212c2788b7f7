// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
//	src, err := aiff.Decoder{}.Decode(file)
//
// Signed integer PCM at 8, 16, 24 and 32 bits is supported. AIFF is
// big-endian on disk; go-audio takes care of the byte order and this
// package only rescales to float32 in [-1.0, 1.0].
//
// go-audio needs an io.ReadSeeker. Plain readers are buffered in memory
// first, which is fine for the track lengths an audio-reactive visual plays.
package aiff
