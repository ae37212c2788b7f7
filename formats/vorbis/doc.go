// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams through
// github.com/jfreymuth/oggvorbis.
//
//	src, err := vorbis.Decoder{}.Decode(file)
//
// Channel count and sample rate come from the identification header.
// Samples are float32 in [-1.0, 1.0], interleaved.
package vorbis
