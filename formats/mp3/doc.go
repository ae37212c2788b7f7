// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio through
// github.com/hajimehoshi/go-mp3.
//
//	src, err := mp3.Decoder{}.Decode(file)
//
// The source is always stereo, at the sample rate stored in the stream,
// with float32 samples in [-1.0, 1.0]. Mono files are duplicated on both
// channels by go-mp3; fold them back with audio.NewMonoMixer.
package mp3
