// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC streams through github.com/mewkiz/flac.
//
// Frames are decoded one at a time and interleaved by channel, so memory use
// does not grow with the track. Samples come out as float32 in [-1.0, 1.0],
// scaled by the bit depth from STREAMINFO.
//
//	src, err := flac.Decoder{}.Decode(file)
package flac
