// SPDX-License-Identifier: EPL-2.0

// Package wav decodes RIFF/WAVE PCM files through github.com/go-audio/wav.
//
// Integer PCM at 8, 16, 24 and 32 bits is supported, with any channel count
// and sample rate. Chunks other than fmt and data (LIST, fact, ...) are
// skipped by the underlying decoder.
//
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// Samples come out as float32 in [-1.0, 1.0]. 8-bit WAV is unsigned on disk
// and is re-centred around zero.
//
// The decoder needs to seek; readers that cannot are buffered in memory.
package wav
