// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM primitives the reference media pipeline is
// built from.
//
//   - Source interface for decoded audio
//   - Decoder and Registry, keyed by file extension
//   - Resampler to bring every track to the pipeline's sample rate
//   - MonoMixer to fold channels before spectrum analysis
//   - ReadAll to buffer a whole track in memory
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// Decoders in the formats subpackages return a Source; Resampler and
// MonoMixer wrap one and are Sources themselves, so they chain:
//
//	dec, _ := registry.ForPath("song.mp3")
//	src, _ := dec.Decode(file)
//	mono := audio.NewMonoMixer(audio.NewResampler(src, 44100))
//	samples, err := audio.ReadAll(ctx, mono, 4096)
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0], interleaved by channel.
//
// # Error Handling
//
// ReadSamples returns io.EOF when the stream is finished, possibly together
// with the final samples. ReadAll swallows io.EOF and reports everything else.
package audio
