// SPDX-License-Identifier: EPL-2.0

// Package media is a host audio pipeline with no output device.
//
// A Context opens tracks from local paths or http(s) URLs, decodes them with
// the formats subpackages, resamples to one rate and folds them to mono.
// Playback position is taken from the wall clock. An Analyser attached to a
// Track produces the same byte spectrum a browser AnalyserNode would:
//
//	ctx, _ := media.NewContext(media.DefaultConfig())
//	el, _ := ctx.Open(context.Background(), "song.ogg")
//	<-el.Ready()
//	spectrum, _ := ctx.Analyse(el)
//	el.Play()
//
//	bins := make([]uint8, ctx.FrequencyBinCount())
//	spectrum.ByteFrequencyData(bins)
package media
