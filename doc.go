// SPDX-License-Identifier: EPL-2.0

// Package audreact turns playing audio into values a renderer can pull once
// per frame: playback progress, a calibrated intensity and per-bin
// frequency levels.
//
// # Quick Start
//
// The host pipeline is passed in. media.Context is the one shipped here:
//
//	pipe, _ := media.NewContext(media.DefaultConfig())
//	ar, _ := audreact.New(pipe, audreact.Single("song.mp3"))
//	defer ar.Close()
//
//	// measure the track once, or reuse bounds from an earlier run
//	bounds, _ := ar.LoadAndCalibrate(ctx, nil)
//	// ar.SetSongFrequencies(analysis.Bounds{Min: 402.1, Max: 611.9})
//
//	ar.Play(nil)
//	for range ticker.C {
//	    intensity, _ := ar.AverageValue()
//	    bins, _ := ar.FrequencyValues()
//	    progress, _ := ar.AudioProgress()
//	}
//
// # Sources
//
// Tracks is either Single or Multiple. Multiple loads several stems that
// start together; the longest one (the anchor) drives progress and the end
// notification. Spectrum queries need a single source and report
// ErrUnsupported otherwise, except SourcePower and SourceFrequencyValues,
// which name the source.
//
// # Intensity
//
// AverageValue is not clamped. Passages louder than the calibration pass
// give values above 1. Use Clamp when a bounded value is required.
package audreact
