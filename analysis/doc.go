// SPDX-License-Identifier: EPL-2.0

// Package analysis turns byte spectra into the numbers an audio-reactive
// visual consumes.
//
// # Average Power
//
// AveragePower reduces a snapshot of N bins to one scalar, the mean of
// magnitude plus bin index, minus one. FrequencyAnalyzer applies it to a live
// Spectrum.
//
// # Normalisation
//
// TheoreticalMax(N) is the average power of an all-255 spectrum divided by
// 100. Normalizer divides raw readings by it, then maps them onto the
// calibrated range of the current track:
//
//	n, _ := analysis.NewNormalizer(1024)
//	n.SetRange(analysis.Bounds{Min: 510.5, Max: 621.5})
//	v, err := n.Intensity(raw) // 0 at Min, 1 at Max, unclamped
//
// # Calibration
//
// Calibrator plays a track once, sampling every frame tick, and reports the
// smallest and largest average power seen. Feed the result to
// Normalizer.SetRange, or keep it to skip calibration next time.
package analysis
