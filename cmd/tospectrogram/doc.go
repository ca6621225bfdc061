// Command tospectrogram renders audio files and dumped matrices as PNG images.
//
// Usage:
//
//	tospectrogram <file> [mode] [output]
//
// For audio files (.wav, .flac) the modes are:
//
//	amplitude  log-power spectrogram (default)
//	mel        log-power spectrogram on the mel scale
//	binary     cells above 0.01 dB, the ideal vocal mask of a vocal track
//	phase      phase deviation from each bin's centre frequency
//
// For matrices written by gosep separate --dump-data (.out) the modes are:
//
//	normal     values as they are (default)
//	binary     cells above 0.45, the mask the separator applies
//
// The output PNG file defaults to <file>.png. Frequency grows upwards.
package main
