// Package spectral converts mono waveforms to time-frequency frames and back.
//
// A Frame stores the log-power amplitude of a short-time Fourier transform
// laid out as [frequency bin][time frame], and optionally the complex
// spectrogram it was computed from. The complex spectrogram is what masks are
// applied to and what Invert turns back into a waveform, so it is only kept
// when the caller asks for it.
//
// The package supports:
//   - Centre-padded STFT analysis with a Hann window (gossp)
//   - Power to decibel conversion with an amin floor and a top_db range
//   - Binary masks from probabilities, with the complementary mask
//   - Overlap-add inverse STFT that restores the original sample count
//   - Plain-text, PNG and float16 dumps of matrices
package spectral
