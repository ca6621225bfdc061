// Package mel rescales the frequency axis of a spectrogram to the mel scale.
//
// The separation pipeline itself works on linear STFT bins; mel scaling is
// used only when rendering spectrograms for inspection, where it gives the
// voice range most of the picture. It supports:
//   - Configurable number of mel bands and frequency range
//   - Linear interpolation for bands narrower than one STFT bin
package mel
