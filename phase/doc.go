// Package phase extracts the phase of a complex spectrogram for inspection.
//
// A binary mask keeps the mixture's phase in every cell it lets through, so
// the phase of the masked spectrogram is the phase of the mixture. Rendering
// it helps to see where the mask cuts through a steady partial:
//   - Angles gives the raw phase of every cell
//   - Deviation gives the frame-to-frame phase advance relative to the bin's
//     centre frequency, flat for stationary partials
package phase
