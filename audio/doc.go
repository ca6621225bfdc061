// Package audio holds mono waveforms and moves them in and out of files.
//
// A Signal owns its sample buffer exclusively. Consumers that transform the
// waveform into another representation call Take, which hands the buffer over
// and leaves the Signal empty, so a long recording is never held twice.
//
// Supported formats:
//   - WAV load and save (16-bit PCM output)
//   - FLAC load
//
// Multichannel input is downmixed to mono on load. Resample converts a
// signal to the sample rate the rest of the pipeline is configured for.
package audio
