// Command gosep separates vocals from the accompaniment of a song.
//
// It trains a spectrogram classifier on a directory of mixture/vocals pairs,
// applies it to new mixtures and scores separated stems.
//
// Usage:
//
//	gosep train --datadir data --validationdir data-valid --epochs 10
//	gosep separate --file mixture.wav --output vocals.wav --save-accompaniment
//	gosep evaluate --evaluationdir evaluate
//	gosep ideal mixture.wav vocals.wav
//
// Settings are read from config.yaml, which is created with the defaults
// when missing. The exit status identifies the failure, see
// pipeline.ExitCode.
package main
