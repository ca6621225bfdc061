package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/neurlang/gosep/audio"
	"github.com/neurlang/gosep/config"
	"github.com/neurlang/gosep/mel"
	"github.com/neurlang/gosep/phase"
	"github.com/neurlang/gosep/spectral"
)

const (
	audioThreshold  = 0.01
	matrixThreshold = 0.45
)

func main() {
	// Check if the filename argument is provided
	if len(os.Args) < 2 {
		fmt.Println("Usage: tospectrogram <file> [amplitude|mel|binary|phase|normal] [output]")
		os.Exit(1)
	}

	var filename = os.Args[1]
	var mode, output string
	if len(os.Args) > 2 {
		mode = os.Args[2]
	}
	if len(os.Args) > 3 {
		output = os.Args[3]
	} else {
		output = filename + ".png"
	}

	if err := render(filename, mode, output); err != nil {
		fmt.Printf("Error rendering %s: %v\n", filename, err)
		os.Exit(1)
	}
}

func render(filename, mode, output string) error {
	var m [][]float64
	var err error
	if strings.ToLower(filepath.Ext(filename)) == ".out" {
		m, err = fromMatrix(filename, mode)
	} else {
		m, err = fromAudio(filename, mode)
	}
	if err != nil {
		return err
	}
	return spectral.WritePNG(output, m, true)
}

func fromMatrix(filename, mode string) ([][]float64, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := spectral.ReadMatrix(f)
	if err != nil {
		return nil, err
	}
	switch mode {
	case "", "normal":
		return m, nil
	case "binary":
		mask, _ := spectral.ThresholdToMask(m, matrixThreshold)
		return mask, nil
	}
	return nil, fmt.Errorf("invalid mode %q for a matrix", mode)
}

func fromAudio(filename, mode string) ([][]float64, error) {
	// Same transform parameters as the separator's defaults
	cfg := config.Default()
	sig, err := audio.LoadResampled(filename, cfg.Song.SampleRate)
	if err != nil {
		return nil, err
	}
	f, err := spectral.Transform(sig, cfg.Transform(), spectral.Options{KeepSpectrogram: mode == "phase"})
	if err != nil {
		return nil, err
	}

	switch mode {
	case "", "amplitude":
		return f.Amplitude, nil
	case "mel":
		var m = mel.NewMel()
		m.NumMels = 128
		m.MelFmax = float64(f.SampleRate) / 2
		return m.Scale(f.Amplitude, f.SampleRate)
	case "binary":
		mask, _ := spectral.ThresholdToMask(f.Amplitude, audioThreshold)
		return mask, nil
	case "phase":
		return phase.Deviation(f.Spectrogram, f.Config.WindowSize, f.Config.HopLength)
	}
	return nil, fmt.Errorf("invalid mode %q for audio", mode)
}
