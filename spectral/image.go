package spectral

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// WritePNG renders a [row][column] matrix as a grayscale image, darker for
// larger values, normalised between the matrix minimum and maximum. With
// reverse set, row 0 is drawn at the bottom like a spectrogram plot.
func WritePNG(name string, m [][]float64, reverse bool) error {
	rows := len(m)
	cols := 0
	if rows > 0 {
		cols = len(m[0])
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range m {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	span := hi - lo
	if !(span > 0) {
		span = 1
	}

	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols && x < len(m[y]); x++ {
			val := (m[y][x] - lo) / span
			col := color.Gray{Y: uint8(255 - int(255*val))}
			if reverse {
				img.SetGray(x, rows-y-1, col)
			} else {
				img.SetGray(x, y, col)
			}
		}
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
