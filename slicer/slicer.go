package slicer

import (
	"errors"
	"fmt"
)

var (
	// ErrWidth is returned for a slice width below one.
	ErrWidth = errors.New("slicer: slice width must be at least 1")
	// ErrMisaligned is returned when slices and labels of a song differ in count.
	ErrMisaligned = errors.New("slicer: slice and label counts differ")
	// ErrRagged is returned when matrices in one batch differ in shape.
	ErrRagged = errors.New("slicer: ragged input")
)

// Slice is a [bin][column] window of an amplitude matrix.
type Slice [][]float64

// Width returns the number of time columns in the slice.
func (s Slice) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

func frames(amp [][]float64) int {
	if len(amp) == 0 {
		return 0
	}
	return len(amp[0])
}

// SplitBlocks tiles amp with floor(frames/width) windows; window i covers
// columns [i*width, (i+1)*width). A trailing remainder narrower than width is
// dropped.
func SplitBlocks(amp [][]float64, width int) ([]Slice, error) {
	if width < 1 {
		return nil, ErrWidth
	}
	n := frames(amp) / width
	slices := make([]Slice, n)
	for x := 0; x < n; x++ {
		s := make(Slice, len(amp))
		for y, row := range amp {
			s[y] = append([]float64(nil), row[x*width:(x+1)*width]...)
		}
		slices[x] = s
	}
	return slices, nil
}

// SplitSliding returns one window per column of amp. The matrix is treated as
// padded with floor(width/2) zero columns on each side and window t is
// columns [t, t+width) of the padded matrix. For odd widths the window is
// centred on column t; for even widths it covers columns [t-width/2, t+width/2)
// and so leans one column to the left.
func SplitSliding(amp [][]float64, width int) ([]Slice, error) {
	if width < 1 {
		return nil, ErrWidth
	}
	half := width / 2
	n := frames(amp)
	slices := make([]Slice, n)
	for t := 0; t < n; t++ {
		s := make(Slice, len(amp))
		for y, row := range amp {
			s[y] = make([]float64, width)
			for j := 0; j < width; j++ {
				if x := t + j - half; x >= 0 && x < n {
					s[y][j] = row[x]
				}
			}
		}
		slices[t] = s
	}
	return slices, nil
}

// Label holds one 0/1 presence value per frequency bin.
type Label []uint8

// CentreColumn returns the column sampled for block i of the given width.
func CentreColumn(i, width int) int {
	if width > 1 {
		return i*width + (width+1)/2
	}
	return i * width
}

// Labels samples the reference amplitude at the centre column of every block
// that SplitBlocks would produce for the same width, marking bins whose value
// exceeds threshold. Only the centre column is looked at, so activity
// elsewhere in the block is not reflected in the label.
func Labels(amp [][]float64, width int, threshold float64) ([]Label, error) {
	if width < 1 {
		return nil, ErrWidth
	}
	n := frames(amp) / width
	labels := make([]Label, n)
	for x := 0; x < n; x++ {
		col := CentreColumn(x, width)
		l := make(Label, len(amp))
		for y := range amp {
			if amp[y][col] > threshold {
				l[y] = 1
			}
		}
		labels[x] = l
	}
	return labels, nil
}

// CheckAligned reports ErrMisaligned when a song's slice count and label
// count differ.
func CheckAligned(slices, labels int) error {
	if slices != labels {
		return fmt.Errorf("%w: %d slices, %d labels", ErrMisaligned, slices, labels)
	}
	return nil
}
