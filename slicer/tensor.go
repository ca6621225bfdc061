package slicer

import "fmt"

// Tensor is a dense float32 batch laid out as N x Height x Width x Channels,
// the shape a 2-D convolutional classifier takes. Height is the number of
// frequency bins and Width the slice width.
type Tensor struct {
	N, Height, Width, Channels int
	Data                       []float32
}

// At returns element (n, h, w, c).
func (t *Tensor) At(n, h, w, c int) float32 {
	return t.Data[((n*t.Height+h)*t.Width+w)*t.Channels+c]
}

// Sample returns the contiguous data of sample n.
func (t *Tensor) Sample(n int) []float32 {
	size := t.Height * t.Width * t.Channels
	return t.Data[n*size : (n+1)*size]
}

// Append adds the samples of o to t. Shapes other than N must match; an empty
// t adopts the shape of o.
func (t *Tensor) Append(o *Tensor) error {
	if o == nil || o.N == 0 {
		return nil
	}
	if t.N == 0 {
		t.Height, t.Width, t.Channels = o.Height, o.Width, o.Channels
	}
	if t.Height != o.Height || t.Width != o.Width || t.Channels != o.Channels {
		return fmt.Errorf("%w: %dx%dx%d vs %dx%dx%d", ErrRagged,
			t.Height, t.Width, t.Channels, o.Height, o.Width, o.Channels)
	}
	t.Data = append(t.Data, o.Data...)
	t.N += o.N
	return nil
}

// Stack packs slices into a single-channel tensor. All slices must share one
// shape.
func Stack(slices []Slice) (*Tensor, error) {
	t := &Tensor{N: len(slices), Channels: 1}
	if len(slices) == 0 {
		return t, nil
	}
	t.Height, t.Width = len(slices[0]), slices[0].Width()
	t.Data = make([]float32, 0, t.N*t.Height*t.Width)
	for i, s := range slices {
		if len(s) != t.Height {
			return nil, fmt.Errorf("%w: slice %d has %d bins, want %d", ErrRagged, i, len(s), t.Height)
		}
		for _, row := range s {
			if len(row) != t.Width {
				return nil, fmt.Errorf("%w: slice %d has width %d, want %d", ErrRagged, i, len(row), t.Width)
			}
			for _, v := range row {
				t.Data = append(t.Data, float32(v))
			}
		}
	}
	return t, nil
}

// LabelMatrix flattens labels into a row-major N x bins float32 matrix.
func LabelMatrix(labels []Label) ([]float32, int, error) {
	if len(labels) == 0 {
		return nil, 0, nil
	}
	bins := len(labels[0])
	out := make([]float32, 0, len(labels)*bins)
	for i, l := range labels {
		if len(l) != bins {
			return nil, 0, fmt.Errorf("%w: label %d has %d bins, want %d", ErrRagged, i, len(l), bins)
		}
		for _, v := range l {
			out = append(out, float32(v))
		}
	}
	return out, bins, nil
}
