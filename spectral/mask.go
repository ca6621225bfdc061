package spectral

// Mask is a binary [bin][frame] matrix of 0 and 1.
type Mask [][]float64

// ThresholdToMask turns probabilities into a mask (1 where p > cutoff) and
// its complement in one pass.
func ThresholdToMask(probabilities [][]float64, cutoff float64) (mask, complement Mask) {
	mask = make(Mask, len(probabilities))
	complement = make(Mask, len(probabilities))
	for y, row := range probabilities {
		mask[y] = make([]float64, len(row))
		complement[y] = make([]float64, len(row))
		for x, p := range row {
			if p > cutoff {
				mask[y][x] = 1
			} else {
				complement[y][x] = 1
			}
		}
	}
	return mask, complement
}

// Ones returns a mask of the given shape filled with 1.
func Ones(bins, frames int) Mask {
	m := make(Mask, bins)
	for y := range m {
		m[y] = make([]float64, frames)
		for x := range m[y] {
			m[y][x] = 1
		}
	}
	return m
}

// Transpose swaps the axes of a rectangular matrix. Classifier output is
// [slice][bin]; masks are [bin][frame].
func Transpose(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make([][]float64, len(m[0]))
	for x := range out {
		out[x] = make([]float64, len(m))
		for y := range m {
			out[x][y] = m[y][x]
		}
	}
	return out
}
