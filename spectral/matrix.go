package spectral

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/x448/float16"
)

// WriteMatrix writes m as space separated rows, one row per line, each value
// in %.18e notation.
func WriteMatrix(w io.Writer, m [][]float64) error {
	bw := bufio.NewWriter(w)
	for _, row := range m {
		for i, v := range row {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatFloat(v, 'e', 18, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteComplexMatrix writes m as rows of (re+imj) cells.
func WriteComplexMatrix(w io.Writer, m [][]complex128) error {
	bw := bufio.NewWriter(w)
	for _, row := range m {
		for i, v := range row {
			if i > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "(%.18e%+.18ej)", real(v), imag(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadMatrix parses the output of WriteMatrix. All rows must have the same
// number of columns.
func ReadMatrix(r io.Reader) ([][]float64, error) {
	var out [][]float64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<20), 1<<30)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for i, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("spectral: line %d: %w", line, err)
			}
			row[i] = v
		}
		if len(out) > 0 && len(row) != len(out[0]) {
			return nil, fmt.Errorf("%w: line %d has %d columns, want %d", ErrShape, line, len(row), len(out[0]))
		}
		out = append(out, row)
	}
	return out, sc.Err()
}

// HalfBits packs a rectangular matrix row by row into float16 bit patterns.
func HalfBits(m [][]float64) []uint16 {
	if len(m) == 0 {
		return nil
	}
	out := make([]uint16, 0, len(m)*len(m[0]))
	for _, row := range m {
		for _, v := range row {
			out = append(out, float16.Fromfloat32(float32(v)).Bits())
		}
	}
	return out
}

// FromHalfBits unpacks the output of HalfBits into a rows x cols matrix.
func FromHalfBits(bits []uint16, rows, cols int) ([][]float64, error) {
	if rows*cols != len(bits) {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrShape, len(bits), rows, cols)
	}
	out := make([][]float64, rows)
	for y := range out {
		out[y] = make([]float64, cols)
		for x := range out[y] {
			out[y][x] = float64(float16.Frombits(bits[y*cols+x]).Float32())
		}
	}
	return out, nil
}
