package evaluate

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrSilent is returned when a reference has no energy.
var ErrSilent = errors.New("evaluate: silent reference")

// Metrics are the source separation scores of one estimate, in dB.
type Metrics struct {
	SDR float64 // signal to distortion
	SIR float64 // signal to interference
	SAR float64 // signal to artifacts
}

// BSS scores est against reference j of refs. The estimate is split into a
// scaled copy of the target, the part explained by the other references and
// the rest:
//
//	est = target + interference + artifacts
//
// Projections use a single gain per reference, so delayed or filtered
// copies of a source count as artifacts. All signals must share one length.
func BSS(refs [][]float64, est []float64, j int) (Metrics, error) {
	if j < 0 || j >= len(refs) {
		return Metrics{}, fmt.Errorf("evaluate: reference %d of %d", j, len(refs))
	}
	n := len(est)
	for i, r := range refs {
		if len(r) != n {
			return Metrics{}, fmt.Errorf("evaluate: reference %d has %d samples, estimate %d", i, len(r), n)
		}
	}

	energy := floats.Dot(refs[j], refs[j])
	if energy == 0 {
		return Metrics{}, ErrSilent
	}
	target := make([]float64, n)
	floats.ScaleTo(target, floats.Dot(est, refs[j])/energy, refs[j])

	proj, err := project(refs, est)
	if err != nil {
		return Metrics{}, err
	}
	interf := make([]float64, n)
	floats.SubTo(interf, proj, target)
	artif := make([]float64, n)
	floats.SubTo(artif, est, proj)

	distortion := make([]float64, n)
	floats.AddTo(distortion, interf, artif)

	return Metrics{
		SDR: ratio(target, distortion),
		SIR: ratio(target, interf),
		SAR: ratio(proj, artif),
	}, nil
}

// project returns the least squares projection of est onto the span of refs.
func project(refs [][]float64, est []float64) ([]float64, error) {
	k, n := len(refs), len(est)
	s := mat.NewDense(k, n, nil)
	for i, r := range refs {
		s.SetRow(i, r)
	}
	var gram mat.Dense
	gram.Mul(s, s.T())
	var b mat.VecDense
	b.MulVec(s, mat.NewVecDense(n, est))

	var c mat.VecDense
	if err := c.SolveVec(&gram, &b); err != nil {
		return nil, fmt.Errorf("evaluate: references are linearly dependent: %w", err)
	}
	out := make([]float64, n)
	for i, r := range refs {
		floats.AddScaled(out, c.AtVec(i), r)
	}
	return out, nil
}

// ratio returns 10*log10(|num|^2 / |den|^2), +Inf for a zero denominator.
func ratio(num, den []float64) float64 {
	d := floats.Dot(den, den)
	if d == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(floats.Dot(num, num)/d)
}
