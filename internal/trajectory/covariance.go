package trajectory

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PackedLen is the number of upper-triangle entries of a Dim x Dim matrix.
const PackedLen = Dim * (Dim + 1) / 2

// CovarianceFromPacked expands row-major upper-triangle entries.
func CovarianceFromPacked(packed []float64) (*mat.SymDense, error) {
	if len(packed) != PackedLen {
		return nil, fmt.Errorf("%w: packed covariance needs %d entries, got %d", ErrInvalidState, PackedLen, len(packed))
	}
	cov := mat.NewSymDense(Dim, nil)
	k := 0
	for i := 0; i < Dim; i++ {
		for j := i; j < Dim; j++ {
			cov.SetSym(i, j, packed[k])
			k++
		}
	}
	return cov, nil
}

// DiagonalCovariance builds an uncorrelated covariance from per-parameter
// uncertainties.
func DiagonalCovariance(sigmas [Dim]float64) *mat.SymDense {
	cov := mat.NewSymDense(Dim, nil)
	for i, s := range sigmas {
		cov.SetSym(i, i, s*s)
	}
	return cov
}

// Packed flattens a covariance to row-major upper-triangle order.
func Packed(cov mat.Symmetric) []float64 {
	if cov == nil {
		return nil
	}
	out := make([]float64, 0, PackedLen)
	for i := 0; i < Dim; i++ {
		for j := i; j < Dim; j++ {
			out = append(out, cov.At(i, j))
		}
	}
	return out
}
