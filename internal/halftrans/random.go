package halftrans

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/symtensor/internal/symmetry"
)

// RandomOrthonormal returns a matrix whose irrep blocks have orthonormal
// columns, taken from the QR factorization of a uniform random block.
// Every irrep needs at least as many basis functions as orbitals.
func RandomOrthonormal(rng *rand.Rand, sospi, mospi symmetry.Dims) (*Matrix, error) {
	m := NewMatrix(sospi, mospi)
	for g, b := range m.Blocks {
		so, mo := sospi[g], mospi[g]
		if so < mo {
			return nil, fmt.Errorf("%w: irrep %d has %d basis functions for %d orbitals",
				ErrMatrixShape, g, so, mo)
		}
		if mo == 0 {
			continue
		}

		a := mat.NewDense(so, mo, nil)
		for i := 0; i < so; i++ {
			for j := 0; j < mo; j++ {
				a.Set(i, j, 2*rng.Float64()-1)
			}
		}
		var qr mat.QR
		qr.Factorize(a)
		var q mat.Dense
		qr.QTo(&q)

		for i := 0; i < so; i++ {
			for j := 0; j < mo; j++ {
				b.Set(i, j, q.At(i, j))
			}
		}
	}
	return m, nil
}
