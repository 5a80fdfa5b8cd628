package pauli

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// The fixed single-qubit Pauli matrices. These are package-level constants in
// all but the letter of the language; nothing may write to them after init.
var (
	matI = mat.NewCDense(2, 2, []complex128{1, 0, 0, 1})
	matX = mat.NewCDense(2, 2, []complex128{0, 1, 1, 0})
	matY = mat.NewCDense(2, 2, []complex128{0, -1i, 1i, 0})
	matZ = mat.NewCDense(2, 2, []complex128{1, 0, 0, -1})
)

// A denseCell is a compute-once memoization slot for a lazily derived dense
// matrix on an otherwise immutable value.
type denseCell struct {
	once sync.Once
	m    *mat.CDense
}

// kron returns the Kronecker product of a and b, with a supplying the outer
// block structure.
func kron(a, b *mat.CDense) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	r := mat.NewCDense(ar*br, ac*bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			aij := a.At(i, j)
			if aij == 0 {
				continue
			}
			for k := 0; k < br; k++ {
				for l := 0; l < bc; l++ {
					r.Set(i*br+k, j*bc+l, aij*b.At(k, l))
				}
			}
		}
	}
	return r
}
