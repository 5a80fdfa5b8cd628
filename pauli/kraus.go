package pauli

import (
	"fmt"
	"math/cmplx"
	"slices"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// A Kraus represents a quantum channel in operator-sum form,
// Λ(ρ) = Σ_i K_i·ρ·K_i†, with every K_i a Pauli-basis operator. The channel
// is immutable once built; each operator's adjoint is precomputed at
// construction.
type Kraus struct {
	ops   []*Operator
	adjs  []*Operator
	width int

	chiOnce sync.Once
	chi     *mat.CDense
	ptmOnce sync.Once
	ptm     *mat.Dense
}

// NewKraus constructs a channel from a non-empty, ordered list of Kraus
// operators sharing one qubit width.
func NewKraus(ops ...*Operator) (*Kraus, error) {
	if len(ops) == 0 {
		return nil, ErrEmptyChannel
	}
	k := &Kraus{width: ops[0].Width()}
	for _, op := range ops {
		if op.Width() != k.width {
			return nil, fmt.Errorf("%w: Kraus operators span %d and %d qubits",
				ErrWidthMismatch, k.width, op.Width())
		}
		k.ops = append(k.ops, op)
		k.adjs = append(k.adjs, op.Adjoint())
	}
	return k, nil
}

// Width returns the number of qubits the channel acts on.
func (k *Kraus) Width() int { return k.width }

// Operators returns the channel's Kraus operators in construction order.
func (k *Kraus) Operators() []*Operator { return slices.Clone(k.ops) }

// Apply evaluates the channel on rho via the operator-sum formula. Each term
// is evaluated left to right as (K_i·ρ)·K_i†; the order matters because
// Pauli strings do not generally commute. The operand must match the
// channel's width.
func (k *Kraus) Apply(rho *Operator) (*Operator, error) {
	if rho.Width() != k.width {
		return nil, fmt.Errorf("%w: applying a %d-qubit channel to a %d-qubit operator",
			ErrWidthMismatch, k.width, rho.Width())
	}
	var sum *Operator
	for i, op := range k.ops {
		t, err := op.Mul(rho)
		if err != nil {
			return nil, err
		}
		if t, err = t.Mul(k.adjs[i]); err != nil {
			return nil, err
		}
		if sum == nil {
			sum = t
			continue
		}
		if sum, err = sum.Add(t); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

// ApplyString evaluates the channel on a bare Pauli string, treated as a
// one-term operator.
func (k *Kraus) ApplyString(s String) (*Operator, error) {
	return k.Apply(OperatorFromString(s))
}

// IsDiagonal reports whether every Kraus operator is a single basis term.
// Such channels are pure Pauli channels (bit flip, dephasing, ...) with no
// off-diagonal mixing between Pauli basis directions. Recomputed on each
// call.
func (k *Kraus) IsDiagonal() bool {
	for _, op := range k.ops {
		if !op.IsSingleTerm() {
			return false
		}
	}
	return true
}

// ChiMatrix returns the 4^n x 4^n process matrix χ such that
// Λ(ρ) = Σ_jl χ_jl·P_j·ρ·P_l†, with the basis ordered as in BasisString. It is
// the outer-product sum of the Kraus operators' coefficient vectors over
// that basis. Computed once and cached; callers must not modify it.
func (k *Kraus) ChiMatrix() *mat.CDense {
	k.chiOnce.Do(func() {
		d := 1 << (2 * k.width)
		chi := mat.NewCDense(d, d, nil)
		for _, op := range k.ops {
			v := make([]complex128, d)
			for _, t := range op.Terms() {
				v[basisIndex(t.String)] += t.Coeff
			}
			for j := 0; j < d; j++ {
				if v[j] == 0 {
					continue
				}
				for l := 0; l < d; l++ {
					if v[l] == 0 {
						continue
					}
					chi.Set(j, l, chi.At(j, l)+v[j]*cmplx.Conj(v[l]))
				}
			}
		}
		k.chi = chi
	})
	return k.chi
}

// TransferMatrix returns the channel's Pauli transfer matrix: the real
// 4^n x 4^n matrix R with R_jl = Tr[P_j·Λ(P_l)]/2^n over the basis ordered
// as in BasisString. Because the basis is orthogonal under the trace, the entry
// reduces to the P_j coefficient of Λ(P_l). Computed once and cached;
// callers must not modify it.
func (k *Kraus) TransferMatrix() *mat.Dense {
	k.ptmOnce.Do(func() {
		d := 1 << (2 * k.width)
		ptm := mat.NewDense(d, d, nil)
		for l := 0; l < d; l++ {
			out, err := k.ApplyString(BasisString(l, k.width))
			if err != nil {
				// Basis elements match the channel width by construction.
				panic(err)
			}
			for _, t := range out.Terms() {
				ptm.Set(basisIndex(t.String), l, real(t.Coeff))
			}
		}
		k.ptm = ptm
	})
	return k.ptm
}

// BasisString returns element idx of the canonical width-qubit Pauli basis:
// qubit q carries the factor {I,X,Y,Z}[d_q] where idx = Σ_q d_q·4^q. Indices
// run over [0, 4^width).
func BasisString(idx, width int) String {
	var xs, ys, zs []int
	for q := 0; q < width; q++ {
		switch idx & 3 {
		case 1:
			xs = append(xs, q)
		case 2:
			ys = append(ys, q)
		case 3:
			zs = append(zs, q)
		}
		idx >>= 2
	}
	s, err := New(StringOpts{Xs: xs, Zs: zs, Ys: ys, Width: width})
	if err != nil {
		panic(err) // indices are in range by construction
	}
	return s
}

// basisIndex inverts BasisString for a pure basis element.
func basisIndex(s String) int {
	var idx int
	for _, q := range s.Xs() {
		idx |= 1 << (2 * q)
	}
	for _, q := range s.Ys() {
		idx |= 2 << (2 * q)
	}
	for _, q := range s.Zs() {
		idx |= 3 << (2 * q)
	}
	return idx
}
