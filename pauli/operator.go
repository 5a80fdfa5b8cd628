package pauli

import (
	"fmt"
	"math/cmplx"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// An Operator is a complex linear combination of Pauli basis strings,
// representing a general operator or density matrix in the Pauli basis. Basis
// keys are pure strings with coefficient 1, unique by symplectic identity,
// all over one qubit width. Operators are immutable; every arithmetic method
// returns a new instance.
type Operator struct {
	width int
	terms map[string]term

	dense *denseCell
}

type term struct {
	str   String // normalized basis element, coefficient 1
	coeff complex128
}

// A Term pairs a basis string with its complex coefficient.
type Term struct {
	String String
	Coeff  complex128
}

// NewOperator constructs an operator from basis terms. Every term's string
// must carry coefficient 1 and all strings must span the same number of
// qubits. Terms naming the same basis element accumulate.
func NewOperator(terms ...Term) (*Operator, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("pauli: operator requires at least one term")
	}
	width := terms[0].String.Width()
	m := make(map[string]term, len(terms))
	for _, t := range terms {
		if t.String.Coeff() != 1 {
			return nil, fmt.Errorf("%w: %v has coefficient %v", ErrBasisKey, t.String, t.String.Coeff())
		}
		if t.String.Width() != width {
			return nil, fmt.Errorf("%w: operator terms span %d and %d qubits",
				ErrWidthMismatch, width, t.String.Width())
		}
		accumulate(m, t.String, t.Coeff)
	}
	return newOperator(width, m), nil
}

// OperatorFromString lifts a bare, possibly scaled Pauli string into a
// one-term operator, folding the string's own coefficient into the mapped
// coefficient.
func OperatorFromString(s String) *Operator {
	base, c := s.Normalized()
	m := map[string]term{base.Key(): {str: base, coeff: c}}
	return newOperator(s.Width(), m)
}

func newOperator(width int, m map[string]term) *Operator {
	return &Operator{width: width, terms: m, dense: &denseCell{}}
}

func accumulate(m map[string]term, base String, c complex128) {
	k := base.Key()
	if old, ok := m[k]; ok {
		old.coeff += c
		m[k] = old
		return
	}
	m[k] = term{str: base, coeff: c}
}

// Width returns the number of qubits the operator spans.
func (a *Operator) Width() int { return a.width }

// IsSingleTerm reports whether the operator has exactly one basis term.
func (a *Operator) IsSingleTerm() bool { return len(a.terms) == 1 }

// Terms returns the operator's basis terms in a deterministic order.
func (a *Operator) Terms() []Term {
	keys := make([]string, 0, len(a.terms))
	for k := range a.terms {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	ts := make([]Term, 0, len(keys))
	for _, k := range keys {
		t := a.terms[k]
		ts = append(ts, Term{String: t.str, Coeff: t.coeff})
	}
	return ts
}

// Coeff returns the coefficient of the basis element s, or 0 if s is not a
// term of the operator. s's own coefficient is ignored.
func (a *Operator) Coeff(s String) complex128 {
	return a.terms[s.Key()].coeff
}

// Add returns a + b.
func (a *Operator) Add(b *Operator) (*Operator, error) {
	if a.width != b.width {
		return nil, fmt.Errorf("%w: adding a %d-qubit operator to a %d-qubit operator",
			ErrWidthMismatch, b.width, a.width)
	}
	m := a.cloneTerms()
	for _, t := range b.terms {
		accumulate(m, t.str, t.coeff)
	}
	return newOperator(a.width, m), nil
}

// AddString returns a + s, treating a coefficient-1 string as a basis
// element with coefficient 1 and folding any other coefficient into the
// term.
func (a *Operator) AddString(s String) (*Operator, error) {
	return a.Add(OperatorFromString(s))
}

// AddScalar returns a + c·1, adding c to the coefficient of the identity
// string and creating that term if absent.
func (a *Operator) AddScalar(c complex128) *Operator {
	m := a.cloneTerms()
	accumulate(m, Identity(a.width), c)
	return newOperator(a.width, m)
}

// Mul returns the operator product a·b, distributing over all basis term
// pairs and folding each pairwise product's phase into the accumulated
// coefficient.
func (a *Operator) Mul(b *Operator) (*Operator, error) {
	if a.width != b.width {
		return nil, fmt.Errorf("%w: multiplying a %d-qubit operator by a %d-qubit operator",
			ErrWidthMismatch, a.width, b.width)
	}
	m := make(map[string]term, len(a.terms))
	for _, ta := range a.terms {
		for _, tb := range b.terms {
			base, phase := ta.str.Mul(tb.str).Normalized()
			accumulate(m, base, ta.coeff*tb.coeff*phase)
		}
	}
	return newOperator(a.width, m), nil
}

// MulString returns a·s.
func (a *Operator) MulString(s String) (*Operator, error) {
	return a.Mul(OperatorFromString(s))
}

// MulStringLeft returns s·a. Multiplication order matters: Pauli strings do
// not generally commute.
func (a *Operator) MulStringLeft(s String) (*Operator, error) {
	return OperatorFromString(s).Mul(a)
}

// Scale returns c·a. Scalar multiplication commutes, so this is also a·c.
func (a *Operator) Scale(c complex128) *Operator {
	m := make(map[string]term, len(a.terms))
	for k, t := range a.terms {
		t.coeff *= c
		m[k] = t
	}
	return newOperator(a.width, m)
}

// Adjoint returns the Hermitian conjugate of a. Pauli basis elements are
// Hermitian, so only the coefficients are conjugated.
func (a *Operator) Adjoint() *Operator {
	m := make(map[string]term, len(a.terms))
	for k, t := range a.terms {
		t.coeff = cmplx.Conj(t.coeff)
		m[k] = t
	}
	return newOperator(a.width, m)
}

// Matrix returns the dense 2^Width x 2^Width representation of a, the
// coefficient-weighted sum of its basis elements' matrices. The matrix is
// computed once and cached; callers must not modify it.
func (a *Operator) Matrix() *mat.CDense {
	a.dense.once.Do(func() {
		d := 1 << a.width
		m := mat.NewCDense(d, d, nil)
		for _, t := range a.terms {
			pm := t.str.Matrix()
			for r := 0; r < d; r++ {
				for c := 0; c < d; c++ {
					m.Set(r, c, m.At(r, c)+t.coeff*pm.At(r, c))
				}
			}
		}
		a.dense.m = m
	})
	return a.dense.m
}

// String renders the operator as a sum of scaled basis strings in
// deterministic term order.
func (a *Operator) String() string {
	var b strings.Builder
	for i, t := range a.Terms() {
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(formatCoeff(t.Coeff))
		b.WriteByte('*')
		b.WriteString(t.String.String())
	}
	return b.String()
}

func (a *Operator) cloneTerms() map[string]term {
	m := make(map[string]term, len(a.terms))
	for k, t := range a.terms {
		m[k] = t
	}
	return m
}
