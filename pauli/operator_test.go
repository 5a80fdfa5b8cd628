package pauli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func mustOperator(t *testing.T, terms ...Term) *Operator {
	t.Helper()
	op, err := NewOperator(terms...)
	require.NoError(t, err)
	return op
}

func opOf(t *testing.T, pairs map[string]complex128) *Operator {
	t.Helper()
	var terms []Term
	for text, c := range pairs {
		terms = append(terms, Term{String: mustParse(t, text), Coeff: c})
	}
	return mustOperator(t, terms...)
}

func TestNewOperatorValidation(t *testing.T) {
	_, err := NewOperator()
	require.Error(t, err)

	_, err = NewOperator(Term{String: mustParse(t, "2*X"), Coeff: 1})
	require.ErrorIs(t, err, ErrBasisKey)

	_, err = NewOperator(
		Term{String: mustParse(t, "X"), Coeff: 1},
		Term{String: mustParse(t, "XX"), Coeff: 1},
	)
	require.ErrorIs(t, err, ErrWidthMismatch)
}

func TestNewOperatorAccumulatesDuplicates(t *testing.T) {
	op := mustOperator(t,
		Term{String: mustParse(t, "XZ"), Coeff: 0.25},
		Term{String: mustParse(t, "XZ"), Coeff: 0.5},
	)
	require.True(t, op.IsSingleTerm())
	assert.Equal(t, complex128(0.75), op.Coeff(mustParse(t, "XZ")))
}

func TestOperatorFromString(t *testing.T) {
	op := OperatorFromString(mustParse(t, "-2*XY"))
	require.True(t, op.IsSingleTerm())
	assert.Equal(t, complex128(-2), op.Coeff(mustParse(t, "XY")))
}

func TestAddCommutative(t *testing.T) {
	a := opOf(t, map[string]complex128{"XI": 1, "IZ": 2i})
	b := opOf(t, map[string]complex128{"IZ": 1, "YY": -1})

	ab, err := a.Add(b)
	require.NoError(t, err)
	ba, err := b.Add(a)
	require.NoError(t, err)

	assert.Equal(t, ab.Terms(), ba.Terms())
	assert.Equal(t, complex128(1+2i), ab.Coeff(mustParse(t, "IZ")))
	assert.Equal(t, complex128(1), ab.Coeff(mustParse(t, "XI")))
	assert.Equal(t, complex128(-1), ab.Coeff(mustParse(t, "YY")))
}

func TestAddDoublesExactly(t *testing.T) {
	p := opOf(t, map[string]complex128{"XZ": 0.3, "II": 0.7i})
	sum, err := p.Add(p)
	require.NoError(t, err)
	for _, tm := range p.Terms() {
		assert.Equal(t, 2*p.Coeff(tm.String), sum.Coeff(tm.String))
	}
}

func TestAddWidthMismatch(t *testing.T) {
	a := opOf(t, map[string]complex128{"X": 1})
	b := opOf(t, map[string]complex128{"XX": 1})
	_, err := a.Add(b)
	require.ErrorIs(t, err, ErrWidthMismatch)
}

func TestAddString(t *testing.T) {
	a := opOf(t, map[string]complex128{"X": 1, "Z": 0.5})
	sum, err := a.AddString(mustParse(t, "Z"))
	require.NoError(t, err)
	assert.Equal(t, complex128(1.5), sum.Coeff(mustParse(t, "Z")))
	assert.Equal(t, complex128(1), sum.Coeff(mustParse(t, "X")))
}

func TestAddScalar(t *testing.T) {
	a := opOf(t, map[string]complex128{"XX": 1})
	sum := a.AddScalar(3i)
	assert.Equal(t, complex128(3i), sum.Coeff(Identity(2)))

	again := sum.AddScalar(1)
	assert.Equal(t, complex128(1+3i), again.Coeff(Identity(2)))
}

func TestMulDistributesOverAdd(t *testing.T) {
	a := opOf(t, map[string]complex128{"XZ": 1, "YI": 2i})
	b := opOf(t, map[string]complex128{"ZZ": 0.5})
	c := opOf(t, map[string]complex128{"IX": -1, "XY": 3})

	bc, err := b.Add(c)
	require.NoError(t, err)
	left, err := a.Mul(bc)
	require.NoError(t, err)

	ab, err := a.Mul(b)
	require.NoError(t, err)
	ac, err := a.Mul(c)
	require.NoError(t, err)
	right, err := ab.Add(ac)
	require.NoError(t, err)

	require.True(t, mat.CEqualApprox(left.Matrix(), right.Matrix(), 1e-12),
		"A*(B+C) != A*B + A*C")
}

func TestMulAccumulatesPhases(t *testing.T) {
	// (X + Y)(Y + X) = XY + XX + YY + YX = iZ + I + I - iZ = 2I.
	a := opOf(t, map[string]complex128{"X": 1, "Y": 1})
	b := opOf(t, map[string]complex128{"Y": 1, "X": 1})
	prod, err := a.Mul(b)
	require.NoError(t, err)

	assert.Equal(t, complex128(2), prod.Coeff(Identity(1)))
	assert.Equal(t, complex128(0), prod.Coeff(mustParse(t, "Z")))
}

func TestMulString(t *testing.T) {
	a := opOf(t, map[string]complex128{"Z": 0.5})

	right, err := a.MulString(mustParse(t, "X"))
	require.NoError(t, err)
	// Z·X = iY.
	assert.Equal(t, complex128(0.5i), right.Coeff(mustParse(t, "Y")))

	left, err := a.MulStringLeft(mustParse(t, "X"))
	require.NoError(t, err)
	// X·Z = -iY.
	assert.Equal(t, complex128(-0.5i), left.Coeff(mustParse(t, "Y")))
}

func TestScale(t *testing.T) {
	a := opOf(t, map[string]complex128{"X": 1, "Z": -2})
	s := a.Scale(2i)
	assert.Equal(t, complex128(2i), s.Coeff(mustParse(t, "X")))
	assert.Equal(t, complex128(-4i), s.Coeff(mustParse(t, "Z")))
}

func TestAdjointRealIsFixedPoint(t *testing.T) {
	a := opOf(t, map[string]complex128{"XI": 0.5, "ZZ": -1})
	assert.Equal(t, a.Terms(), a.Adjoint().Terms())
}

func TestAdjointConjugates(t *testing.T) {
	a := opOf(t, map[string]complex128{"X": 1 + 2i, "Z": -3i})
	adj := a.Adjoint()
	assert.Equal(t, complex128(1-2i), adj.Coeff(mustParse(t, "X")))
	assert.Equal(t, complex128(3i), adj.Coeff(mustParse(t, "Z")))
	assert.Len(t, adj.Terms(), 2)
}

func TestOperatorMatrix(t *testing.T) {
	// |1><1| in the Pauli basis: (I - Z)/2.
	dm := opOf(t, map[string]complex128{"I": 0.5, "Z": -0.5})
	want := mat.NewCDense(2, 2, []complex128{0, 0, 0, 1})
	require.True(t, mat.CEqualApprox(dm.Matrix(), want, 1e-12))

	// Memoized: repeated calls hand back the same matrix.
	assert.Same(t, dm.Matrix(), dm.Matrix())
}

func TestOperatorString(t *testing.T) {
	a := opOf(t, map[string]complex128{"XZ": -0.5})
	assert.Equal(t, "-0.5*XZ", a.String())
}
