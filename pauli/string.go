// Package pauli provides an algebra over the multi-qubit Pauli group: single
// Pauli strings with phase-correct multiplication, complex linear
// combinations of them, and quantum channels in Kraus operator-sum form.
package pauli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/quantumkit/paulialg/pauli/symplectic"
)

// A String represents a single element of the Pauli group: a tensor product
// of single-qubit X, Y and Z factors over a fixed number of qubits, scaled by
// a complex coefficient. The coefficient is always nonzero; a zero scalar is
// not a group element, and every constructor either defaults it to 1 or
// rejects it. Strings are immutable once constructed; build them via New,
// Parse, FromStabilizer or Identity.
type String struct {
	// xs, ys and zs are sorted, pairwise disjoint qubit indices.
	xs, ys, zs []int
	width      int
	coeff      complex128

	dense *denseCell
}

// StringOpts packages together the arguments to New.
type StringOpts struct {
	// Xs, Zs and Ys list the qubit indices carrying an X, Z or Y factor.
	// Indices present in both Xs and Zs are folded into Y (X·Z on a qubit is
	// Y up to phase); Ys itself must be disjoint from the other two.
	Xs, Zs, Ys []int

	// Coeff scales the string. Defaults to 1.
	Coeff complex128

	// Width is the number of qubits the string spans. Defaults to one past
	// the highest referenced index.
	Width int
}

// New constructs a Pauli string from o.
func New(o StringOpts) (String, error) {
	xs, zs := dedupe(o.Xs), dedupe(o.Zs)
	ys := dedupe(o.Ys)
	for _, i := range ys {
		if slices.Contains(xs, i) || slices.Contains(zs, i) {
			return String{}, fmt.Errorf("pauli: qubit %d assigned more than one axis", i)
		}
	}
	// X·Z on a qubit is Y up to phase, so indices in both fold into Y
	// whether or not Ys was given explicitly.
	if overlap := intersect(xs, zs); len(overlap) > 0 {
		ys = dedupe(append(ys, overlap...))
		xs = subtract(xs, overlap)
		zs = subtract(zs, overlap)
	}

	if o.Width < 0 {
		return String{}, fmt.Errorf("%w: negative width %d", ErrWidthMismatch, o.Width)
	}
	width := o.Width
	for _, set := range [][]int{xs, ys, zs} {
		for _, i := range set {
			if i < 0 {
				return String{}, fmt.Errorf("pauli: negative qubit index %d", i)
			}
			if i >= width {
				width = i + 1
			}
		}
	}
	if o.Width != 0 && width != o.Width {
		return String{}, fmt.Errorf("%w: width %d is below the highest referenced qubit %d",
			ErrWidthMismatch, o.Width, width-1)
	}

	coeff := o.Coeff
	if coeff == 0 {
		coeff = 1
	}
	return String{xs: xs, ys: ys, zs: zs, width: width, coeff: coeff, dense: &denseCell{}}, nil
}

// Identity returns the identity string over the given number of qubits.
func Identity(width int) String {
	return String{width: width, coeff: 1, dense: &denseCell{}}
}

// Parse builds a Pauli string from its text notation: an optional
// "<coeff>*" prefix followed by one letter per qubit from {X,Y,Z,I},
// case-insensitive, left to right from qubit 0. The coefficient is tried as
// an integer, then a float, then a complex literal.
func Parse(text string) (String, error) {
	coeff := complex128(1)
	letters := text
	if i := strings.IndexByte(text, '*'); i >= 0 {
		c, err := parseCoeff(text[:i])
		if err != nil {
			return String{}, err
		}
		if c == 0 {
			return String{}, fmt.Errorf("%w: zero coefficient %q", ErrNotation, text[:i])
		}
		coeff = c
		letters = text[i+1:]
	}

	var xs, ys, zs []int
	for i := 0; i < len(letters); i++ {
		switch letters[i] {
		case 'X', 'x':
			xs = append(xs, i)
		case 'Y', 'y':
			ys = append(ys, i)
		case 'Z', 'z':
			zs = append(zs, i)
		case 'I', 'i':
		default:
			return String{}, fmt.Errorf("%w: letter %q at qubit %d", ErrNotation, letters[i], i)
		}
	}
	return New(StringOpts{Xs: xs, Zs: zs, Ys: ys, Coeff: coeff, Width: len(letters)})
}

func parseCoeff(s string) (complex128, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return complex(float64(n), 0), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return complex(f, 0), nil
	}
	if c, err := strconv.ParseComplex(s, 128); err == nil {
		return c, nil
	}
	return 0, fmt.Errorf("%w: coefficient %q", ErrNotation, s)
}

// FromStabilizer is the inverse of Stabilizer: bit i of the first half marks
// qubit i as Z, bit i of the second half as X, and qubits set in both halves
// as Y. The bit sequence must have even length and the coefficient must be
// nonzero.
func FromStabilizer(bits []bool, coeff complex128) (String, error) {
	if coeff == 0 {
		return String{}, fmt.Errorf("pauli: coefficient must be nonzero")
	}
	v, err := symplectic.FromBits(bits)
	if err != nil {
		return String{}, fmt.Errorf("%w: length %d", ErrStabilizer, len(bits))
	}
	return fromVector(v, coeff), nil
}

func fromVector(v symplectic.Vector, coeff complex128) String {
	var xs, ys, zs []int
	for i := 0; i < v.Width(); i++ {
		switch {
		case v.Z(i) && v.X(i):
			ys = append(ys, i)
		case v.Z(i):
			zs = append(zs, i)
		case v.X(i):
			xs = append(xs, i)
		}
	}
	return String{xs: xs, ys: ys, zs: zs, width: v.Width(), coeff: coeff, dense: &denseCell{}}
}

// Width returns the number of qubits p spans.
func (p String) Width() int { return p.width }

// Coeff returns p's scalar coefficient.
func (p String) Coeff() complex128 { return p.coeff }

// Xs returns the qubit indices carrying an X factor.
func (p String) Xs() []int { return slices.Clone(p.xs) }

// Ys returns the qubit indices carrying a Y factor.
func (p String) Ys() []int { return slices.Clone(p.ys) }

// Zs returns the qubit indices carrying a Z factor.
func (p String) Zs() []int { return slices.Clone(p.zs) }

// IsIdentity reports whether p acts trivially on every qubit.
func (p String) IsIdentity() bool {
	return len(p.xs) == 0 && len(p.ys) == 0 && len(p.zs) == 0
}

// Normalized splits p into a pure basis element with coefficient 1 and the
// extracted scalar.
func (p String) Normalized() (String, complex128) {
	q := p
	q.coeff = 1
	q.dense = &denseCell{}
	return q, p.coeff
}

// String renders p in the notation accepted by Parse, e.g. "-1*XIYZ".
func (p String) String() string {
	var b strings.Builder
	if p.coeff != 1 {
		b.WriteString(formatCoeff(p.coeff))
		b.WriteByte('*')
	}
	for i := 0; i < p.width; i++ {
		switch {
		case slices.Contains(p.xs, i):
			b.WriteByte('X')
		case slices.Contains(p.ys, i):
			b.WriteByte('Y')
		case slices.Contains(p.zs, i):
			b.WriteByte('Z')
		default:
			b.WriteByte('I')
		}
	}
	return b.String()
}

func formatCoeff(c complex128) string {
	if imag(c) == 0 {
		return strconv.FormatFloat(real(c), 'g', -1, 64)
	}
	return strconv.FormatComplex(c, 'g', -1, 128)
}

// Stabilizer returns p's symplectic encoding at the given width, the z-block
// followed by the x-block. A width of 0 uses p's own width; wider requests
// zero-pad on the high qubits. Requesting a width below p's own fails.
func (p String) Stabilizer(width int) (symplectic.Vector, error) {
	if width == 0 {
		width = p.width
	}
	if width < p.width {
		return symplectic.Vector{}, fmt.Errorf("%w: stabilizer at width %d for a %d-qubit string",
			ErrWidthMismatch, width, p.width)
	}
	v := symplectic.New(width)
	for _, i := range p.xs {
		v.SetX(i)
	}
	for _, i := range p.zs {
		v.SetZ(i)
	}
	for _, i := range p.ys {
		v.SetX(i)
		v.SetZ(i)
	}
	return v, nil
}

// SwappedStabilizer is Stabilizer with the x-block first, aligning p for the
// symplectic pairing.
func (p String) SwappedStabilizer(width int) (symplectic.Vector, error) {
	v, err := p.Stabilizer(width)
	if err != nil {
		return symplectic.Vector{}, err
	}
	return v.Swapped(), nil
}

// Key returns p's canonical symplectic identity, independent of its
// coefficient. Two strings with equal keys represent the same basis element
// at the same width.
func (p String) Key() string {
	v, _ := p.Stabilizer(0)
	return v.Key()
}

// Equal reports whether p and q have the same width, support and
// coefficient.
func (p String) Equal(q String) bool {
	return p.width == q.width && p.coeff == q.coeff && p.Key() == q.Key()
}

// Mul returns the Pauli group product p·q. Operands of different widths are
// combined at the wider width. The result's coefficient folds together both
// operand coefficients and the i^k phase of the product.
func (p String) Mul(q String) String {
	w := max(p.width, q.width)
	a, _ := p.Stabilizer(w)
	b, _ := q.Stabilizer(w)

	k := 0
	for i := 0; i < w; i++ {
		z1, x1 := bit(a.Z(i)), bit(a.X(i))
		z2, x2 := bit(b.Z(i)), bit(b.X(i))
		k += (z1*x2 - x1*z2) * (1 - 2*z1*x1) * (1 - 2*z2*x2)
	}
	return fromVector(a.XOr(b), p.coeff*q.coeff*iPow(k))
}

// SymplecticProduct returns the symplectic inner product of p and q: 0 when
// they commute, 1 when they anticommute.
func (p String) SymplecticProduct(q String) int {
	w := max(p.width, q.width)
	a, _ := p.Stabilizer(w)
	b, _ := q.Stabilizer(w)
	return a.Product(b)
}

// CommutativeSign returns +1 when p and q commute and -1 when they
// anticommute, i.e. the sign s in q·p = s·p·q.
func (p String) CommutativeSign(q String) int {
	if p.SymplecticProduct(q) == 0 {
		return 1
	}
	return -1
}

// Commutes reports whether p and q commute.
func (p String) Commutes(q String) bool {
	return p.SymplecticProduct(q) == 0
}

// Matrix returns the dense 2^Width x 2^Width representation of p: the
// iterated Kronecker product of its single-qubit factors, qubit 0 least
// significant, scaled by p's coefficient. The matrix is computed once and
// cached; callers must not modify it.
func (p String) Matrix() *mat.CDense {
	if p.dense == nil {
		return p.buildMatrix()
	}
	p.dense.once.Do(func() { p.dense.m = p.buildMatrix() })
	return p.dense.m
}

func (p String) buildMatrix() *mat.CDense {
	m := mat.NewCDense(1, 1, []complex128{1})
	for i := 0; i < p.width; i++ {
		m = kron(p.factor(i), m)
	}
	if p.coeff != 1 {
		d, _ := m.Dims()
		for r := 0; r < d; r++ {
			for c := 0; c < d; c++ {
				m.Set(r, c, p.coeff*m.At(r, c))
			}
		}
	}
	return m
}

func (p String) factor(i int) *mat.CDense {
	switch {
	case slices.Contains(p.xs, i):
		return matX
	case slices.Contains(p.ys, i):
		return matY
	case slices.Contains(p.zs, i):
		return matZ
	}
	return matI
}

// iPow returns i^k for any integer k.
func iPow(k int) complex128 {
	switch ((k % 4) + 4) % 4 {
	case 0:
		return 1
	case 1:
		return 1i
	case 2:
		return -1
	default:
		return -1i
	}
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func dedupe(s []int) []int {
	if len(s) == 0 {
		return nil
	}
	r := slices.Clone(s)
	slices.Sort(r)
	return slices.Compact(r)
}

// intersect returns the elements common to two sorted slices.
func intersect(a, b []int) []int {
	var r []int
	for _, v := range a {
		if slices.Contains(b, v) {
			r = append(r, v)
		}
	}
	return r
}

// subtract returns the elements of a not present in sorted b.
func subtract(a, b []int) []int {
	var r []int
	for _, v := range a {
		if !slices.Contains(b, v) {
			r = append(r, v)
		}
	}
	return r
}
