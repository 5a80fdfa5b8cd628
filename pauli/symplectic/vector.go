// Package symplectic provides densely-packed binary vectors encoding the
// stabilizer representation of Pauli strings: a z-block followed by an
// x-block of equal width, one bit per qubit.
package symplectic

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/bits"
)

// ErrOddLength is returned when a raw bit sequence cannot be split into two
// equal blocks.
var ErrOddLength = errors.New("symplectic: bit count must be even")

// A Vector is a stabilizer vector over F_2. Bit i of the z-block is set iff
// qubit i carries a Z or Y factor; bit i of the x-block iff it carries an X
// or Y factor. The zero value is the width-0 vector.
//
// Both blocks are byte-packed. All operations keep the bits beyond width
// zero, so block-level XOR and popcount need no masking.
type Vector struct {
	z, x  []byte
	width int
}

const blockSize = 8

// New returns the all-zero vector over the given number of qubits.
func New(width int) Vector {
	return Vector{
		z:     make([]byte, blocksFor(width)),
		x:     make([]byte, blocksFor(width)),
		width: width,
	}
}

// FromBits builds a Vector from a flat bit sequence, the z-block first. The
// sequence must have even length.
func FromBits(b []bool) (Vector, error) {
	if len(b)%2 != 0 {
		return Vector{}, ErrOddLength
	}
	n := len(b) / 2
	v := New(n)
	for i := 0; i < n; i++ {
		if b[i] {
			v.SetZ(i)
		}
		if b[n+i] {
			v.SetX(i)
		}
	}
	return v, nil
}

// Width returns the number of qubits v spans.
func (v Vector) Width() int { return v.width }

// Len returns the total number of bits in v, i.e. 2·Width.
func (v Vector) Len() int { return 2 * v.width }

// Z returns the z-block bit for qubit i. Indices at or beyond Width read as
// zero.
func (v Vector) Z(i int) bool { return getBit(v.z, i, v.width) }

// X returns the x-block bit for qubit i. Indices at or beyond Width read as
// zero.
func (v Vector) X(i int) bool { return getBit(v.x, i, v.width) }

// SetZ sets the z-block bit for qubit i.
func (v *Vector) SetZ(i int) { v.z[i/blockSize] |= 1 << (i % blockSize) }

// SetX sets the x-block bit for qubit i.
func (v *Vector) SetX(i int) { v.x[i/blockSize] |= 1 << (i % blockSize) }

// XOr returns the block-wise XOR of v and o. If the widths differ, the
// narrower operand is implicitly zero-extended to the wider one.
func (v Vector) XOr(o Vector) Vector {
	w := v.width
	if o.width > w {
		w = o.width
	}
	r := New(w)
	for i := range r.z {
		r.z[i] = byteAt(v.z, i) ^ byteAt(o.z, i)
		r.x[i] = byteAt(v.x, i) ^ byteAt(o.x, i)
	}
	return r
}

// And returns the block-wise AND of v and o, zero-extending the narrower
// operand.
func (v Vector) And(o Vector) Vector {
	w := v.width
	if o.width > w {
		w = o.width
	}
	r := New(w)
	for i := range r.z {
		r.z[i] = byteAt(v.z, i) & byteAt(o.z, i)
		r.x[i] = byteAt(v.x, i) & byteAt(o.x, i)
	}
	return r
}

// Parity returns the parity of all bits in v, true meaning odd.
func (v Vector) Parity() bool {
	var sum byte
	for i := range v.z {
		sum ^= v.z[i]
	}
	for i := range v.x {
		sum ^= v.x[i]
	}
	return bits.OnesCount8(sum)%2 == 1
}

// Swapped returns a copy of v with the z- and x-blocks exchanged, aligning v
// for the symplectic pairing.
func (v Vector) Swapped() Vector {
	return Vector{
		z:     bytes.Clone(v.x),
		x:     bytes.Clone(v.z),
		width: v.width,
	}
}

// PadTo returns a copy of v zero-extended to the given width. Widths at or
// below v's own are ignored.
func (v Vector) PadTo(width int) Vector {
	if width <= v.width {
		width = v.width
	}
	r := New(width)
	copy(r.z, v.z)
	copy(r.x, v.x)
	return r
}

// Product returns the symplectic product of v and o: the parity of the AND
// between v and o with its blocks swapped. A result of 0 means the encoded
// Pauli strings commute, 1 that they anticommute.
func (v Vector) Product(o Vector) int {
	if v.And(o.Swapped()).Parity() {
		return 1
	}
	return 0
}

// Bits returns v as a flat bit sequence, the z-block first.
func (v Vector) Bits() []bool {
	b := make([]bool, 2*v.width)
	for i := 0; i < v.width; i++ {
		b[i] = v.Z(i)
		b[v.width+i] = v.X(i)
	}
	return b
}

// Key returns a compact string form of v suitable as a map key. Vectors are
// equal iff their keys are equal.
func (v Vector) Key() string {
	b := make([]byte, 4, 4+len(v.z)+len(v.x))
	binary.BigEndian.PutUint32(b, uint32(v.width))
	b = append(b, v.z...)
	b = append(b, v.x...)
	return string(b)
}

// Equal reports whether v and o have the same width and the same bits.
func (v Vector) Equal(o Vector) bool {
	return v.width == o.width && bytes.Equal(v.z, o.z) && bytes.Equal(v.x, o.x)
}

func getBit(b []byte, i, width int) bool {
	if i < 0 || i >= width {
		return false
	}
	return b[i/blockSize]&(1<<(i%blockSize)) != 0
}

func byteAt(b []byte, i int) byte {
	if i >= len(b) {
		return 0
	}
	return b[i]
}

func blocksFor(n int) int {
	return (n + blockSize - 1) / blockSize
}
