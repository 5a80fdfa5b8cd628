package pauli

import "errors"

// Sentinel errors for the validation failures this package can report.
// Raise sites wrap these with context via fmt.Errorf; callers match with
// errors.Is.
var (
	// ErrStabilizer indicates a malformed stabilizer vector, e.g. one of odd
	// length.
	ErrStabilizer = errors.New("pauli: malformed stabilizer vector")

	// ErrNotation indicates malformed text notation: an unrecognized Pauli
	// letter, or a coefficient prefix that parses as neither int, float nor
	// complex.
	ErrNotation = errors.New("pauli: malformed string notation")

	// ErrWidthMismatch indicates inconsistent qubit widths: a requested width
	// below a string's intrinsic width, operator terms of differing widths,
	// or a channel applied to an operand of the wrong width.
	ErrWidthMismatch = errors.New("pauli: qubit width mismatch")

	// ErrBasisKey indicates an operator basis key whose intrinsic coefficient
	// is not 1.
	ErrBasisKey = errors.New("pauli: basis key must have coefficient 1")

	// ErrEmptyChannel indicates a Kraus channel built with no operators.
	ErrEmptyChannel = errors.New("pauli: channel has no Kraus operators")
)
