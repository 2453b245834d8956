package curve

import (
	"encoding"
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
)

var (
	ErrInvalidPoint  = errors.New("curve: invalid point encoding")
	ErrInvalidScalar = errors.New("curve: invalid scalar encoding")
	ErrUnknownCurve  = errors.New("curve: unknown curve")
)

// Curve is a prime-order group on an elliptic curve.
//
// Points returned by a Curve, and by the operations on those points, always lie
// in the prime-order subgroup.
type Curve interface {
	// NewPoint returns the identity element.
	NewPoint() Point
	// NewBasePoint returns the standard generator of the group.
	NewBasePoint() Point
	// NewScalar returns the zero scalar.
	NewScalar() Scalar
	// Name identifies the curve in encodings and configuration.
	Name() string
	// ScalarBits is the bit length of the group order.
	ScalarBits() int
	// SafeScalarBytes is the number of random bytes needed to sample a scalar
	// with negligible bias after reduction.
	SafeScalarBytes() int
	// PointBytes is the width of the canonical point encoding.
	PointBytes() int
	// ScalarBytes is the width of the canonical scalar encoding.
	ScalarBytes() int
	// Order returns the prime order of the group.
	Order() *saferith.Modulus
}

// Scalar is an integer modulo the group order.
//
// Arithmetic methods modify the receiver and return it.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Negate() Scalar
	Equal(Scalar) bool
	IsZero() bool
	Set(Scalar) Scalar
	SetNat(*saferith.Nat) Scalar
	// Act returns s⋅P without modifying P.
	Act(Point) Point
	// ActOnBase returns s⋅B for the standard generator B.
	ActOnBase() Point
}

// Point is an element of the group.
//
// Arithmetic methods return a new point and leave the receiver untouched,
// except Set.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	Set(Point) Point
	Equal(Point) bool
	IsIdentity() bool
}

// FromName returns the curve registered under name.
func FromName(name string) (Curve, error) {
	switch name {
	case Secp256k1{}.Name():
		return Secp256k1{}, nil
	case Edwards25519{}.Name():
		return Edwards25519{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
}

// SameCurve reports whether a and b name the same group.
func SameCurve(a, b Curve) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Name() == b.Name()
}

func safeScalarBytes(bits int) int {
	return (bits + 128 + 7) / 8
}
