package curve

import (
	"bytes"

	ed "filippo.io/edwards25519"
	"github.com/cronokirby/saferith"
)

const (
	edwards25519PointBytes  = 32
	edwards25519ScalarBytes = 32
)

var (
	edwards25519Order = modulusFromHex("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed")

	// ℓ-1, used to test membership in the prime-order subgroup.
	edwards25519MinusOne = func() *ed.Scalar {
		one := [edwards25519ScalarBytes]byte{1}
		s, err := ed.NewScalar().SetCanonicalBytes(one[:])
		if err != nil {
			panic(err)
		}
		return ed.NewScalar().Negate(s)
	}()
)

// Edwards25519 is the prime-order subgroup of the twisted Edwards form of
// Curve25519. Points with a small-order component are rejected on decoding.
type Edwards25519 struct{}

func (Edwards25519) NewPoint() Point {
	return &Edwards25519Point{value: ed.NewIdentityPoint()}
}

func (Edwards25519) NewBasePoint() Point {
	return &Edwards25519Point{value: ed.NewGeneratorPoint()}
}

func (Edwards25519) NewScalar() Scalar {
	return &Edwards25519Scalar{value: ed.NewScalar()}
}

func (Edwards25519) Name() string {
	return "edwards25519"
}

func (Edwards25519) ScalarBits() int {
	return 253
}

func (c Edwards25519) SafeScalarBytes() int {
	return safeScalarBytes(c.ScalarBits())
}

func (Edwards25519) PointBytes() int {
	return edwards25519PointBytes
}

func (Edwards25519) ScalarBytes() int {
	return edwards25519ScalarBytes
}

func (Edwards25519) Order() *saferith.Modulus {
	return edwards25519Order
}

type Edwards25519Scalar struct {
	value *ed.Scalar
}

func castScalarEdwards25519(generic Scalar) *Edwards25519Scalar {
	out, ok := generic.(*Edwards25519Scalar)
	if !ok {
		panic("curve: incompatible scalar, expected edwards25519")
	}
	return out
}

func (*Edwards25519Scalar) Curve() Curve {
	return Edwards25519{}
}

// MarshalBinary returns the 32-byte little-endian encoding.
func (s *Edwards25519Scalar) MarshalBinary() ([]byte, error) {
	return s.value.Bytes(), nil
}

func (s *Edwards25519Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != edwards25519ScalarBytes {
		return ErrInvalidScalar
	}
	value, err := ed.NewScalar().SetCanonicalBytes(data)
	if err != nil {
		return ErrInvalidScalar
	}
	s.value = value
	return nil
}

func (s *Edwards25519Scalar) Add(that Scalar) Scalar {
	other := castScalarEdwards25519(that)
	s.value.Add(s.value, other.value)
	return s
}

func (s *Edwards25519Scalar) Sub(that Scalar) Scalar {
	other := castScalarEdwards25519(that)
	s.value.Subtract(s.value, other.value)
	return s
}

func (s *Edwards25519Scalar) Mul(that Scalar) Scalar {
	other := castScalarEdwards25519(that)
	s.value.Multiply(s.value, other.value)
	return s
}

func (s *Edwards25519Scalar) Negate() Scalar {
	s.value.Negate(s.value)
	return s
}

func (s *Edwards25519Scalar) Equal(that Scalar) bool {
	other, ok := that.(*Edwards25519Scalar)
	if !ok {
		return false
	}
	return s.value.Equal(other.value) == 1
}

func (s *Edwards25519Scalar) IsZero() bool {
	return s.value.Equal(ed.NewScalar()) == 1
}

func (s *Edwards25519Scalar) Set(that Scalar) Scalar {
	other := castScalarEdwards25519(that)
	s.value.Set(other.value)
	return s
}

func (s *Edwards25519Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, edwards25519Order).Bytes()
	if len(reduced) > edwards25519ScalarBytes {
		panic("curve: reduced edwards25519 scalar does not fit")
	}
	// saferith is big-endian, edwards25519 little-endian
	var le [edwards25519ScalarBytes]byte
	for i, b := range reduced {
		le[len(reduced)-1-i] = b
	}
	if _, err := s.value.SetCanonicalBytes(le[:]); err != nil {
		panic("curve: reduced edwards25519 scalar is not canonical")
	}
	return s
}

func (s *Edwards25519Scalar) Act(that Point) Point {
	other := castPointEdwards25519(that)
	return &Edwards25519Point{value: ed.NewIdentityPoint().ScalarMult(s.value, other.value)}
}

func (s *Edwards25519Scalar) ActOnBase() Point {
	return &Edwards25519Point{value: ed.NewIdentityPoint().ScalarBaseMult(s.value)}
}

type Edwards25519Point struct {
	value *ed.Point
}

func castPointEdwards25519(generic Point) *Edwards25519Point {
	out, ok := generic.(*Edwards25519Point)
	if !ok {
		panic("curve: incompatible point, expected edwards25519")
	}
	return out
}

func (*Edwards25519Point) Curve() Curve {
	return Edwards25519{}
}

func (p *Edwards25519Point) MarshalBinary() ([]byte, error) {
	return p.value.Bytes(), nil
}

// UnmarshalBinary accepts only canonical encodings of points in the
// prime-order subgroup.
func (p *Edwards25519Point) UnmarshalBinary(data []byte) error {
	if len(data) != edwards25519PointBytes {
		return ErrInvalidPoint
	}
	value, err := ed.NewIdentityPoint().SetBytes(data)
	if err != nil {
		return ErrInvalidPoint
	}
	if !bytes.Equal(value.Bytes(), data) {
		return ErrInvalidPoint
	}
	if !inPrimeOrderSubgroup(value) {
		return ErrInvalidPoint
	}
	p.value = value
	return nil
}

func (p *Edwards25519Point) Add(that Point) Point {
	other := castPointEdwards25519(that)
	return &Edwards25519Point{value: ed.NewIdentityPoint().Add(p.value, other.value)}
}

func (p *Edwards25519Point) Sub(that Point) Point {
	other := castPointEdwards25519(that)
	return &Edwards25519Point{value: ed.NewIdentityPoint().Subtract(p.value, other.value)}
}

func (p *Edwards25519Point) Negate() Point {
	return &Edwards25519Point{value: ed.NewIdentityPoint().Negate(p.value)}
}

func (p *Edwards25519Point) Set(that Point) Point {
	other := castPointEdwards25519(that)
	p.value = ed.NewIdentityPoint().Set(other.value)
	return p
}

func (p *Edwards25519Point) Equal(that Point) bool {
	other, ok := that.(*Edwards25519Point)
	if !ok {
		return false
	}
	return p.value.Equal(other.value) == 1
}

func (p *Edwards25519Point) IsIdentity() bool {
	return p.value.Equal(ed.NewIdentityPoint()) == 1
}

// inPrimeOrderSubgroup reports whether [ℓ]P is the identity, computed as
// [ℓ-1]P + P. For a torsion component T this leaves [ℓ]T = [5]T, which is
// the identity only when T is.
func inPrimeOrderSubgroup(p *ed.Point) bool {
	q := ed.NewIdentityPoint().ScalarMult(edwards25519MinusOne, p)
	q.Add(q, p)
	return q.Equal(ed.NewIdentityPoint()) == 1
}
