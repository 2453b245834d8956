package curve

import (
	"encoding/hex"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	secp256k1PointBytes  = 33
	secp256k1ScalarBytes = 32
)

var secp256k1Order = modulusFromHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141")

// Secp256k1 is the group of points on the secp256k1 curve. Its cofactor is 1.
type Secp256k1 struct{}

func (Secp256k1) NewPoint() Point {
	return new(Secp256k1Point)
}

func (Secp256k1) NewBasePoint() Point {
	out := new(Secp256k1Point)
	var one secp256k1.ModNScalar
	one.SetInt(1)
	secp256k1.ScalarBaseMultNonConst(&one, &out.value)
	return out
}

func (Secp256k1) NewScalar() Scalar {
	return new(Secp256k1Scalar)
}

func (Secp256k1) Name() string {
	return "secp256k1"
}

func (Secp256k1) ScalarBits() int {
	return 256
}

func (c Secp256k1) SafeScalarBytes() int {
	return safeScalarBytes(c.ScalarBits())
}

func (Secp256k1) PointBytes() int {
	return secp256k1PointBytes
}

func (Secp256k1) ScalarBytes() int {
	return secp256k1ScalarBytes
}

func (Secp256k1) Order() *saferith.Modulus {
	return secp256k1Order
}

type Secp256k1Scalar struct {
	value secp256k1.ModNScalar
}

func castScalarSecp256k1(generic Scalar) *Secp256k1Scalar {
	out, ok := generic.(*Secp256k1Scalar)
	if !ok {
		panic("curve: incompatible scalar, expected secp256k1")
	}
	return out
}

func (*Secp256k1Scalar) Curve() Curve {
	return Secp256k1{}
}

func (s *Secp256k1Scalar) MarshalBinary() ([]byte, error) {
	data := s.value.Bytes()
	return data[:], nil
}

func (s *Secp256k1Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != secp256k1ScalarBytes {
		return ErrInvalidScalar
	}
	var exact [secp256k1ScalarBytes]byte
	copy(exact[:], data)
	var value secp256k1.ModNScalar
	if overflow := value.SetBytes(&exact); overflow != 0 {
		return ErrInvalidScalar
	}
	s.value.Set(&value)
	return nil
}

func (s *Secp256k1Scalar) Add(that Scalar) Scalar {
	other := castScalarSecp256k1(that)
	s.value.Add(&other.value)
	return s
}

func (s *Secp256k1Scalar) Sub(that Scalar) Scalar {
	other := castScalarSecp256k1(that)
	var negated secp256k1.ModNScalar
	negated.NegateVal(&other.value)
	s.value.Add(&negated)
	return s
}

func (s *Secp256k1Scalar) Mul(that Scalar) Scalar {
	other := castScalarSecp256k1(that)
	s.value.Mul(&other.value)
	return s
}

func (s *Secp256k1Scalar) Negate() Scalar {
	s.value.Negate()
	return s
}

func (s *Secp256k1Scalar) Equal(that Scalar) bool {
	other, ok := that.(*Secp256k1Scalar)
	if !ok {
		return false
	}
	return s.value.Equals(&other.value)
}

func (s *Secp256k1Scalar) IsZero() bool {
	return s.value.IsZero()
}

func (s *Secp256k1Scalar) Set(that Scalar) Scalar {
	other := castScalarSecp256k1(that)
	s.value.Set(&other.value)
	return s
}

func (s *Secp256k1Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, secp256k1Order)
	s.value.SetByteSlice(reduced.Bytes())
	return s
}

func (s *Secp256k1Scalar) Act(that Point) Point {
	other := castPointSecp256k1(that)
	out := new(Secp256k1Point)
	secp256k1.ScalarMultNonConst(&s.value, &other.value, &out.value)
	return out
}

func (s *Secp256k1Scalar) ActOnBase() Point {
	out := new(Secp256k1Point)
	secp256k1.ScalarBaseMultNonConst(&s.value, &out.value)
	return out
}

// Secp256k1Point is a point in Jacobian coordinates. The zero value is the
// identity.
type Secp256k1Point struct {
	value secp256k1.JacobianPoint
}

func castPointSecp256k1(generic Point) *Secp256k1Point {
	out, ok := generic.(*Secp256k1Point)
	if !ok {
		panic("curve: incompatible point, expected secp256k1")
	}
	return out
}

func (*Secp256k1Point) Curve() Curve {
	return Secp256k1{}
}

// MarshalBinary returns the 33-byte compressed encoding. The identity is
// encoded as 33 zero bytes.
func (p *Secp256k1Point) MarshalBinary() ([]byte, error) {
	if p.IsIdentity() {
		return make([]byte, secp256k1PointBytes), nil
	}
	affine := p.affine()
	return secp256k1.NewPublicKey(&affine.X, &affine.Y).SerializeCompressed(), nil
}

// UnmarshalBinary decodes a compressed point, rejecting anything that is not
// on the curve.
func (p *Secp256k1Point) UnmarshalBinary(data []byte) error {
	if len(data) != secp256k1PointBytes {
		return ErrInvalidPoint
	}
	if isZeroBytes(data) {
		p.value = secp256k1.JacobianPoint{}
		return nil
	}
	key, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return ErrInvalidPoint
	}
	var value secp256k1.JacobianPoint
	key.AsJacobian(&value)
	p.value = value
	return nil
}

func (p *Secp256k1Point) Add(that Point) Point {
	other := castPointSecp256k1(that)
	out := new(Secp256k1Point)
	secp256k1.AddNonConst(&p.value, &other.value, &out.value)
	return out
}

func (p *Secp256k1Point) Sub(that Point) Point {
	return p.Add(that.Negate())
}

func (p *Secp256k1Point) Negate() Point {
	out := new(Secp256k1Point)
	if p.IsIdentity() {
		return out
	}
	out.value = p.affine()
	out.value.Y.Negate(1).Normalize()
	return out
}

func (p *Secp256k1Point) Set(that Point) Point {
	other := castPointSecp256k1(that)
	p.value.Set(&other.value)
	return p
}

func (p *Secp256k1Point) Equal(that Point) bool {
	other, ok := that.(*Secp256k1Point)
	if !ok {
		return false
	}
	pIdentity, otherIdentity := p.IsIdentity(), other.IsIdentity()
	if pIdentity || otherIdentity {
		return pIdentity && otherIdentity
	}
	a, b := p.affine(), other.affine()
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y)
}

func (p *Secp256k1Point) IsIdentity() bool {
	var x, y, z secp256k1.FieldVal
	x.Set(&p.value.X).Normalize()
	y.Set(&p.value.Y).Normalize()
	z.Set(&p.value.Z).Normalize()
	return (x.IsZero() && y.IsZero()) || z.IsZero()
}

// affine returns a normalized affine copy. It must not be called on the
// identity.
func (p *Secp256k1Point) affine() secp256k1.JacobianPoint {
	var out secp256k1.JacobianPoint
	out.Set(&p.value)
	out.ToAffine()
	return out
}

func modulusFromHex(s string) *saferith.Modulus {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return saferith.ModulusFromBytes(b)
}

func isZeroBytes(data []byte) bool {
	var acc byte
	for _, b := range data {
		acc |= b
	}
	return acc == 0
}
