package elgamal

import (
	"fmt"
	"io"

	"github.com/mr-shifu/groupenc/core/math/curve"
	"github.com/mr-shifu/groupenc/core/math/sample"
	"github.com/pkg/errors"
)

const maxKeyGenAttempts = 16

// PublicKey is y = x⋅G.
type PublicKey struct {
	params *Parameters
	y      curve.Point
}

// PrivateKey is a scalar x in [1, ℓ-1] together with its public key.
//
// Formatting a PrivateKey never prints the scalar.
type PrivateKey struct {
	params *Parameters
	x      curve.Scalar
	public *PublicKey
}

// KeyGen samples a keypair for params.
func KeyGen(params *Parameters, rand io.Reader) (*PrivateKey, *PublicKey, error) {
	if params == nil {
		return nil, nil, errors.WithMessage(ErrInvalidParameters, "nil parameters")
	}
	for i := 0; i < maxKeyGenAttempts; i++ {
		x, y, err := sample.ScalarPointPair(rand, params.group, params.generator)
		if err != nil {
			return nil, nil, randomnessFailure(err)
		}
		if y.IsIdentity() {
			continue
		}
		public := &PublicKey{params: params, y: y}
		return &PrivateKey{params: params, x: x, public: public}, public, nil
	}
	panic("elgamal: generator does not generate a prime-order group")
}

// NewPrivateKey imports x as a private key for params.
func NewPrivateKey(params *Parameters, x curve.Scalar) (*PrivateKey, error) {
	if params == nil {
		return nil, errors.WithMessage(ErrInvalidParameters, "nil parameters")
	}
	if x == nil || !curve.SameCurve(x.Curve(), params.group) {
		return nil, errors.WithMessage(ErrInvalidKey, "scalar does not belong to the parameters' group")
	}
	if x.IsZero() {
		return nil, errors.WithMessage(ErrInvalidKey, "zero private key")
	}
	secret := params.group.NewScalar().Set(x)
	y := secret.Act(params.generator)
	if y.IsIdentity() {
		panic("elgamal: non-zero scalar maps the generator to the identity")
	}
	return &PrivateKey{
		params: params,
		x:      secret,
		public: &PublicKey{params: params, y: y},
	}, nil
}

// NewPublicKey imports y as a public key for params.
func NewPublicKey(params *Parameters, y curve.Point) (*PublicKey, error) {
	if params == nil {
		return nil, errors.WithMessage(ErrInvalidParameters, "nil parameters")
	}
	if y == nil || !curve.SameCurve(y.Curve(), params.group) {
		return nil, errors.WithMessage(ErrInvalidKey, "point does not belong to the parameters' group")
	}
	if y.IsIdentity() {
		return nil, errors.WithMessage(ErrInvalidKey, "public key is the identity")
	}
	return &PublicKey{params: params, y: params.group.NewPoint().Set(y)}, nil
}

// UnmarshalPrivateKey decodes a canonical scalar encoding.
func UnmarshalPrivateKey(params *Parameters, data []byte) (*PrivateKey, error) {
	if params == nil {
		return nil, errors.WithMessage(ErrInvalidParameters, "nil parameters")
	}
	x := params.group.NewScalar()
	if err := x.UnmarshalBinary(data); err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}
	return NewPrivateKey(params, x)
}

// UnmarshalPublicKey decodes a canonical point encoding.
func UnmarshalPublicKey(params *Parameters, data []byte) (*PublicKey, error) {
	if params == nil {
		return nil, errors.WithMessage(ErrInvalidParameters, "nil parameters")
	}
	y := params.group.NewPoint()
	if err := y.UnmarshalBinary(data); err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}
	return NewPublicKey(params, y)
}

func (sk *PrivateKey) Parameters() *Parameters {
	return sk.params
}

func (sk *PrivateKey) Public() *PublicKey {
	return sk.public
}

// MarshalBinary returns the canonical encoding of x. The result is secret.
func (sk *PrivateKey) MarshalBinary() ([]byte, error) {
	return sk.x.MarshalBinary()
}

// Equal reports whether both keys hold the same scalar for the same parameters.
func (sk *PrivateKey) Equal(other *PrivateKey) bool {
	if sk == nil || other == nil {
		return sk == other
	}
	return sk.params.Equal(other.params) && sk.x.Equal(other.x)
}

func (sk *PrivateKey) String() string {
	return "elgamal.PrivateKey{[redacted]}"
}

func (sk *PrivateKey) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, sk.String())
}

func (pk *PublicKey) Parameters() *Parameters {
	return pk.params
}

// Point returns a copy of y.
func (pk *PublicKey) Point() curve.Point {
	return pk.params.group.NewPoint().Set(pk.y)
}

func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return pk.y.MarshalBinary()
}

func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil {
		return pk == other
	}
	return pk.params.Equal(other.params) && pk.y.Equal(other.y)
}
