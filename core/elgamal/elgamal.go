package elgamal

import (
	"io"

	"github.com/mr-shifu/groupenc/core/math/curve"
	"github.com/mr-shifu/groupenc/core/math/sample"
	"github.com/pkg/errors"
)

// Encrypt returns the encryption of plaintext under public as
// (c₀=r⋅G, cᵢ=mᵢ + maskᵢ(r⋅y, i)) for a fresh non-zero nonce r read from rand.
// A nil rand uses crypto/rand.
//
// The scheme carries no integrity tag: a ciphertext is confidential but not
// authenticated.
func Encrypt(public *PublicKey, plaintext []curve.Point, rand io.Reader) (*Ciphertext, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyMessage
	}
	if public == nil {
		return nil, errors.WithMessage(ErrInvalidKey, "nil public key")
	}
	params := public.params
	group := params.group
	for i, m := range plaintext {
		if m == nil || !curve.SameCurve(m.Curve(), group) {
			return nil, errors.WithMessagef(ErrInvalidPlaintext, "element %d is not an element of %s", i, group.Name())
		}
	}

	nonce, err := sample.ScalarUnit(rand, group)
	if err != nil {
		return nil, randomnessFailure(err)
	}
	shared := nonce.Act(public.y)
	masks := deriveMasks(params, shared, len(plaintext))

	components := make([]curve.Point, len(plaintext)+1)
	components[0] = nonce.Act(params.generator)
	for i, m := range plaintext {
		components[i+1] = m.Add(masks[i])
	}

	return &Ciphertext{group: group, components: components}, nil
}

// Decrypt recovers the plaintext from ciphertext. It is deterministic.
//
// Decrypting with a key other than the one the ciphertext was produced for
// returns unrelated group elements, not an error.
func Decrypt(private *PrivateKey, ciphertext *Ciphertext) ([]curve.Point, error) {
	if private == nil {
		return nil, errors.WithMessage(ErrInvalidKey, "nil private key")
	}
	if err := ciphertext.validate(private.params.group); err != nil {
		return nil, err
	}

	shared := private.x.Act(ciphertext.components[0])
	slots := ciphertext.components[1:]
	masks := deriveMasks(private.params, shared, len(slots))

	plaintext := make([]curve.Point, len(slots))
	for i, c := range slots {
		plaintext[i] = c.Sub(masks[i])
	}
	return plaintext, nil
}

// DecryptBytes decodes a ciphertext produced by Ciphertext.MarshalBinary and
// decrypts it.
func DecryptBytes(private *PrivateKey, data []byte) ([]curve.Point, error) {
	if private == nil {
		return nil, errors.WithMessage(ErrInvalidKey, "nil private key")
	}
	ciphertext := NewCiphertext(private.params.group)
	if err := ciphertext.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return Decrypt(private, ciphertext)
}

// Scheme binds the four operations to one set of parameters.
type Scheme struct {
	params *Parameters
}

func NewScheme(params *Parameters) *Scheme {
	return &Scheme{params: params}
}

func (s *Scheme) Parameters() *Parameters {
	return s.params
}

func (s *Scheme) KeyGen(rand io.Reader) (*PrivateKey, *PublicKey, error) {
	return KeyGen(s.params, rand)
}

func (s *Scheme) Encrypt(public *PublicKey, plaintext []curve.Point, rand io.Reader) (*Ciphertext, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyMessage
	}
	if public == nil || !s.params.Equal(public.params) {
		return nil, errors.WithMessage(ErrInvalidKey, "public key was generated for different parameters")
	}
	return Encrypt(public, plaintext, rand)
}

func (s *Scheme) Decrypt(private *PrivateKey, ciphertext *Ciphertext) ([]curve.Point, error) {
	if private == nil || !s.params.Equal(private.params) {
		return nil, errors.WithMessage(ErrInvalidKey, "private key was generated for different parameters")
	}
	return Decrypt(private, ciphertext)
}
