package elgamal

import (
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/mr-shifu/groupenc/core/elgamal"
	"github.com/mr-shifu/groupenc/core/math/curve"
	cs_elgamal "github.com/mr-shifu/groupenc/pkg/common/cryptosuite/elgamal"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// ElgamalKey is a stored ElGamal key. Public keys have a nil secret.
type ElgamalKey struct {
	secret *elgamal.PrivateKey
	public *elgamal.PublicKey
}

type rawElgamalKey struct {
	Params []byte
	Secret []byte `cbor:",omitempty"`
	Public []byte
}

func NewKey(sk *elgamal.PrivateKey) *ElgamalKey {
	return &ElgamalKey{secret: sk, public: sk.Public()}
}

func NewPublicKey(pk *elgamal.PublicKey) *ElgamalKey {
	return &ElgamalKey{public: pk}
}

func (key *ElgamalKey) Bytes() ([]byte, error) {
	raw := &rawElgamalKey{}

	params, err := key.public.Parameters().MarshalBinary()
	if err != nil {
		return nil, errors.WithMessage(err, "elgamal: failed to serialize parameters")
	}
	raw.Params = params

	pub, err := key.public.MarshalBinary()
	if err != nil {
		return nil, errors.WithMessage(err, "elgamal: failed to serialize public key")
	}
	raw.Public = pub

	if key.Private() {
		priv, err := key.secret.MarshalBinary()
		if err != nil {
			return nil, errors.WithMessage(err, "elgamal: failed to serialize private key")
		}
		raw.Secret = priv
	}
	return cbor.Marshal(raw)
}

// SKI returns the SHA3-256 hash of the parameters and the public key.
func (key *ElgamalKey) SKI() []byte {
	params, err := key.public.Parameters().MarshalBinary()
	if err != nil {
		return nil
	}
	pub, err := key.public.MarshalBinary()
	if err != nil {
		return nil
	}
	hash := sha3.New256()
	_, _ = hash.Write(params)
	_, _ = hash.Write(pub)
	return hash.Sum(nil)
}

func (key *ElgamalKey) Private() bool {
	return key.secret != nil
}

func (key *ElgamalKey) PublicKey() cs_elgamal.ElgamalKey {
	return NewPublicKey(key.public)
}

func (key *ElgamalKey) PublicKeyRaw() *elgamal.PublicKey {
	return key.public
}

func (key *ElgamalKey) Parameters() *elgamal.Parameters {
	return key.public.Parameters()
}

func (key *ElgamalKey) Encrypt(plaintext []curve.Point, rand io.Reader) (*elgamal.Ciphertext, error) {
	return elgamal.Encrypt(key.public, plaintext, rand)
}

func (key *ElgamalKey) Decrypt(ciphertext *elgamal.Ciphertext) ([]curve.Point, error) {
	if !key.Private() {
		return nil, ErrNoPrivateKey
	}
	return elgamal.Decrypt(key.secret, ciphertext)
}

func fromBytes(data []byte) (*ElgamalKey, error) {
	raw := &rawElgamalKey{}
	if err := cbor.Unmarshal(data, raw); err != nil {
		return nil, errors.Wrap(elgamal.ErrInvalidKey, err.Error())
	}

	params := &elgamal.Parameters{}
	if err := params.UnmarshalBinary(raw.Params); err != nil {
		return nil, err
	}

	public, err := elgamal.UnmarshalPublicKey(params, raw.Public)
	if err != nil {
		return nil, err
	}
	if len(raw.Secret) == 0 {
		return NewPublicKey(public), nil
	}

	secret, err := elgamal.UnmarshalPrivateKey(params, raw.Secret)
	if err != nil {
		return nil, err
	}
	if !secret.Public().Equal(public) {
		return nil, errors.WithMessage(elgamal.ErrInvalidKey, "public key does not match private key")
	}
	return NewKey(secret), nil
}
