package elgamal

import (
	"context"
	"io"

	"github.com/mr-shifu/groupenc/core/elgamal"
	"github.com/mr-shifu/groupenc/core/math/curve"
	"github.com/mr-shifu/groupenc/pkg/common/keyopts"
)

type ElgamalKey interface {
	// Bytes returns the byte representation of the key.
	Bytes() ([]byte, error)

	// SKI returns the serialized key identifier.
	SKI() []byte

	// Private returns true if the key is private.
	Private() bool

	// PublicKey returns the corresponding public key part of Elgamal Key.
	PublicKey() ElgamalKey

	// PublicKeyRaw returns the underlying public key.
	PublicKeyRaw() *elgamal.PublicKey

	Parameters() *elgamal.Parameters

	// Encrypt returns the encryption of plaintext under the public key.
	Encrypt(plaintext []curve.Point, rand io.Reader) (*elgamal.Ciphertext, error)

	// Decrypt recovers the plaintext. It fails for public keys.
	Decrypt(ciphertext *elgamal.Ciphertext) ([]curve.Point, error)
}

type ElgamalKeyManager interface {
	// GenerateKey generates a new Elgamal key pair.
	GenerateKey(opts keyopts.Options) (ElgamalKey, error)

	// ImportKey imports a Elgamal key from its byte representation or a key value.
	ImportKey(raw interface{}, opts keyopts.Options) (ElgamalKey, error)

	// GetKey returns the Elgamal key named by opts.
	GetKey(opts keyopts.Options) (ElgamalKey, error)

	DeleteKey(opts keyopts.Options) error

	// Encrypt returns the encoded encryption of plaintext under the key named by opts.
	Encrypt(plaintext []curve.Point, opts keyopts.Options) ([]byte, error)

	// Decrypt decodes and decrypts ciphertext with the key named by opts.
	Decrypt(ciphertext []byte, opts keyopts.Options) ([]curve.Point, error)

	// EncryptBatch encrypts every plaintext concurrently under one key.
	EncryptBatch(ctx context.Context, plaintexts [][]curve.Point, opts keyopts.Options) ([][]byte, error)

	// DecryptBatch decrypts every ciphertext concurrently with one key.
	DecryptBatch(ctx context.Context, ciphertexts [][]byte, opts keyopts.Options) ([][]curve.Point, error)
}
