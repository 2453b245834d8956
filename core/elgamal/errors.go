package elgamal

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyMessage is returned by Encrypt for a plaintext of length zero.
	ErrEmptyMessage = errors.New("elgamal: empty message")
	// ErrRandomnessFailure wraps a failure of the randomness source. It is
	// never retried internally.
	ErrRandomnessFailure = errors.New("elgamal: randomness failure")
	// ErrMalformedCiphertext is returned for ciphertexts with a wrong length
	// or a component that is not a valid group element.
	ErrMalformedCiphertext = errors.New("elgamal: malformed ciphertext")

	ErrInvalidKey        = errors.New("elgamal: invalid key")
	ErrInvalidPlaintext  = errors.New("elgamal: invalid plaintext element")
	ErrInvalidParameters = errors.New("elgamal: invalid parameters")
)

func randomnessFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrRandomnessFailure, err)
}

func malformed(format string, args ...interface{}) error {
	return errors.WithMessagef(ErrMalformedCiphertext, format, args...)
}
