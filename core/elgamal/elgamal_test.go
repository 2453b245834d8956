package elgamal

import (
	"crypto/rand"
	"fmt"
	"io"
	"testing"

	"github.com/mr-shifu/groupenc/core/math/curve"
	"github.com/mr-shifu/groupenc/core/math/sample"
	"github.com/mr-shifu/groupenc/lib/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var groups = []curve.Curve{curve.Secp256k1{}, curve.Edwards25519{}}

func setupKeys(t *testing.T, group curve.Curve, rand io.Reader) (*Parameters, *PrivateKey, *PublicKey) {
	t.Helper()
	params, err := Setup(group, rand)
	require.NoError(t, err)
	sk, pk, err := KeyGen(params, rand)
	require.NoError(t, err)
	return params, sk, pk
}

func randomPlaintext(t *testing.T, group curve.Curve, n int, rand io.Reader) []curve.Point {
	t.Helper()
	message, err := sample.Points(rand, group, n)
	require.NoError(t, err)
	return message
}

func assertSamePoints(t *testing.T, expected, actual []curve.Point) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		want, err := expected[i].MarshalBinary()
		require.NoError(t, err)
		got, err := actual[i].MarshalBinary()
		require.NoError(t, err)
		assert.Equal(t, want, got, "element %d", i)
	}
}

func TestSimpleEncryption(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			rng := test.SeededReader(1231275789)

			_, sk, pk := setupKeys(t, group, rng)
			message := randomPlaintext(t, group, 32, rng)

			ciphertext, err := Encrypt(pk, message, rng)
			require.NoError(t, err)
			assert.Equal(t, 33, ciphertext.Len())

			decrypted, err := Decrypt(sk, ciphertext)
			require.NoError(t, err)
			assertSamePoints(t, message, decrypted)
		})
	}
}

func TestSimpleEncryption_Reproducible(t *testing.T) {
	run := func(group curve.Curve) []byte {
		rng := test.SeededReader(1231275789)
		_, _, pk := setupKeys(t, group, rng)
		message := randomPlaintext(t, group, 32, rng)
		ciphertext, err := Encrypt(pk, message, rng)
		require.NoError(t, err)
		data, err := ciphertext.MarshalBinary()
		require.NoError(t, err)
		return data
	}

	for _, group := range groups {
		assert.Equal(t, run(group), run(group))
	}
}

func TestRoundTrip(t *testing.T) {
	for _, group := range groups {
		for _, n := range []int{1, 2, 32, 100} {
			t.Run(fmt.Sprintf("%s/%d", group.Name(), n), func(t *testing.T) {
				_, sk, pk := setupKeys(t, group, rand.Reader)
				message := randomPlaintext(t, group, n, rand.Reader)

				ciphertext, err := Encrypt(pk, message, rand.Reader)
				require.NoError(t, err)
				assert.Equal(t, n+1, ciphertext.Len())
				assert.True(t, ciphertext.Valid())

				decrypted, err := Decrypt(sk, ciphertext)
				require.NoError(t, err)
				assertSamePoints(t, message, decrypted)

				data, err := ciphertext.MarshalBinary()
				require.NoError(t, err)
				decrypted, err = DecryptBytes(sk, data)
				require.NoError(t, err)
				assertSamePoints(t, message, decrypted)
			})
		}
	}
}

func TestRoundTrip_IdentityElements(t *testing.T) {
	for _, group := range groups {
		_, sk, pk := setupKeys(t, group, rand.Reader)
		message := []curve.Point{group.NewPoint(), group.NewBasePoint(), group.NewPoint()}

		ciphertext, err := Encrypt(pk, message, rand.Reader)
		require.NoError(t, err)
		decrypted, err := Decrypt(sk, ciphertext)
		require.NoError(t, err)
		assertSamePoints(t, message, decrypted)
	}
}

func TestEncrypt_Unlinkable(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			_, _, pk := setupKeys(t, group, rand.Reader)
			message := randomPlaintext(t, group, 8, rand.Reader)

			for trial := 0; trial < 20; trial++ {
				c1, err := Encrypt(pk, message, rand.Reader)
				require.NoError(t, err)
				c2, err := Encrypt(pk, message, rand.Reader)
				require.NoError(t, err)

				a, b := c1.Components(), c2.Components()
				require.Len(t, b, len(a))
				for i := range a {
					assert.False(t, a[i].Equal(b[i]), "trial %d: component %d repeated", trial, i)
				}
			}
		})
	}
}

func TestEncrypt_MasksDifferPerSlot(t *testing.T) {
	for _, group := range groups {
		_, _, pk := setupKeys(t, group, rand.Reader)
		same := sampleRepeated(t, group, 16)

		ciphertext, err := Encrypt(pk, same, rand.Reader)
		require.NoError(t, err)

		slots := ciphertext.Components()[1:]
		for i := range slots {
			for j := i + 1; j < len(slots); j++ {
				assert.False(t, slots[i].Equal(slots[j]), "slots %d and %d equal", i, j)
			}
		}
	}
}

func sampleRepeated(t *testing.T, group curve.Curve, n int) []curve.Point {
	p, err := sample.Point(rand.Reader, group)
	require.NoError(t, err)
	out := make([]curve.Point, n)
	for i := range out {
		out[i] = p
	}
	return out
}

func TestDecrypt_WrongKey(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			params, _, pk := setupKeys(t, group, rand.Reader)
			message := randomPlaintext(t, group, 4, rand.Reader)
			ciphertext, err := Encrypt(pk, message, rand.Reader)
			require.NoError(t, err)

			for trial := 0; trial < 10; trial++ {
				other, _, err := KeyGen(params, rand.Reader)
				require.NoError(t, err)

				decrypted, err := Decrypt(other, ciphertext)
				require.NoError(t, err)
				require.Len(t, decrypted, len(message))
				for i := range message {
					assert.False(t, message[i].Equal(decrypted[i]))
				}
			}
		})
	}
}

func TestDecrypt_Deterministic(t *testing.T) {
	for _, group := range groups {
		_, sk, pk := setupKeys(t, group, rand.Reader)
		message := randomPlaintext(t, group, 5, rand.Reader)
		ciphertext, err := Encrypt(pk, message, rand.Reader)
		require.NoError(t, err)

		first, err := Decrypt(sk, ciphertext)
		require.NoError(t, err)
		second, err := Decrypt(sk, ciphertext)
		require.NoError(t, err)
		assertSamePoints(t, first, second)
	}
}

func TestEncrypt_EmptyMessage(t *testing.T) {
	for _, group := range groups {
		_, _, pk := setupKeys(t, group, rand.Reader)
		rng := test.NewFailingReader(rand.Reader, 1<<20)

		ciphertext, err := Encrypt(pk, []curve.Point{}, rng)
		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Nil(t, ciphertext)

		_, err = Encrypt(pk, nil, rng)
		assert.ErrorIs(t, err, ErrEmptyMessage)

		assert.Zero(t, rng.BytesRead(), "no randomness may be consumed")
	}
}

func TestEncrypt_RandomnessFailure(t *testing.T) {
	for _, group := range groups {
		_, _, pk := setupKeys(t, group, rand.Reader)
		message := randomPlaintext(t, group, 3, rand.Reader)

		_, err := Encrypt(pk, message, test.NewFailingReader(rand.Reader, 0))
		assert.ErrorIs(t, err, ErrRandomnessFailure)
		assert.ErrorIs(t, err, test.ErrRandomnessExhausted)
	}
}

func TestEncrypt_RejectsForeignElements(t *testing.T) {
	_, _, pk := setupKeys(t, curve.Secp256k1{}, rand.Reader)

	_, err := Encrypt(pk, []curve.Point{curve.Edwards25519{}.NewBasePoint()}, rand.Reader)
	assert.ErrorIs(t, err, ErrInvalidPlaintext)

	_, err = Encrypt(pk, []curve.Point{curve.Secp256k1{}.NewBasePoint(), nil}, rand.Reader)
	assert.ErrorIs(t, err, ErrInvalidPlaintext)

	_, err = Encrypt(nil, []curve.Point{curve.Secp256k1{}.NewBasePoint()}, rand.Reader)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestDecrypt_RejectsMissingCommitment(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			_, sk, pk := setupKeys(t, group, rand.Reader)

			for _, n := range []int{1, 3} {
				message := randomPlaintext(t, group, n, rand.Reader)
				ciphertext, err := Encrypt(pk, message, rand.Reader)
				require.NoError(t, err)

				// wire form: c₀'s bytes removed
				data, err := ciphertext.MarshalBinary()
				require.NoError(t, err)
				width := group.PointBytes()
				stripped := append(append([]byte{}, data[:headerBytes]...), data[headerBytes+width:]...)
				_, err = DecryptBytes(sk, stripped)
				assert.ErrorIs(t, err, ErrMalformedCiphertext)

				// in-memory form
				if n == 1 {
					shortened := CiphertextFromComponents(group, ciphertext.Components()[1:])
					_, err = Decrypt(sk, shortened)
					assert.ErrorIs(t, err, ErrMalformedCiphertext)
				}
			}

			_, err := Decrypt(sk, CiphertextFromComponents(group, nil))
			assert.ErrorIs(t, err, ErrMalformedCiphertext)
			_, err = Decrypt(sk, nil)
			assert.ErrorIs(t, err, ErrMalformedCiphertext)
		})
	}
}

func corruptComponent(group curve.Curve, data []byte, index int) []byte {
	out := append([]byte{}, data...)
	width := group.PointBytes()
	element := out[headerBytes+index*width : headerBytes+(index+1)*width]
	switch group.(type) {
	case curve.Secp256k1:
		element[0] = 0x05
	case curve.Edwards25519:
		// (0, -1), a point of order 2
		element[0] = 0xec
		for i := 1; i < width-1; i++ {
			element[i] = 0xff
		}
		element[width-1] = 0x7f
	}
	return out
}

func TestDecrypt_RejectsCorruptedElement(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			_, sk, pk := setupKeys(t, group, rand.Reader)
			message := randomPlaintext(t, group, 4, rand.Reader)
			ciphertext, err := Encrypt(pk, message, rand.Reader)
			require.NoError(t, err)
			data, err := ciphertext.MarshalBinary()
			require.NoError(t, err)

			for i := 0; i < ciphertext.Len(); i++ {
				corrupted := corruptComponent(group, data, i)
				_, err := DecryptBytes(sk, corrupted)
				assert.ErrorIs(t, err, ErrMalformedCiphertext, "component %d", i)

				target := NewCiphertext(group)
				assert.ErrorIs(t, target.UnmarshalBinary(corrupted), ErrMalformedCiphertext)
				assert.Zero(t, target.Len())
			}
		})
	}
}

func TestDecrypt_RejectsIdentityCommitment(t *testing.T) {
	for _, group := range groups {
		_, sk, pk := setupKeys(t, group, rand.Reader)
		ciphertext, err := Encrypt(pk, randomPlaintext(t, group, 2, rand.Reader), rand.Reader)
		require.NoError(t, err)

		components := ciphertext.Components()
		components[0] = group.NewPoint()
		_, err = Decrypt(sk, CiphertextFromComponents(group, components))
		assert.ErrorIs(t, err, ErrMalformedCiphertext)
	}
}

func TestDecrypt_RejectsForeignComponents(t *testing.T) {
	_, sk, pk := setupKeys(t, curve.Secp256k1{}, rand.Reader)
	ciphertext, err := Encrypt(pk, randomPlaintext(t, curve.Secp256k1{}, 2, rand.Reader), rand.Reader)
	require.NoError(t, err)

	components := ciphertext.Components()
	components[2] = curve.Edwards25519{}.NewBasePoint()
	_, err = Decrypt(sk, CiphertextFromComponents(curve.Secp256k1{}, components))
	assert.ErrorIs(t, err, ErrMalformedCiphertext)

	components[2] = nil
	_, err = Decrypt(sk, CiphertextFromComponents(curve.Secp256k1{}, components))
	assert.ErrorIs(t, err, ErrMalformedCiphertext)

	_, err = Decrypt(nil, ciphertext)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestConcurrentUse(t *testing.T) {
	for _, group := range groups {
		_, sk, pk := setupKeys(t, group, rand.Reader)

		var errGroup errgroup.Group
		for i := 0; i < 16; i++ {
			n := i + 1
			errGroup.Go(func() error {
				message, err := sample.Points(rand.Reader, group, n)
				if err != nil {
					return err
				}
				ciphertext, err := Encrypt(pk, message, rand.Reader)
				if err != nil {
					return err
				}
				decrypted, err := Decrypt(sk, ciphertext)
				if err != nil {
					return err
				}
				for j := range message {
					if !message[j].Equal(decrypted[j]) {
						return fmt.Errorf("element %d of %d differs", j, n)
					}
				}
				return nil
			})
		}
		assert.NoError(t, errGroup.Wait())
	}
}

func TestScheme(t *testing.T) {
	group := curve.Edwards25519{}
	params, err := Setup(group, rand.Reader)
	require.NoError(t, err)
	scheme := NewScheme(params)
	assert.Same(t, params, scheme.Parameters())

	sk, pk, err := scheme.KeyGen(rand.Reader)
	require.NoError(t, err)
	message := randomPlaintext(t, group, 3, rand.Reader)

	ciphertext, err := scheme.Encrypt(pk, message, rand.Reader)
	require.NoError(t, err)
	decrypted, err := scheme.Decrypt(sk, ciphertext)
	require.NoError(t, err)
	assertSamePoints(t, message, decrypted)

	_, err = scheme.Encrypt(pk, nil, rand.Reader)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, otherSK, otherPK := setupKeys(t, group, rand.Reader)
	_, err = scheme.Encrypt(otherPK, message, rand.Reader)
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = scheme.Decrypt(otherSK, ciphertext)
	assert.ErrorIs(t, err, ErrInvalidKey)
}
