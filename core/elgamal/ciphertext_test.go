package elgamal

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/mr-shifu/groupenc/core/math/curve"
	"github.com/mr-shifu/groupenc/core/math/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encryptSample(t *testing.T, group curve.Curve, n int) (*PrivateKey, *Ciphertext) {
	t.Helper()
	_, sk, pk := setupKeys(t, group, rand.Reader)
	ciphertext, err := Encrypt(pk, randomPlaintext(t, group, n, rand.Reader), rand.Reader)
	require.NoError(t, err)
	return sk, ciphertext
}

func TestCiphertext_Encoding(t *testing.T) {
	for _, group := range groups {
		_, ciphertext := encryptSample(t, group, 3)

		data, err := ciphertext.MarshalBinary()
		require.NoError(t, err)
		assert.Len(t, data, headerBytes+4*group.PointBytes())
		assert.Equal(t, uint32(4), binary.BigEndian.Uint32(data[:headerBytes]))

		var buf bytes.Buffer
		n, err := ciphertext.WriteTo(&buf)
		require.NoError(t, err)
		assert.EqualValues(t, len(data), n)
		assert.Equal(t, data, buf.Bytes())

		decoded := NewCiphertext(group)
		require.NoError(t, decoded.UnmarshalBinary(data))
		assert.True(t, ciphertext.Equal(decoded))
		assert.Equal(t, group, decoded.Group())
	}
}

func TestCiphertext_UnmarshalRejectsBadLengths(t *testing.T) {
	group := curve.Secp256k1{}
	_, ciphertext := encryptSample(t, group, 2)
	data, err := ciphertext.MarshalBinary()
	require.NoError(t, err)

	withCount := func(count uint32) []byte {
		out := append([]byte{}, data...)
		binary.BigEndian.PutUint32(out[:headerBytes], count)
		return out
	}

	cases := map[string][]byte{
		"empty":            nil,
		"short header":     data[:2],
		"header only":      data[:headerBytes],
		"trailing byte":    append(append([]byte{}, data...), 0),
		"truncated":        data[:len(data)-1],
		"count too large":  withCount(4),
		"count too small":  withCount(2),
		"single component": withCount(1)[:headerBytes+group.PointBytes()],
		"zero components":  withCount(0)[:headerBytes],
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			decoded := NewCiphertext(group)
			assert.ErrorIs(t, decoded.UnmarshalBinary(input), ErrMalformedCiphertext)
			assert.Zero(t, decoded.Len())
		})
	}
}

func TestCiphertext_UnmarshalKeepsReceiverOnError(t *testing.T) {
	group := curve.Edwards25519{}
	_, ciphertext := encryptSample(t, group, 2)
	data, err := ciphertext.MarshalBinary()
	require.NoError(t, err)

	decoded := NewCiphertext(group)
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.ErrorIs(t, decoded.UnmarshalBinary(data[:len(data)-3]), ErrMalformedCiphertext)
	assert.True(t, ciphertext.Equal(decoded))
}

func TestCiphertext_Valid(t *testing.T) {
	for _, group := range groups {
		_, ciphertext := encryptSample(t, group, 1)
		assert.True(t, ciphertext.Valid())

		var nilCiphertext *Ciphertext
		assert.False(t, nilCiphertext.Valid())
		assert.False(t, NewCiphertext(group).Valid())
		assert.False(t, CiphertextFromComponents(nil, ciphertext.Components()).Valid())

		components := ciphertext.Components()
		components[1] = nil
		assert.False(t, CiphertextFromComponents(group, components).Valid())
	}
}

func TestCiphertext_ComponentsAreCopies(t *testing.T) {
	group := curve.Secp256k1{}
	_, ciphertext := encryptSample(t, group, 2)

	components := ciphertext.Components()
	components[1] = group.NewPoint()
	assert.False(t, ciphertext.Components()[1].IsIdentity())

	original := ciphertext.Components()
	copied := CiphertextFromComponents(group, original)
	original[0] = group.NewBasePoint()
	assert.True(t, copied.Equal(ciphertext))
}

func TestParameters(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			params, err := Setup(group, rand.Reader)
			require.NoError(t, err)
			assert.False(t, params.Generator().IsIdentity())
			assert.Equal(t, group, params.Group())

			other, err := Setup(group, rand.Reader)
			require.NoError(t, err)
			assert.False(t, params.Equal(other))

			data, err := params.MarshalBinary()
			require.NoError(t, err)
			decoded := &Parameters{}
			require.NoError(t, decoded.UnmarshalBinary(data))
			assert.True(t, params.Equal(decoded))

			wrapped, err := NewParameters(params.Generator())
			require.NoError(t, err)
			assert.True(t, params.Equal(wrapped))

			_, err = NewParameters(group.NewPoint())
			assert.ErrorIs(t, err, ErrInvalidParameters)
		})
	}

	_, err := Setup(nil, rand.Reader)
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestDeriveParameters(t *testing.T) {
	for _, group := range groups {
		a := DeriveParameters(group, "test domain")
		b := DeriveParameters(group, "test domain")
		c := DeriveParameters(group, "other domain")

		assert.True(t, a.Equal(b))
		assert.False(t, a.Equal(c))
		assert.False(t, a.Generator().IsIdentity())
	}
	assert.False(t, DeriveParameters(curve.Secp256k1{}, "d").Equal(DeriveParameters(curve.Edwards25519{}, "d")))
}

func TestParameters_UnmarshalRejects(t *testing.T) {
	params := DeriveParameters(curve.Secp256k1{}, "test")
	generator, err := params.generator.MarshalBinary()
	require.NoError(t, err)

	for name, raw := range map[string]*rawParameters{
		"unknown group": {Group: "p256", Generator: generator},
		"identity":      {Group: "secp256k1", Generator: make([]byte, 33)},
		"bad point":     {Group: "secp256k1", Generator: generator[1:]},
	} {
		t.Run(name, func(t *testing.T) {
			data, err := cbor.Marshal(raw)
			require.NoError(t, err)

			decoded := &Parameters{}
			assert.ErrorIs(t, decoded.UnmarshalBinary(data), ErrInvalidParameters)
		})
	}

	decoded := &Parameters{}
	assert.ErrorIs(t, decoded.UnmarshalBinary([]byte{0xff}), ErrInvalidParameters)
}

func TestKeys(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			params, sk, pk := setupKeys(t, group, rand.Reader)
			assert.Same(t, pk, sk.Public())
			assert.Same(t, params, pk.Parameters())
			assert.Same(t, params, sk.Parameters())

			skData, err := sk.MarshalBinary()
			require.NoError(t, err)
			assert.Len(t, skData, group.ScalarBytes())
			decodedSK, err := UnmarshalPrivateKey(params, skData)
			require.NoError(t, err)
			assert.True(t, sk.Equal(decodedSK))
			assert.True(t, pk.Equal(decodedSK.Public()))

			pkData, err := pk.MarshalBinary()
			require.NoError(t, err)
			assert.Len(t, pkData, group.PointBytes())
			decodedPK, err := UnmarshalPublicKey(params, pkData)
			require.NoError(t, err)
			assert.True(t, pk.Equal(decodedPK))

			_, err = NewPrivateKey(params, group.NewScalar())
			assert.ErrorIs(t, err, ErrInvalidKey)
			_, err = NewPublicKey(params, group.NewPoint())
			assert.ErrorIs(t, err, ErrInvalidKey)
			_, err = UnmarshalPrivateKey(params, make([]byte, group.ScalarBytes()))
			assert.ErrorIs(t, err, ErrInvalidKey)
			_, err = UnmarshalPublicKey(params, pkData[1:])
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestKeys_RejectForeignGroup(t *testing.T) {
	params := DeriveParameters(curve.Secp256k1{}, "test")
	foreign := curve.Edwards25519{}

	_, err := NewPrivateKey(params, foreign.NewScalar())
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = NewPublicKey(params, foreign.NewBasePoint())
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, _, err = KeyGen(nil, rand.Reader)
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestKeyGen_RandomnessFailure(t *testing.T) {
	params := DeriveParameters(curve.Edwards25519{}, "test")
	_, _, err := KeyGen(params, failingReader{})
	assert.ErrorIs(t, err, ErrRandomnessFailure)
}

func TestPrivateKey_Redacted(t *testing.T) {
	group := curve.Secp256k1{}
	params := DeriveParameters(group, "test")
	x, err := sample.ScalarUnit(rand.Reader, group)
	require.NoError(t, err)
	sk, err := NewPrivateKey(params, x)
	require.NoError(t, err)

	secret, err := x.MarshalBinary()
	require.NoError(t, err)
	hexSecret := fmt.Sprintf("%x", secret)

	for _, verb := range []string{"%v", "%+v", "%#v", "%s", "%x"} {
		out := fmt.Sprintf(verb, sk)
		assert.NotContains(t, out, hexSecret, verb)
		assert.Contains(t, out, "redacted", verb)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, fmt.Errorf("no entropy")
}
