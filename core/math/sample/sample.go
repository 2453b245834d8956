package sample

import (
	cryptorand "crypto/rand"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/groupenc/core/math/curve"
	"github.com/pkg/errors"
)

// maxIterations bounds rejection sampling of non-zero scalars. Hitting it with
// a working source is practically impossible.
const maxIterations = 255

var ErrMaxIterations = errors.New("sample: failed to generate a non-zero scalar after max iterations")

// Scalar returns a uniformly random scalar of group, reading
// group.SafeScalarBytes() from rand and reducing modulo the order.
// A nil rand uses crypto/rand.
func Scalar(rand io.Reader, group curve.Curve) (curve.Scalar, error) {
	if rand == nil {
		rand = cryptorand.Reader
	}

	buf := make([]byte, group.SafeScalarBytes())
	if _, err := io.ReadFull(rand, buf); err != nil {
		return nil, errors.WithMessage(err, "sample: failed to read randomness")
	}
	x := new(saferith.Nat).SetBytes(buf)
	return group.NewScalar().SetNat(x), nil
}

// ScalarUnit returns a uniformly random non-zero scalar.
func ScalarUnit(rand io.Reader, group curve.Curve) (curve.Scalar, error) {
	for i := 0; i < maxIterations; i++ {
		s, err := Scalar(rand, group)
		if err != nil {
			return nil, err
		}
		if !s.IsZero() {
			return s, nil
		}
	}
	return nil, ErrMaxIterations
}

// ScalarPointPair returns a non-zero scalar x and x⋅base.
// A nil base means the group's standard generator.
func ScalarPointPair(rand io.Reader, group curve.Curve, base curve.Point) (curve.Scalar, curve.Point, error) {
	x, err := ScalarUnit(rand, group)
	if err != nil {
		return nil, nil, err
	}
	if base == nil {
		return x, x.ActOnBase(), nil
	}
	return x, x.Act(base), nil
}

// Point returns a uniformly random element of the prime-order group.
func Point(rand io.Reader, group curve.Curve) (curve.Point, error) {
	s, err := Scalar(rand, group)
	if err != nil {
		return nil, err
	}
	return s.ActOnBase(), nil
}

// Points returns n independent uniformly random elements.
func Points(rand io.Reader, group curve.Curve, n int) ([]curve.Point, error) {
	out := make([]curve.Point, n)
	for i := range out {
		p, err := Point(rand, group)
		if err != nil {
			return nil, errors.WithMessagef(err, "sample: point %d", i)
		}
		out[i] = p
	}
	return out, nil
}
