package elgamal

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/mr-shifu/groupenc/core/hash"
	"github.com/mr-shifu/groupenc/core/math/curve"
	"github.com/mr-shifu/groupenc/core/math/sample"
	"github.com/pkg/errors"
)

const parametersDomain = "groupenc parameters"

// Parameters are the scheme-wide public parameters: a group and a generator G
// of it. All parties of a deployment must agree on one instance.
//
// Parameters are never modified after construction and are safe for
// concurrent use.
type Parameters struct {
	group     curve.Curve
	generator curve.Point
}

type rawParameters struct {
	Group     string
	Generator []byte
}

// Setup samples a random generator G = s⋅B for a non-zero scalar s.
func Setup(group curve.Curve, rand io.Reader) (*Parameters, error) {
	if group == nil {
		return nil, errors.WithMessage(ErrInvalidParameters, "nil group")
	}
	_, generator, err := sample.ScalarPointPair(rand, group, nil)
	if err != nil {
		return nil, randomnessFailure(err)
	}
	return &Parameters{group: group, generator: generator}, nil
}

// DeriveParameters derives G deterministically from a domain separator, so
// that every party using the same group and domain obtains the same
// parameters without exchanging them.
func DeriveParameters(group curve.Curve, domain string) *Parameters {
	h := hash.New()
	err := h.WriteAny(
		hash.BytesWithDomain{TheDomain: parametersDomain, Bytes: []byte(group.Name())},
		hash.BytesWithDomain{TheDomain: "domain separator", Bytes: []byte(domain)},
	)
	if err != nil {
		panic(fmt.Sprintf("elgamal: internal hash failure: %v", err))
	}
	s, err := sample.ScalarUnit(h.Digest(), group)
	if err != nil {
		panic(fmt.Sprintf("elgamal: internal hash failure: %v", err))
	}
	return &Parameters{group: group, generator: s.ActOnBase()}
}

// NewParameters wraps an agreed generator.
func NewParameters(generator curve.Point) (*Parameters, error) {
	if generator == nil || generator.IsIdentity() {
		return nil, errors.WithMessage(ErrInvalidParameters, "generator is the identity")
	}
	group := generator.Curve()
	return &Parameters{group: group, generator: group.NewPoint().Set(generator)}, nil
}

func (p *Parameters) Group() curve.Curve {
	return p.group
}

// Generator returns a copy of G.
func (p *Parameters) Generator() curve.Point {
	return p.group.NewPoint().Set(p.generator)
}

func (p *Parameters) Equal(other *Parameters) bool {
	if p == nil || other == nil {
		return p == other
	}
	return curve.SameCurve(p.group, other.group) && p.generator.Equal(other.generator)
}

func (p *Parameters) MarshalBinary() ([]byte, error) {
	generator, err := p.generator.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&rawParameters{
		Group:     p.group.Name(),
		Generator: generator,
	})
}

// UnmarshalBinary must only be called on a zero Parameters.
func (p *Parameters) UnmarshalBinary(data []byte) error {
	raw := &rawParameters{}
	if err := cbor.Unmarshal(data, raw); err != nil {
		return errors.Wrap(ErrInvalidParameters, err.Error())
	}
	group, err := curve.FromName(raw.Group)
	if err != nil {
		return errors.Wrap(ErrInvalidParameters, err.Error())
	}
	generator := group.NewPoint()
	if err := generator.UnmarshalBinary(raw.Generator); err != nil {
		return errors.Wrap(ErrInvalidParameters, err.Error())
	}
	if generator.IsIdentity() {
		return errors.WithMessage(ErrInvalidParameters, "generator is the identity")
	}
	p.group = group
	p.generator = generator
	return nil
}
