package elgamal

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/mr-shifu/groupenc/core/math/curve"
)

const (
	headerBytes   = 4
	minComponents = 2
)

// Ciphertext is the tuple (c₀, c₁, …, cₙ) for a plaintext of length n.
type Ciphertext struct {
	group curve.Curve
	// components[0] = r⋅G
	// components[i] = mᵢ + maskᵢ
	components []curve.Point
}

// NewCiphertext returns an empty ciphertext of group, ready for UnmarshalBinary.
func NewCiphertext(group curve.Curve) *Ciphertext {
	return &Ciphertext{group: group}
}

// CiphertextFromComponents builds a ciphertext from already decoded elements,
// c₀ first. The components are copied but not validated; Decrypt validates them.
func CiphertextFromComponents(group curve.Curve, components []curve.Point) *Ciphertext {
	c := &Ciphertext{group: group, components: make([]curve.Point, len(components))}
	for i, p := range components {
		if p != nil {
			c.components[i] = p.Curve().NewPoint().Set(p)
		}
	}
	return c
}

func (c *Ciphertext) Group() curve.Curve {
	return c.group
}

// Len returns n+1, the number of components.
func (c *Ciphertext) Len() int {
	return len(c.components)
}

// Components returns copies of c₀…cₙ.
func (c *Ciphertext) Components() []curve.Point {
	out := make([]curve.Point, len(c.components))
	for i, p := range c.components {
		if p != nil {
			out[i] = p.Curve().NewPoint().Set(p)
		}
	}
	return out
}

// Valid returns true if the ciphertext passes basic validation.
func (c *Ciphertext) Valid() bool {
	if c == nil || c.group == nil {
		return false
	}
	return c.validate(c.group) == nil
}

func (c *Ciphertext) validate(group curve.Curve) error {
	if c == nil {
		return malformed("nil ciphertext")
	}
	if len(c.components) < minComponents {
		return malformed("%d components, need at least %d", len(c.components), minComponents)
	}
	for i, p := range c.components {
		if p == nil {
			return malformed("component %d is nil", i)
		}
		if !curve.SameCurve(p.Curve(), group) {
			return malformed("component %d is not an element of %s", i, group.Name())
		}
	}
	if c.components[0].IsIdentity() {
		return malformed("commitment is the identity")
	}
	return nil
}

func (c *Ciphertext) Equal(other *Ciphertext) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.components) != len(other.components) {
		return false
	}
	for i := range c.components {
		if !c.components[i].Equal(other.components[i]) {
			return false
		}
	}
	return true
}

// MarshalBinary encodes the component count as a 4-byte big-endian integer,
// followed by the canonical encoding of every component.
func (c *Ciphertext) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes the output of MarshalBinary. On error the
// ciphertext is left unchanged.
func (c *Ciphertext) UnmarshalBinary(data []byte) error {
	if c.group == nil {
		return malformed("ciphertext group not set")
	}
	if len(data) < headerBytes {
		return malformed("short header")
	}
	count := binary.BigEndian.Uint32(data[:headerBytes])
	if count < minComponents {
		return malformed("%d components, need at least %d", count, minComponents)
	}
	body := data[headerBytes:]
	width := c.group.PointBytes()
	if uint64(len(body)) != uint64(count)*uint64(width) {
		return malformed("%d bytes for %d components of %d bytes", len(body), count, width)
	}

	components := make([]curve.Point, count)
	for i := range components {
		p := c.group.NewPoint()
		if err := p.UnmarshalBinary(body[i*width : (i+1)*width]); err != nil {
			return malformed("component %d: %v", i, err)
		}
		components[i] = p
	}
	c.components = components
	return nil
}

func (c *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	var (
		total int64
		n     int
	)

	var header [headerBytes]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(c.components)))
	n, err := w.Write(header[:])
	total += int64(n)
	if err != nil {
		return total, err
	}

	for i, p := range c.components {
		if p == nil {
			return total, malformed("component %d is nil", i)
		}
		buf, err := p.MarshalBinary()
		if err != nil {
			return total, err
		}
		n, err = w.Write(buf)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

func (Ciphertext) Domain() string {
	return "ElGamal Vector Ciphertext"
}
