package elgamal

import (
	"encoding/binary"
	"fmt"

	"github.com/mr-shifu/groupenc/core/hash"
	"github.com/mr-shifu/groupenc/core/math/curve"
	"github.com/mr-shifu/groupenc/core/math/sample"
)

const (
	maskDomain      = "groupenc mask"
	maskIndexDomain = "mask index"
)

// deriveMasks returns maskᵢ = kᵢ⋅G for i = 1..n, where kᵢ is read from the
// BLAKE3 XOF of (group, shared, i) and reduced modulo the group order.
// Every index gets an independent scalar.
func deriveMasks(params *Parameters, shared curve.Point, n int) []curve.Point {
	transcript := hash.New()
	err := transcript.WriteAny(
		hash.BytesWithDomain{TheDomain: maskDomain, Bytes: []byte(params.group.Name())},
		shared,
	)
	if err != nil {
		panic(fmt.Sprintf("elgamal: internal hash failure: %v", err))
	}

	masks := make([]curve.Point, n)
	for i := range masks {
		var index [8]byte
		binary.BigEndian.PutUint64(index[:], uint64(i+1))
		h := transcript.Fork(hash.BytesWithDomain{TheDomain: maskIndexDomain, Bytes: index[:]})

		k, err := sample.Scalar(h.Digest(), params.group)
		if err != nil {
			panic(fmt.Sprintf("elgamal: internal hash failure: %v", err))
		}
		masks[i] = k.Act(params.generator)
	}
	return masks
}
