package test

import (
	"encoding/binary"
	"errors"
	"io"
	"sync/atomic"

	"github.com/zeebo/blake3"
)

var ErrRandomnessExhausted = errors.New("test: randomness source failed")

// SeededReader returns a deterministic stream of bytes derived from seed.
//
// The stream is the BLAKE3 XOF of the seed, so it is reproducible across runs
// while still being indistinguishable from random to the code under test.
// It must not be used outside of tests.
func SeededReader(seed uint64) io.Reader {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seed)
	h := blake3.New()
	_, _ = h.WriteString("groupenc test seed")
	_, _ = h.Write(buf[:])
	return h.Digest()
}

// FailingReader serves limit bytes from src and then fails every read.
type FailingReader struct {
	src   io.Reader
	limit int64
	reads atomic.Int64
}

// NewFailingReader returns a reader that fails after limit bytes. A nil src
// yields zero bytes.
func NewFailingReader(src io.Reader, limit int64) *FailingReader {
	return &FailingReader{src: src, limit: limit}
}

func (r *FailingReader) Read(p []byte) (int, error) {
	served := r.reads.Load()
	if served >= r.limit {
		return 0, ErrRandomnessExhausted
	}
	if remaining := r.limit - served; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	var n int
	if r.src == nil {
		for i := range p {
			p[i] = 0
		}
		n = len(p)
	} else {
		var err error
		n, err = r.src.Read(p)
		if err != nil {
			return n, err
		}
	}
	r.reads.Add(int64(n))
	return n, nil
}

// BytesRead reports how many bytes were served.
func (r *FailingReader) BytesRead() int64 {
	return r.reads.Load()
}
