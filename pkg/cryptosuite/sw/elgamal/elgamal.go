package elgamal

import (
	"io"

	"github.com/mr-shifu/groupenc/core/elgamal"
	cs_elgamal "github.com/mr-shifu/groupenc/pkg/common/cryptosuite/elgamal"
	"github.com/mr-shifu/groupenc/pkg/common/keystore"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrKeyNotFound is returned when no key is stored under the given options.
	ErrKeyNotFound = keystore.ErrKeyNotFound
	// ErrMessageTooLarge is returned when a plaintext or ciphertext exceeds
	// Config.MaxMessageSize elements.
	ErrMessageTooLarge = errors.New("elgamal: message too large")
	ErrNoPrivateKey    = errors.New("elgamal: key has no private part")
	ErrInvalidKeyType  = errors.New("elgamal: invalid key type")
)

var (
	_ cs_elgamal.ElgamalKey        = (*ElgamalKey)(nil)
	_ cs_elgamal.ElgamalKeyManager = (*ElgamalKeyManager)(nil)
)

type Config struct {
	// Params are the scheme parameters shared by every managed key.
	Params *elgamal.Parameters

	// MaxMessageSize bounds the number of plaintext elements per message.
	// Zero means unbounded.
	MaxMessageSize int

	// Concurrency bounds the goroutines of batch operations. Zero means
	// GOMAXPROCS.
	Concurrency int

	// Rand is the randomness source. It must be safe for concurrent use; nil
	// means crypto/rand.
	Rand io.Reader

	Logger *zap.Logger
}
