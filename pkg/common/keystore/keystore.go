package keystore

import (
	"errors"

	"github.com/mr-shifu/groupenc/pkg/common/keyopts"
)

var ErrKeyNotFound = errors.New("keystore: key not found")

// Keystore stores serialized keys in a vault and their metadata in a KeyOpts.
type Keystore interface {
	Import(ski string, key []byte, opts keyopts.Options) error
	Get(opts keyopts.Options) ([]byte, error)
	Delete(opts keyopts.Options) error
	DeleteAll(opts keyopts.Options) error
	KeyAccessor(ski string, opts keyopts.Options) KeyAccessor
}

// KeyAccessor is a Keystore bound to one key.
type KeyAccessor interface {
	Import(key []byte) error
	Get() ([]byte, error)
	Delete() error
}
