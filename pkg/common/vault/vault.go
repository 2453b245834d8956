package vault

import "errors"

// ErrKeyNotFound is returned by every Vault implementation for an unknown key ID.
var ErrKeyNotFound = errors.New("vault: key not found")

// Vault holds secret key material indexed by key identifier (SKI).
// Implementations must be safe for concurrent use and must not retain
// caller-owned slices.
type Vault interface {
	Import(ski string, key []byte) error
	Get(ski string) ([]byte, error)
	Delete(ski string) error
}
