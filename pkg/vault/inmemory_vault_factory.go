package vault

import (
	"github.com/mr-shifu/groupenc/pkg/common/vault"
	"github.com/pkg/errors"
)

// Backend is the backend name served by InMemoryVaultFactory.
const Backend = "memory"

var ErrUnsupportedBackend = errors.New("vault: unsupported backend")

type InMemoryVaultFactory struct{}

var _ vault.VaultFactory = InMemoryVaultFactory{}

// NewVault accepts a nil configuration or the backend name "memory".
func (InMemoryVaultFactory) NewVault(cfg interface{}) (vault.Vault, error) {
	switch backend := cfg.(type) {
	case nil:
	case string:
		if backend != Backend && backend != "" {
			return nil, errors.WithMessagef(ErrUnsupportedBackend, "%q", backend)
		}
	default:
		return nil, errors.WithMessagef(ErrUnsupportedBackend, "configuration of type %T", cfg)
	}
	return NewInMemoryVault(), nil
}
