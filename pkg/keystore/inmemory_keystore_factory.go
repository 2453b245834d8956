package keystore

import (
	"github.com/mr-shifu/groupenc/pkg/common/keyopts"
	"github.com/mr-shifu/groupenc/pkg/common/keystore"
	"github.com/mr-shifu/groupenc/pkg/common/vault"
	"github.com/pkg/errors"
)

// InMemoryKeystoreFactory builds keystores from a vault and a KeyOpts created
// by the given factories with the same configuration.
type InMemoryKeystoreFactory struct {
	Vaults  vault.VaultFactory
	KeyOpts  keyopts.KeyOptsFactory
}

var _ keystore.KeystoreFactory = InMemoryKeystoreFactory{}

func (f InMemoryKeystoreFactory) NewKeystore(cfg interface{}) (keystore.Keystore, error) {
	if f.Vaults == nil || f.KeyOpts == nil {
		return nil, errors.New("keystore: factory is missing a vault or keyopts factory")
	}
	v, err := f.Vaults.NewVault(cfg)
	if err != nil {
		return nil, err
	}
	kr, err := f.KeyOpts.NewKeyOpts(cfg)
	if err != nil {
		return nil, err
	}
	return NewInMemoryKeystore(v, kr), nil
}
