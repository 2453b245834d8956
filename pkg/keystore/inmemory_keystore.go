package keystore

import (
	"github.com/mr-shifu/groupenc/pkg/common/keyopts"
	"github.com/mr-shifu/groupenc/pkg/common/keystore"
	"github.com/mr-shifu/groupenc/pkg/common/vault"
	"github.com/pkg/errors"
)

// InMemoryKeystore stores serialized keys in a vault under their SKI and
// links the SKI to a key ID and party ID in a KeyOpts.
type InMemoryKeystore struct {
	v  vault.Vault
	kr keyopts.KeyOpts
}

var _ keystore.Keystore = (*InMemoryKeystore)(nil)

func NewInMemoryKeystore(v vault.Vault, kr keyopts.KeyOpts) *InMemoryKeystore {
	return &InMemoryKeystore{
		v:  v,
		kr: kr,
	}
}

// Import stores key in the vault under ski and links ski to opts. Every link
// must use its own vault entry: Delete and DeleteAll remove the entry of the
// deleted link.
//
// Importing under options that are already linked replaces the link and
// deletes the vault entry it pointed to. If linking fails, the vault entry
// under ski is restored to its previous state.
func (ks *InMemoryKeystore) Import(ski string, key []byte, opts keyopts.Options) error {
	var replaced string
	if kd, err := ks.kr.Get(opts); err == nil && kd.SKI != ski {
		replaced = kd.SKI
	}
	previous, prevErr := ks.v.Get(ski)

	// store key to vault
	if err := ks.v.Import(ski, key); err != nil {
		return errors.WithMessage(err, "keystore: failed to import key to vault")
	}

	// import key metadata to key repository
	if err := ks.kr.Import(ski, opts); err != nil {
		if prevErr == nil {
			_ = ks.v.Import(ski, previous)
		} else {
			_ = ks.v.Delete(ski)
		}
		return errors.WithMessage(err, "keystore: failed to import key metadata")
	}

	if replaced != "" {
		if err := ks.v.Delete(replaced); err != nil {
			return errors.WithMessage(err, "keystore: failed to delete replaced key")
		}
	}

	return nil
}

func (ks *InMemoryKeystore) Get(opts keyopts.Options) ([]byte, error) {
	kd, err := ks.kr.Get(opts)
	if err != nil {
		return nil, notFound(err)
	}

	key, err := ks.v.Get(kd.SKI)
	if err != nil {
		return nil, notFound(err)
	}
	return key, nil
}

func (ks *InMemoryKeystore) Delete(opts keyopts.Options) error {
	kd, err := ks.kr.Get(opts)
	if err != nil {
		return notFound(err)
	}

	if err := ks.v.Delete(kd.SKI); err != nil {
		return err
	}

	if err := ks.kr.Delete(opts); err != nil {
		return notFound(err)
	}

	return nil
}

func (ks *InMemoryKeystore) DeleteAll(opts keyopts.Options) error {
	keys, err := ks.kr.GetAll(opts)
	if err != nil {
		return notFound(err)
	}
	for _, key := range keys {
		if err := ks.v.Delete(key.SKI); err != nil {
			return err
		}
	}

	return ks.kr.DeleteAll(opts)
}

func (ks *InMemoryKeystore) KeyAccessor(ski string, opts keyopts.Options) keystore.KeyAccessor {
	return NewInMemoryKeyAccessor(ski, opts, ks)
}

// notFound maps the lookup failures of the backends to keystore.ErrKeyNotFound.
func notFound(err error) error {
	if errors.Is(err, keyopts.ErrKeyNotFound) || errors.Is(err, vault.ErrKeyNotFound) {
		return errors.WithMessage(keystore.ErrKeyNotFound, err.Error())
	}
	return err
}
