package vault

import (
	"sync"

	"github.com/mr-shifu/groupenc/pkg/common/vault"
	"github.com/pkg/errors"
)

// InMemoryVault keeps key material in process memory. Stored slices are
// copies, so callers may reuse or zero their buffers.
type InMemoryVault struct {
	lock sync.RWMutex
	keys map[string][]byte
}

var _ vault.Vault = (*InMemoryVault)(nil)

func NewInMemoryVault() *InMemoryVault {
	return &InMemoryVault{
		keys: make(map[string][]byte),
	}
}

func (store *InMemoryVault) Import(ski string, key []byte) error {
	if ski == "" {
		return errors.New("vault: empty key identifier")
	}

	store.lock.Lock()
	defer store.lock.Unlock()

	store.keys[ski] = append([]byte(nil), key...)
	return nil
}

func (store *InMemoryVault) Get(ski string) ([]byte, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	key, ok := store.keys[ski]
	if !ok {
		return nil, errors.WithMessagef(vault.ErrKeyNotFound, "ski %s", ski)
	}
	return append([]byte(nil), key...), nil
}

// Delete zeroes and removes the key. Deleting an unknown key is not an error.
func (store *InMemoryVault) Delete(ski string) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	if key, ok := store.keys[ski]; ok {
		for i := range key {
			key[i] = 0
		}
		delete(store.keys, ski)
	}
	return nil
}

// Len returns the number of stored keys.
func (store *InMemoryVault) Len() int {
	store.lock.RLock()
	defer store.lock.RUnlock()

	return len(store.keys)
}
