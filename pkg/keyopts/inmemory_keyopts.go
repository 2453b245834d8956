package keyopts

import (
	"sync"

	"github.com/mr-shifu/groupenc/pkg/common/keyopts"
	"github.com/pkg/errors"
)

var (
	ErrInvalidParamsPartyID = errors.New("keyopts: invalid partyID")
	ErrInvalidParamsKeyID   = errors.New("keyopts: invalid keyID")
	ErrInvalidData          = errors.New("keyopts: invalid key data")
)

type Keys map[string]*keyopts.KeyData

type KeyOpts struct {
	lock sync.RWMutex

	// keys maps a key ID to the key metadata of every party.
	keys map[string]Keys
}

var _ keyopts.KeyOpts = (*KeyOpts)(nil)

func NewInMemoryKeyOpts() *KeyOpts {
	return &KeyOpts{
		keys: make(map[string]Keys),
	}
}

// Import links the SKI given as data (a string) to the key ID and party ID.
func (kr *KeyOpts) Import(data interface{}, opts keyopts.Options) error {
	kid, pid, err := keyAndPartyID(opts)
	if err != nil {
		return err
	}
	ski, ok := data.(string)
	if !ok || ski == "" {
		return ErrInvalidData
	}

	kr.lock.Lock()
	defer kr.lock.Unlock()

	if _, ok := kr.keys[kid]; !ok {
		kr.keys[kid] = make(Keys)
	}
	kr.keys[kid][pid] = &keyopts.KeyData{
		SKI:     ski,
		PartyID: pid,
	}

	return nil
}

func (kr *KeyOpts) Get(opts keyopts.Options) (*keyopts.KeyData, error) {
	kid, pid, err := keyAndPartyID(opts)
	if err != nil {
		return nil, err
	}

	kr.lock.RLock()
	defer kr.lock.RUnlock()

	k, ok := kr.keys[kid][pid]
	if !ok {
		return nil, errors.WithMessagef(keyopts.ErrKeyNotFound, "key %s of party %s", kid, pid)
	}
	kd := *k
	return &kd, nil
}

func (kr *KeyOpts) GetAll(opts keyopts.Options) (map[string]*keyopts.KeyData, error) {
	kid, err := keyID(opts)
	if err != nil {
		return nil, err
	}

	kr.lock.RLock()
	defer kr.lock.RUnlock()

	ks, ok := kr.keys[kid]
	if !ok {
		return nil, errors.WithMessagef(keyopts.ErrKeyNotFound, "key %s", kid)
	}

	result := make(map[string]*keyopts.KeyData, len(ks))
	for partyID, key := range ks {
		kd := *key
		result[partyID] = &kd
	}
	return result, nil
}

func (kr *KeyOpts) Delete(opts keyopts.Options) error {
	kid, pid, err := keyAndPartyID(opts)
	if err != nil {
		return err
	}

	kr.lock.Lock()
	defer kr.lock.Unlock()

	ks, ok := kr.keys[kid]
	if !ok {
		return errors.WithMessagef(keyopts.ErrKeyNotFound, "key %s", kid)
	}
	delete(ks, pid)
	if len(ks) == 0 {
		delete(kr.keys, kid)
	}

	return nil
}

func (kr *KeyOpts) DeleteAll(opts keyopts.Options) error {
	kid, err := keyID(opts)
	if err != nil {
		return err
	}

	kr.lock.Lock()
	defer kr.lock.Unlock()

	delete(kr.keys, kid)
	return nil
}

func keyID(opts keyopts.Options) (string, error) {
	if opts == nil {
		return "", ErrInvalidParamsKeyID
	}
	v, ok := opts.Get(keyopts.KeyID)
	if !ok {
		return "", ErrInvalidParamsKeyID
	}
	kid, ok := v.(string)
	if !ok || kid == "" {
		return "", ErrInvalidParamsKeyID
	}
	return kid, nil
}

func keyAndPartyID(opts keyopts.Options) (string, string, error) {
	kid, err := keyID(opts)
	if err != nil {
		return "", "", err
	}
	v, ok := opts.Get(keyopts.PartyID)
	if !ok {
		return "", "", ErrInvalidParamsPartyID
	}
	pid, ok := v.(string)
	if !ok {
		return "", "", ErrInvalidParamsPartyID
	}
	return kid, pid, nil
}
