package keyopts

import "errors"

var ErrKeyNotFound = errors.New("keyopts: key not found")

const (
	// KeyID is the option naming the logical key.
	KeyID = "id"
	// PartyID is the option naming the party holding the key.
	PartyID = "partyid"
)

type KeyData struct {
	PartyID string
	SKI     string
}

type Options interface {
	Set(kVs ...interface{}) (Options, error)
	Get(key string) (interface{}, bool)
}

// KeyOpts manages the metadata of keys referred to by a key ID and a party ID.
type KeyOpts interface {
	// Import links the SKI in data to the key ID and party ID in opts.
	Import(data interface{}, opts Options) error

	// Get returns the metadata of the key named by opts.
	Get(opts Options) (*KeyData, error)

	// GetAll returns the metadata of every party's key under the key ID in opts.
	GetAll(opts Options) (map[string]*KeyData, error)

	Delete(opts Options) error

	// DeleteAll removes the metadata of every party's key under the key ID in opts.
	DeleteAll(opts Options) error
}
