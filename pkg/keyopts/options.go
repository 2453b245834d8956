package keyopts

import (
	com_keyopts "github.com/mr-shifu/groupenc/pkg/common/keyopts"
	"github.com/pkg/errors"
)

var ErrInvalidOptions = errors.New("keyopts: invalid options")

// Options is a map of option name to value. Set mutates the map in place.
type Options map[string]interface{}

var _ com_keyopts.Options = Options{}

func NewOptions() Options {
	return make(Options)
}

// Set stores key/value pairs. Keys must be strings.
func (opts Options) Set(kVs ...interface{}) (com_keyopts.Options, error) {
	if len(kVs)%2 != 0 {
		return opts, errors.WithMessage(ErrInvalidOptions, "odd number of arguments")
	}

	for i := 0; i < len(kVs); i += 2 {
		key, ok := kVs[i].(string)
		if !ok {
			return opts, errors.WithMessagef(ErrInvalidOptions, "key %v is not a string", kVs[i])
		}
		opts[key] = kVs[i+1]
	}

	return opts, nil
}

func (opts Options) Get(key string) (interface{}, bool) {
	val, ok := opts[key]
	return val, ok
}
