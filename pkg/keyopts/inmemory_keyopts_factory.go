package keyopts

import (
	"github.com/mr-shifu/groupenc/pkg/common/keyopts"
	"github.com/pkg/errors"
)

const Backend = "memory"

var ErrUnsupportedBackend = errors.New("keyopts: unsupported backend")

type InMemoryKeyOptsFactory struct{}

var _ keyopts.KeyOptsFactory = InMemoryKeyOptsFactory{}

// NewKeyOpts accepts a nil configuration or the backend name "memory".
func (InMemoryKeyOptsFactory) NewKeyOpts(cfg interface{}) (keyopts.KeyOpts, error) {
	if backend, ok := cfg.(string); cfg != nil && (!ok || (backend != Backend && backend != "")) {
		return nil, errors.WithMessagef(ErrUnsupportedBackend, "%v", cfg)
	}
	return NewInMemoryKeyOpts(), nil
}
