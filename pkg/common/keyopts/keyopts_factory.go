package keyopts

// KeyOptsFactory creates KeyOpts instances from a backend configuration.
type KeyOptsFactory interface {
	NewKeyOpts(cfg interface{}) (KeyOpts, error)
}
