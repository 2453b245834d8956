package vault

// VaultFactory creates Vault instances from a backend configuration.
type VaultFactory interface {
	NewVault(cfg interface{}) (Vault, error)
}
