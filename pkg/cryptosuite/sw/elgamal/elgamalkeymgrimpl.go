package elgamal

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"runtime"

	"github.com/google/uuid"
	"github.com/mr-shifu/groupenc/core/elgamal"
	"github.com/mr-shifu/groupenc/core/math/curve"
	cs_elgamal "github.com/mr-shifu/groupenc/pkg/common/cryptosuite/elgamal"
	"github.com/mr-shifu/groupenc/pkg/common/keyopts"
	"github.com/mr-shifu/groupenc/pkg/common/keystore"
	"github.com/mr-shifu/groupenc/pkg/config"
	"github.com/mr-shifu/groupenc/pkg/logging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ElgamalKeyManager struct {
	keystore keystore.Keystore
	cfg      *Config
	logger   *zap.Logger
}

func NewElgamalKeyManager(store keystore.Keystore, cfg *Config) *ElgamalKeyManager {
	return &ElgamalKeyManager{
		keystore: store,
		cfg:      cfg,
		logger:   logging.OrNop(cfg.Logger).Named("elgamal"),
	}
}

// NewElgamalKeyManagerFromConfig builds the parameters from c and a keystore
// for c.Keystore from factory. A nil logger is built at c.LogLevel.
func NewElgamalKeyManagerFromConfig(c *config.Config, factory keystore.KeystoreFactory, logger *zap.Logger, rand io.Reader) (*ElgamalKeyManager, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		l, err := logging.New(c.LogLevel)
		if err != nil {
			return nil, errors.WithMessage(err, "elgamal: failed to create logger")
		}
		logger = l
	}
	params, err := c.Parameters(rand)
	if err != nil {
		return nil, errors.WithMessage(err, "elgamal: failed to set up parameters")
	}
	store, err := factory.NewKeystore(c.Keystore)
	if err != nil {
		return nil, errors.WithMessage(err, "elgamal: failed to create keystore")
	}
	return NewElgamalKeyManager(store, &Config{
		Params:         params,
		MaxMessageSize: c.MaxMessageSize,
		Rand:           rand,
		Logger:         logger,
	}), nil
}

// GenerateKey generates a new key pair and stores it under opts. If opts
// carry no key ID, a random UUID is assigned to opts.
func (mgr *ElgamalKeyManager) GenerateKey(opts keyopts.Options) (cs_elgamal.ElgamalKey, error) {
	if err := assignKeyID(opts); err != nil {
		return nil, err
	}

	sk, _, err := elgamal.KeyGen(mgr.cfg.Params, mgr.cfg.Rand)
	if err != nil {
		return nil, errors.WithMessage(err, "elgamal: failed to generate key")
	}

	key := NewKey(sk)
	if err := mgr.store(key, opts); err != nil {
		return nil, err
	}

	mgr.logger.Info("generated key", logging.SKI(key.SKI()), keyIDField(opts), logging.Redacted("secret"))
	return key, nil
}

// ImportKey stores a key given as its byte representation, an
// *elgamal.PrivateKey, an *elgamal.PublicKey or a cs_elgamal.ElgamalKey.
// The key must belong to the manager's parameters.
func (mgr *ElgamalKeyManager) ImportKey(raw interface{}, opts keyopts.Options) (cs_elgamal.ElgamalKey, error) {
	var key *ElgamalKey
	switch tt := raw.(type) {
	case []byte:
		k, err := fromBytes(tt)
		if err != nil {
			return nil, errors.WithMessage(err, "elgamal: failed to import key")
		}
		key = k
	case *elgamal.PrivateKey:
		if tt == nil {
			return nil, ErrInvalidKeyType
		}
		key = NewKey(tt)
	case *elgamal.PublicKey:
		if tt == nil {
			return nil, ErrInvalidKeyType
		}
		key = NewPublicKey(tt)
	case *ElgamalKey:
		if tt == nil {
			return nil, ErrInvalidKeyType
		}
		key = tt
	default:
		return nil, errors.WithMessagef(ErrInvalidKeyType, "%T", raw)
	}

	if !mgr.cfg.Params.Equal(key.Parameters()) {
		return nil, errors.WithMessage(elgamal.ErrInvalidKey, "key was generated for different parameters")
	}

	if err := mgr.store(key, opts); err != nil {
		return nil, err
	}

	mgr.logger.Info("imported key", logging.SKI(key.SKI()), keyIDField(opts), secretField(key))
	return key, nil
}

// GetKey returns the key stored under opts.
func (mgr *ElgamalKeyManager) GetKey(opts keyopts.Options) (cs_elgamal.ElgamalKey, error) {
	return mgr.getKey(opts)
}

func (mgr *ElgamalKeyManager) DeleteKey(opts keyopts.Options) error {
	if err := mgr.keystore.Delete(opts); err != nil {
		return errors.WithMessage(err, "elgamal: failed to delete key")
	}
	mgr.logger.Info("deleted key", keyIDField(opts))
	return nil
}

// Encrypt encrypts plaintext under the key stored under opts and returns the
// encoded ciphertext.
func (mgr *ElgamalKeyManager) Encrypt(plaintext []curve.Point, opts keyopts.Options) ([]byte, error) {
	key, err := mgr.getKey(opts)
	if err != nil {
		return nil, err
	}
	return mgr.encrypt(key, plaintext)
}

// Decrypt decodes ciphertext and decrypts it with the key stored under opts.
func (mgr *ElgamalKeyManager) Decrypt(ciphertext []byte, opts keyopts.Options) ([]curve.Point, error) {
	key, err := mgr.getKey(opts)
	if err != nil {
		return nil, err
	}
	if !key.Private() {
		return nil, ErrNoPrivateKey
	}
	return mgr.decrypt(key, ciphertext)
}

// EncryptBatch encrypts each plaintext under the key stored under opts.
// Results are in input order; the first failure cancels the batch.
func (mgr *ElgamalKeyManager) EncryptBatch(ctx context.Context, plaintexts [][]curve.Point, opts keyopts.Options) ([][]byte, error) {
	key, err := mgr.getKey(opts)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, len(plaintexts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(mgr.concurrency())
	for i := range plaintexts {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ct, err := mgr.encrypt(key, plaintexts[i])
			if err != nil {
				return errors.WithMessagef(err, "message %d", i)
			}
			out[i] = ct
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mgr.logger.Debug("encrypted batch", logging.SKI(key.SKI()), zap.Int("messages", len(plaintexts)))
	return out, nil
}

// DecryptBatch decrypts each ciphertext with the key stored under opts.
// Results are in input order; the first failure cancels the batch.
func (mgr *ElgamalKeyManager) DecryptBatch(ctx context.Context, ciphertexts [][]byte, opts keyopts.Options) ([][]curve.Point, error) {
	key, err := mgr.getKey(opts)
	if err != nil {
		return nil, err
	}
	if !key.Private() {
		return nil, ErrNoPrivateKey
	}

	out := make([][]curve.Point, len(ciphertexts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(mgr.concurrency())
	for i := range ciphertexts {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := mgr.decrypt(key, ciphertexts[i])
			if err != nil {
				return errors.WithMessagef(err, "ciphertext %d", i)
			}
			out[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mgr.logger.Debug("decrypted batch", logging.SKI(key.SKI()), zap.Int("messages", len(ciphertexts)))
	return out, nil
}

func (mgr *ElgamalKeyManager) encrypt(key *ElgamalKey, plaintext []curve.Point) ([]byte, error) {
	if err := mgr.checkSize(len(plaintext)); err != nil {
		return nil, err
	}
	ct, err := key.Encrypt(plaintext, mgr.cfg.Rand)
	if err != nil {
		return nil, err
	}
	return ct.MarshalBinary()
}

func (mgr *ElgamalKeyManager) decrypt(key *ElgamalKey, data []byte) ([]curve.Point, error) {
	ct := elgamal.NewCiphertext(key.Parameters().Group())
	if err := ct.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	if err := mgr.checkSize(ct.Len() - 1); err != nil {
		return nil, err
	}
	return key.Decrypt(ct)
}

func (mgr *ElgamalKeyManager) getKey(opts keyopts.Options) (*ElgamalKey, error) {
	kb, err := mgr.keystore.Get(opts)
	if err != nil {
		return nil, errors.WithMessage(err, "elgamal: failed to get key from keystore")
	}
	key, err := fromBytes(kb)
	if err != nil {
		return nil, errors.WithMessage(err, "elgamal: failed to decode stored key")
	}
	return key, nil
}

func (mgr *ElgamalKeyManager) store(key *ElgamalKey, opts keyopts.Options) error {
	kb, err := key.Bytes()
	if err != nil {
		return err
	}
	if err := mgr.keystore.Import(vaultName(key, opts), kb, opts); err != nil {
		return errors.WithMessage(err, "elgamal: failed to import key to keystore")
	}
	return nil
}

// vaultName names the vault entry of key under opts. The key ID and party ID
// make the entry private to one link, and the suffix keeps the public and
// private forms of one key apart.
func vaultName(key *ElgamalKey, opts keyopts.Options) string {
	var kid, pid interface{}
	if opts != nil {
		kid, _ = opts.Get(keyopts.KeyID)
		pid, _ = opts.Get(keyopts.PartyID)
	}
	name := fmt.Sprintf("%s/%v/%v", hex.EncodeToString(key.SKI()), kid, pid)
	if key.Private() {
		return name + ".priv"
	}
	return name + ".pub"
}

func (mgr *ElgamalKeyManager) checkSize(n int) error {
	if limit := mgr.cfg.MaxMessageSize; limit > 0 && n > limit {
		return errors.WithMessagef(ErrMessageTooLarge, "%d elements, limit %d", n, limit)
	}
	return nil
}

func (mgr *ElgamalKeyManager) concurrency() int {
	if mgr.cfg.Concurrency > 0 {
		return mgr.cfg.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

func assignKeyID(opts keyopts.Options) error {
	if opts == nil {
		return errors.New("elgamal: nil key options")
	}
	if _, ok := opts.Get(keyopts.KeyID); ok {
		return nil
	}
	_, err := opts.Set(keyopts.KeyID, uuid.New().String())
	return err
}

func secretField(key *ElgamalKey) zap.Field {
	if key.Private() {
		return logging.Redacted("secret")
	}
	return zap.Skip()
}

func keyIDField(opts keyopts.Options) zap.Field {
	if opts == nil {
		return zap.Skip()
	}
	id, _ := opts.Get(keyopts.KeyID)
	return zap.Any("key_id", id)
}
