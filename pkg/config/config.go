// Package config loads the YAML description of a groupenc deployment.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/mr-shifu/groupenc/core/elgamal"
	"github.com/mr-shifu/groupenc/core/math/curve"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGroup    = "secp256k1"
	DefaultKeystore = "memory"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the deployment configuration.
//
//	group: secp256k1
//	domain: groupenc/v1
//	max_message_size: 128
//	log_level: info
//	keystore: memory
type Config struct {
	// Group names the curve; see curve.FromName.
	Group string `yaml:"group"`
	// Domain, when set, derives the scheme parameters deterministically so
	// that all parties agree without exchanging them.
	Domain string `yaml:"domain,omitempty"`
	// MaxMessageSize bounds the number of elements a caller may encrypt at
	// once. Zero means unbounded.
	MaxMessageSize int    `yaml:"max_message_size,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`
	Keystore       string `yaml:"keystore,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Group:    DefaultGroup,
		LogLevel: zapcore.InfoLevel.String(),
		Keystore: DefaultKeystore,
	}
}

// Parse decodes and validates a YAML document. Unknown fields are rejected.
// Fields absent from the document keep their Default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "config: failed to read %s", path)
	}
	return Parse(data)
}

func (c *Config) Validate() error {
	if _, err := curve.FromName(c.Group); err != nil {
		return errors.WithMessagef(ErrInvalidConfig, "group %q: %v", c.Group, err)
	}
	if c.MaxMessageSize < 0 {
		return errors.WithMessagef(ErrInvalidConfig, "negative max_message_size %d", c.MaxMessageSize)
	}
	if c.LogLevel != "" {
		var lvl zapcore.Level
		if err := lvl.Set(c.LogLevel); err != nil {
			return errors.WithMessagef(ErrInvalidConfig, "log_level %q", c.LogLevel)
		}
	}
	return nil
}

// Curve returns the configured group.
func (c *Config) Curve() (curve.Curve, error) {
	group, err := curve.FromName(c.Group)
	if err != nil {
		return nil, errors.WithMessagef(ErrInvalidConfig, "group %q: %v", c.Group, err)
	}
	return group, nil
}

// Parameters returns the scheme parameters: derived from Domain when it is
// set, otherwise sampled from rand.
func (c *Config) Parameters(rand io.Reader) (*elgamal.Parameters, error) {
	group, err := c.Curve()
	if err != nil {
		return nil, err
	}
	if c.Domain != "" {
		return elgamal.DeriveParameters(group, c.Domain), nil
	}
	return elgamal.Setup(group, rand)
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
