// Package logging builds the zap loggers used by the key managers.
//
// Secrets never reach a logger: key material is replaced by Redacted fields,
// and keys are identified by their SKI.
package logging

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redactedPlaceholder = "[redacted]"

// New returns a production JSON logger writing to stderr at level
// ("debug", "info", "warn", "error"). An empty level means "info".
func New(level string, opts ...zap.Option) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.Set(level); err != nil {
			return nil, errors.Wrapf(err, "logging: invalid level %q", level)
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil
	return cfg.Build(opts...)
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// OrNop returns logger, or a no-op logger if it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}

// Redacted marks a field whose value was intentionally left out.
func Redacted(key string) zap.Field {
	return zap.String(key, redactedPlaceholder)
}

// SKI logs a key identifier.
func SKI(ski []byte) zap.Field {
	return zap.String("ski", hex.EncodeToString(ski))
}
