// Package logger builds the process-wide zap logger.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the encoder and minimum level.
type Config struct {
	Development bool
	Level       string // debug, info, warn, error; empty means the preset default
}

// ForEnv returns the logger config for an APP_ENV value.  Anything other
// than "prod" or "production" logs in development mode.
func ForEnv(env, level string) Config {
	switch strings.ToLower(env) {
	case "prod", "production":
		return Config{Level: level}
	}
	return Config{Development: true, Level: level}
}

// New returns a JSON production logger or a console development logger.
func New(cfg Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc.Build()
}
