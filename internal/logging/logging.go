// Package logging builds the process-wide structured logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/moderato-fm/songscreen/internal/model"
)

// New creates a zap logger from the logging configuration.
// Development environment gets console encoding, everything else JSON.
func New(cfg model.LoggingConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Environment == "development" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = parseLevel(cfg.Level)

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func parseLevel(level string) zap.AtomicLevel {
	switch level {
	case "debug":
		return zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
}
