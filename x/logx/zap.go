//go:build !tinygo

package logx

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZap builds a sugared zap logger at the given level. Development mode
// prints console lines with caller info; production mode emits JSON.
func NewZap(level Level, development bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func zapLevel(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

var _ Logger = (*zap.SugaredLogger)(nil)
