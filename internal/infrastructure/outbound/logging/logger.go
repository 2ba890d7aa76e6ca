package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sophialabs/inkwell/internal/infrastructure/ports"
)

var _ ports.Logger = (*ZapLogger)(nil)

// ZapLogger wraps a zap sugared logger to implement ports.Logger.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// New builds a ZapLogger for the given level ("debug", "info", "warn",
// "error"). Development mode enables console encoding and caller info.
func New(level string, development bool) (*ZapLogger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &ZapLogger{logger: logger.Sugar()}, nil
}

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func (l *ZapLogger) Info(msg string, args ...any)  { l.logger.Infow(msg, args...) }
func (l *ZapLogger) Warn(msg string, args ...any)  { l.logger.Warnw(msg, args...) }
func (l *ZapLogger) Error(msg string, args ...any) { l.logger.Errorw(msg, args...) }
func (l *ZapLogger) Debug(msg string, args ...any) { l.logger.Debugw(msg, args...) }

func parseLevel(s string) (zapcore.Level, error) {
	switch s {
	case "debug", "":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
