// Package logger is a thin key/value wrapper around a zap SugaredLogger.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

type settings struct {
	level  string
	output string
}

// Option adjusts how New builds the logger.
type Option func(*settings)

// WithLevel sets the minimum level: debug, info, warn or error.
func WithLevel(level string) Option {
	return func(s *settings) { s.level = level }
}

// WithOutput sends log lines to path instead of stderr. The terminal UI
// uses this so logs never land on the alternate screen.
func WithOutput(path string) Option {
	return func(s *settings) { s.output = path }
}

// New builds a logger. Mode "prod" or "production" emits JSON; anything
// else uses zap's development console encoder.
func New(mode string, opts ...Option) (*Logger, error) {
	st := settings{level: "info"}
	for _, o := range opts {
		o(&st)
	}

	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(st.level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	if st.output != "" {
		cfg.OutputPaths = []string{st.output}
		cfg.ErrorOutputPaths = []string{st.output}
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, keysAndValues...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, keysAndValues...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, keysAndValues...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, keysAndValues...)
}
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}
