package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields is a set of structured log fields attached to a message.
type Fields map[string]any

// Logger is the structured logging interface used across the codebase.
// Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = newZapLogger(zapcore.InfoLevel)
)

func newZapLogger(level zapcore.Level) *zapLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Config above is static; Build can only fail on invalid sink paths.
		logger = zap.NewNop()
	}
	return &zapLogger{sugar: logger.Sugar()}
}

// NewDefaultLogger returns a logger at info level writing to stderr.
func NewDefaultLogger() Logger {
	return newZapLogger(zapcore.InfoLevel)
}

// NewLogger returns a logger at the given level ("debug", "info", "warn",
// "error"). Unknown levels fall back to info.
func NewLogger(level string) Logger {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	return newZapLogger(parsed)
}

// SetDefault replaces the package-level logger used by WithFields.
func SetDefault(logger Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// WithFields returns a child of the package-level logger carrying fields.
func WithFields(fields Fields) Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger.WithFields(fields)
}

func (l *zapLogger) log(fn func(msg string, kv ...any), msg string, fields []Fields) {
	fn(msg, flatten(fields)...)
}

func (l *zapLogger) Debug(msg string, fields ...Fields) { l.log(l.sugar.Debugw, msg, fields) }
func (l *zapLogger) Info(msg string, fields ...Fields)  { l.log(l.sugar.Infow, msg, fields) }
func (l *zapLogger) Warn(msg string, fields ...Fields)  { l.log(l.sugar.Warnw, msg, fields) }
func (l *zapLogger) Error(msg string, fields ...Fields) { l.log(l.sugar.Errorw, msg, fields) }

func (l *zapLogger) WithFields(fields Fields) Logger {
	return &zapLogger{sugar: l.sugar.With(flatten([]Fields{fields})...)}
}

func flatten(fields []Fields) []any {
	var kv []any
	for _, f := range fields {
		for k, v := range f {
			kv = append(kv, k, v)
		}
	}
	return kv
}
