package observe

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLogLevel parses a string log level, defaulting to info.
func ParseLogLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// zapLogger implements Logger on top of a zap core.
type zapLogger struct {
	log *zap.Logger
}

// NewLogger creates a structured JSON logger writing to stderr.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a structured JSON logger with a custom
// writer; tests inject a buffer here.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(w),
		ParseLogLevel(level),
	)
	return &zapLogger{log: zap.New(core)}
}

// WithCache returns a logger with cache context attached.
func (l *zapLogger) WithCache(meta CacheMeta) Logger {
	fields := []zap.Field{zap.String("cache.name", meta.Name)}
	if meta.Kind != "" {
		fields = append(fields, zap.String("cache.kind", meta.Kind))
	}
	return &zapLogger{log: l.log.With(fields...)}
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log.Info(msg, zapFields(fields)...)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log.Warn(msg, zapFields(fields)...)
}

func (l *zapLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log.Error(msg, zapFields(fields)...)
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log.Debug(msg, zapFields(fields)...)
}

// zapFields converts Fields, redacting argument-bearing keys.
func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if isRedactedField(f.Key) {
			out = append(out, zap.String(f.Key, "[REDACTED]"))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

func isRedactedField(key string) bool {
	for _, k := range RedactedFields {
		if key == k {
			return true
		}
	}
	return false
}

// noopLogger discards everything.
type noopLogger struct{}

// NewNoopLogger creates a Logger that records nothing.
func NewNoopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Info(context.Context, string, ...Field)  {}
func (noopLogger) Warn(context.Context, string, ...Field)  {}
func (noopLogger) Error(context.Context, string, ...Field) {}
func (noopLogger) Debug(context.Context, string, ...Field) {}
func (noopLogger) WithCache(CacheMeta) Logger              { return noopLogger{} }

var (
	_ Logger = (*zapLogger)(nil)
	_ Logger = noopLogger{}
)
