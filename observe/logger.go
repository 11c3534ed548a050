package observe

import (
	"context"
	"io"
	"os"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents a logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLogLevel parses a string log level. Unknown values map to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
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

// zapLogger adapts a *zap.Logger to Logger.
type zapLogger struct {
	base *zap.Logger
}

// NewLogger creates a JSON logger on stderr with the given level.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a JSON logger writing one object per line to w.
// Entries carry timestamp, level and msg keys plus the supplied fields.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.LevelKey = "level"
	enc.MessageKey = "msg"
	enc.CallerKey = zapcore.OmitKey
	enc.StacktraceKey = zapcore.OmitKey
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(enc),
		zapcore.Lock(zapcore.AddSync(w)),
		ParseLogLevel(level).zapLevel(),
	)
	return &zapLogger{base: zap.New(core)}
}

// NewZapLogger adopts an existing zap logger.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLogger{base: l}
}

// WithFunc returns a logger with function metadata attached to every entry.
func (l *zapLogger) WithFunc(meta FuncMeta) Logger {
	fields := []zap.Field{
		zap.String("memo.id", meta.ID()),
		zap.String("memo.name", meta.Name),
	}
	if meta.Namespace != "" {
		fields = append(fields, zap.String("memo.namespace", meta.Namespace))
	}
	if meta.Version != "" {
		fields = append(fields, zap.String("memo.version", meta.Version))
	}
	return &zapLogger{base: l.base.With(fields...)}
}

func (l *zapLogger) Info(_ context.Context, msg string, fields ...Field) {
	l.base.Info(msg, zapFields(fields)...)
}

func (l *zapLogger) Warn(_ context.Context, msg string, fields ...Field) {
	l.base.Warn(msg, zapFields(fields)...)
}

func (l *zapLogger) Error(_ context.Context, msg string, fields ...Field) {
	l.base.Error(msg, zapFields(fields)...)
}

func (l *zapLogger) Debug(_ context.Context, msg string, fields ...Field) {
	l.base.Debug(msg, zapFields(fields)...)
}

// Sync flushes buffered entries.
func (l *zapLogger) Sync() error {
	return l.base.Sync()
}

func zapFields(fields []Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
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
	return slices.Contains(RedactedFields, key)
}

var _ Logger = (*zapLogger)(nil)
