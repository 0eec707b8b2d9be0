package logging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel converts a configured level name into a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
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

// Logger interface for structured logging
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
	Error(ctx context.Context, err error, msg string, fields ...interface{})

	With(fields ...interface{}) Logger
	WithComponent(component string) Logger
}

// EngineLogger implements Logger on top of zap.
type EngineLogger struct {
	logger    *zap.Logger
	component string
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level LogLevel
	// Format is "json" or "console".
	Format      string
	OutputPaths []string
	Component   string
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:       LevelInfo,
		Format:      "console",
		OutputPaths: []string{"stderr"},
	}
}

// NewLogger creates a new structured logger
func NewLogger(config *LoggerConfig) (*EngineLogger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var zc zap.Config
	if config.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(config.Level.zapLevel())
	zc.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
	if len(config.OutputPaths) > 0 {
		zc.OutputPaths = config.OutputPaths
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &EngineLogger{logger: logger, component: config.Component}, nil
}

// NewFromZap wraps an existing zap logger.
func NewFromZap(logger *zap.Logger) *EngineLogger {
	return &EngineLogger{logger: logger}
}

// NewNop returns a logger that discards everything.
func NewNop() *EngineLogger {
	return &EngineLogger{logger: zap.NewNop()}
}

// Debug logs a debug message
func (l *EngineLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.logger.Debug(msg, l.fields(nil, fields)...)
}

// Info logs an info message
func (l *EngineLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.logger.Info(msg, l.fields(nil, fields)...)
}

// Warn logs a warning message
func (l *EngineLogger) Warn(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.logger.Warn(msg, l.fields(err, fields)...)
}

// Error logs an error message
func (l *EngineLogger) Error(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.logger.Error(msg, l.fields(err, fields)...)
}

// With creates a new logger with additional fields
func (l *EngineLogger) With(fields ...interface{}) Logger {
	return &EngineLogger{
		logger:    l.logger.With(pairs(fields)...),
		component: l.component,
	}
}

// WithComponent creates a new logger with component context
func (l *EngineLogger) WithComponent(component string) Logger {
	return &EngineLogger{
		logger:    l.logger,
		component: component,
	}
}

// Sync flushes buffered log entries.
func (l *EngineLogger) Sync() error {
	return l.logger.Sync()
}

func (l *EngineLogger) fields(err error, kv []interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(kv)/2+2)
	if l.component != "" {
		out = append(out, zap.String("component", l.component))
	}
	if err != nil {
		out = append(out, zap.Error(err))
	}
	return append(out, pairs(kv)...)
}

// pairs converts alternating key/value arguments; non-string keys and a
// trailing odd value are dropped.
func pairs(kv []interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			out = append(out, zap.Any(key, kv[i+1]))
		}
	}
	return out
}

// PerfLogger tracks the duration of one operation.
type PerfLogger struct {
	Logger
	startTime time.Time
	operation string
}

// StartOperation begins performance tracking
func StartOperation(logger Logger, operation string) *PerfLogger {
	return &PerfLogger{
		Logger:    logger.With("operation", operation),
		startTime: time.Now(),
		operation: operation,
	}
}

// End completes performance tracking and logs the duration
func (p *PerfLogger) End(ctx context.Context, fields ...interface{}) {
	duration := time.Since(p.startTime)
	p.Info(ctx, "Operation completed", append(fields, "duration_ms", duration.Milliseconds())...)
}

// EndWithError completes performance tracking and logs an error
func (p *PerfLogger) EndWithError(ctx context.Context, err error) {
	duration := time.Since(p.startTime)
	p.Error(ctx, err, "Operation failed", "duration_ms", duration.Milliseconds())
}
