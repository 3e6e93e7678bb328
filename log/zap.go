package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

type (
	Level  = zapcore.Level
	Field  = zap.Field
	Option = zap.Option
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

var (
	String     = zap.String
	Int        = zap.Int
	Int64      = zap.Int64
	Uint       = zap.Uint
	Float      = zap.Float64
	Bool       = zap.Bool
	Any        = zap.Any
	Duration   = zap.Duration
	Time       = zap.Time
	ErrorField = zap.Error

	WithCaller    = zap.WithCaller
	AddCallerSkip = zap.AddCallerSkip
)

// filterRules holds the zapfilter rules applied to loggers created by New and DevLogger.
// An empty value disables filtering.
var filterRules string

// SetFilterRules configures the zapfilter rules (for example "*:* info+:extract.*")
// used for loggers created afterwards.
func SetFilterRules(rules string) error {
	if rules != "" {
		if _, err := zapfilter.ParseRules(rules); err != nil {
			return err
		}
	}
	filterRules = rules
	return nil
}

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

// New creates a logger which writes json formatted entries to writer.
func New(writer io.Writer, level Level, opts ...Option) *Logger {
	if writer == nil {
		writer = os.Stderr
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg.EncoderConfig),
		zapcore.AddSync(writer),
		zap.NewAtomicLevelAt(level),
	)
	return &Logger{l: zap.New(withFilter(core), opts...), level: level}
}

// DevLogger creates a logger with human readable console output.
func DevLogger(writer io.Writer, level Level, opts ...Option) *Logger {
	if writer == nil {
		writer = os.Stderr
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(writer),
		zap.NewAtomicLevelAt(level),
	)
	return &Logger{l: zap.New(withFilter(core), opts...), level: level}
}

func withFilter(core zapcore.Core) zapcore.Core {
	if filterRules == "" {
		return core
	}
	return zapfilter.NewFilteringCore(core, zapfilter.MustParseRules(filterRules))
}
