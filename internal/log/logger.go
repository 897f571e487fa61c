// Package log provides structured logging for shade using zap.
package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with shade-specific helpers.
type Logger struct {
	*zap.Logger
	onDispatch func(class, method, detail string) // callback for dispatch events
}

var (
	// L is the global logger instance.
	L    *Logger
	once sync.Once

	nop     *Logger
	nopOnce sync.Once
)

// Init initializes the global logger with the given configuration.
// Safe to call multiple times; only the first call takes effect.
func Init(debug bool) {
	once.Do(func() {
		L = New(debug)
	})
}

// New creates a new Logger instance.
func New(debug bool) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		logger = zap.NewNop()
	}

	return &Logger{Logger: logger}
}

// NewNop creates a no-op logger for testing.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Get returns the global logger, or a shared no-op logger when Init
// has not been called.
func Get() *Logger {
	if L != nil {
		return L
	}
	nopOnce.Do(func() {
		nop = NewNop()
	})
	return nop
}

// SetOnDispatch sets the callback fired for every Dispatch event.
func (l *Logger) SetOnDispatch(fn func(class, method, detail string)) {
	l.onDispatch = fn
}

// Dispatch logs one forwarded invocation of a rewritten member.
func (l *Logger) Dispatch(class, method, detail string) {
	if l.onDispatch != nil {
		l.onDispatch(class, method, detail)
	}

	l.Debug("dispatch",
		zap.String("class", class),
		zap.String("fn", method),
		zap.String("detail", detail),
	)
}

// ClassRewrite logs a class whose members were replaced.
func (l *Logger) ClassRewrite(class string, engine, ctors, methods int) {
	l.Debug("rewrite",
		zap.String("class", class),
		zap.Int("engine", engine),
		zap.Int("ctors", ctors),
		zap.Int("methods", methods),
	)
}

// ClassSkip logs a class the engine left alone and why.
func (l *Logger) ClassSkip(class, reason string) {
	l.Debug("skip",
		zap.String("class", class),
		zap.String("reason", reason),
	)
}

// MemberRewrite logs a single member rewrite.
func (l *Logger) MemberRewrite(class, signature, shape string) {
	l.Debug("member",
		zap.String("class", class),
		zap.String("sig", signature),
		zap.String("shape", shape),
	)
}

// ClassLoad logs a class becoming available in a pool.
func (l *Logger) ClassLoad(class string, translators int) {
	l.Debug("load",
		zap.String("class", class),
		zap.Int("translators", translators),
	)
}

// DetectorActivate logs when a detector is activated.
func (l *Logger) DetectorActivate(name, description string) {
	l.Info("detector",
		zap.String("name", name),
		zap.String("desc", description),
	)
}

// DetectorRegister logs when a detector is registered.
func (l *Logger) DetectorRegister(name, description string, patterns []string) {
	l.Debug("detector registered",
		zap.String("name", name),
		zap.String("desc", description),
		zap.Strings("patterns", patterns),
	)
}

// WithCategory returns a logger with the category field preset.
func (l *Logger) WithCategory(category string) *Logger {
	return &Logger{
		Logger:     l.Logger.With(zap.String("cat", category)),
		onDispatch: l.onDispatch,
	}
}

// Field helpers for common patterns.

// Class creates a class name field.
func Class(name string) zap.Field {
	return zap.String("class", name)
}

// Fn creates a member name field.
func Fn(name string) zap.Field {
	return zap.String("fn", name)
}

// Engine creates an engine index field.
func Engine(index int) zap.Field {
	return zap.Int("engine", index)
}
