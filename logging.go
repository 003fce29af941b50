package razed

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// ZapLogger wraps a zap sugared logger behind the Logger interface.
// Debug toggling is dynamic; the underlying level is shared with zap's
// atomic level so both paths agree.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
	debug atomic.Bool
}

// NewZapLogger builds a console logger, optionally teeing into a rotated
// file when logFile is non-empty.
func NewZapLogger(prefix string, debug bool, logFile string) *ZapLogger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stdout),
			level,
		),
	}
	if logFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    32,
			MaxBackups: 3,
			MaxAge:     14,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(rotated),
			level,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	if prefix != "" {
		logger = logger.Named(prefix)
	}

	l := &ZapLogger{
		sugar: logger.Sugar(),
		level: level,
	}
	l.debug.Store(debug)
	return l
}

func (l *ZapLogger) DebugEnabled() bool {
	return l.debug.Load()
}

func (l *ZapLogger) SetDebug(enabled bool) {
	l.debug.Store(enabled)
	if enabled {
		l.level.SetLevel(zapcore.DebugLevel)
	} else {
		l.level.SetLevel(zapcore.InfoLevel)
	}
}

func (l *ZapLogger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *ZapLogger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *ZapLogger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }

// Sync flushes buffered log entries. Call on shutdown.
func (l *ZapLogger) Sync() {
	_ = l.sugar.Sync()
}

// LoggingModule installs the zap-backed logger as a resource.
type LoggingModule struct {
	Prefix  string
	Debug   bool
	LogFile string
}

func (m LoggingModule) Install(app *App) {
	if cfg, ok := Resource[Config](app); ok {
		if !m.Debug {
			m.Debug = cfg.Log.Debug
		}
		if m.LogFile == "" {
			m.LogFile = cfg.Log.File
		}
	}
	logger := NewZapLogger(m.Prefix, m.Debug, m.LogFile)
	app.AddResources(logger)
}

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }

func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// Logger returns the first Logger resource if present, otherwise a no-op
// logger. Never returns nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
