// Package logging provides the process-wide diagnostic logger.
//
// Diagnostics go to a rotating file so they never mix with the interactive
// terminal output. Until Init is called, L returns a no-op logger.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *Logger
	raw    *zap.Logger

	noopLogger = &Logger{zap.NewNop().Sugar()}

	atomicLevel zap.AtomicLevel
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// With adds structured fields to the logger and returns a new instance.
func (l *Logger) With(args ...interface{}) *Logger {
	if l == nil {
		return noopLogger
	}
	return &Logger{l.SugaredLogger.With(args...)}
}

// Options tune Init. Zero values fall back to the environment.
type Options struct {
	// Level overrides LOG_LEVEL when set.
	Level string
	// Path overrides the default log file location.
	Path string
}

// L returns the global logger or a no-op fallback if uninitialized.
func L() *Logger {
	if logger == nil {
		return noopLogger
	}
	return logger
}

// Init initializes the global logger.
//
// PROMPTER_ENV=dev selects human-readable output in app-debug.log, anything
// else selects JSON in app.log. Files live under $XDG_STATE_HOME/<app> or
// ~/.local/state/<app>.
func Init(appName string, opts Options) {
	mode := detectMode()
	logPath := opts.Path
	if logPath == "" {
		logPath = selectLogPath(appName, mode)
	}

	level := opts.Level
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	atomicLevel = zap.NewAtomicLevelAt(parseLevel(level, mode))

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	})

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if mode == "dev" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, writer, atomicLevel)
	raw = zap.New(core, zap.AddCaller())
	logger = &Logger{raw.Sugar()}

	logger.Infof("logger initialized in %s mode, writing to %s", mode, logPath)
}

// Sync flushes any buffered log entries.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}

// SetLevel changes the log level at runtime.
func SetLevel(level zapcore.Level) {
	if atomicLevel != (zap.AtomicLevel{}) {
		atomicLevel.SetLevel(level)
	}
}

func detectMode() string {
	switch strings.ToLower(os.Getenv("PROMPTER_ENV")) {
	case "dev", "development":
		return "dev"
	default:
		return "prod"
	}
}

func selectLogPath(appName, mode string) string {
	fileName := "app.log"
	if mode == "dev" {
		fileName = "app-debug.log"
	}

	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		path := filepath.Join(xdg, appName)
		_ = os.MkdirAll(path, 0755)
		return filepath.Join(path, fileName)
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".local", "state", appName)
		_ = os.MkdirAll(path, 0755)
		return filepath.Join(path, fileName)
	}

	path := filepath.Join(os.TempDir(), appName)
	_ = os.MkdirAll(path, 0755)
	return filepath.Join(path, fileName)
}

func parseLevel(level, mode string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		if mode == "dev" {
			return zap.DebugLevel
		}
		return zap.InfoLevel
	}
}
