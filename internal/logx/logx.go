//go:build !tinygo

// Package logx is the structured diagnostics log. On the host it writes
// through zap to a rotated file so the console stays clean.
package logx

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

var (
	logger     *Logger
	noopLogger = &Logger{zap.NewNop().Sugar()}

	atomicLevel zap.AtomicLevel
)

// Options selects level, encoding and destination.
type Options struct {
	AppName string
	Level   string
	// Mode is "dev" for console encoding, anything else for JSON.
	Mode string
	// File overrides the state-directory log path.
	File string
}

// L returns the global logger or a no-op fallback if uninitialized.
func L() *Logger {
	if logger == nil {
		return noopLogger
	}
	return logger
}

// With adds structured fields to the logger and returns a new instance.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return noopLogger
	}
	return &Logger{l.SugaredLogger.With(args...)}
}

// Init installs the global logger and returns the path it writes to.
func Init(opts Options) string {
	if opts.AppName == "" {
		opts.AppName = "nanoterm"
	}
	logPath := opts.File
	if logPath == "" {
		logPath = selectLogPath(opts.AppName, opts.Mode)
	}

	atomicLevel = zap.NewAtomicLevelAt(ParseLevel(opts.Level))

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	})

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if opts.Mode == "dev" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, writer, atomicLevel)
	logger = &Logger{zap.New(core, zap.AddCaller()).Sugar()}
	logger.Infow("logger initialized", "mode", opts.Mode, "path", logPath)
	return logPath
}

// InitTest installs a development logger writing to stdout.
func InitTest() {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{"stdout"}
	raw, _ := cfg.Build(zap.AddCaller())
	logger = &Logger{raw.Sugar()}
}

// Sync flushes buffered entries.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}

// SetLevel changes the level of the logger installed by Init.
func SetLevel(level string) {
	if atomicLevel != (zap.AtomicLevel{}) {
		atomicLevel.SetLevel(ParseLevel(level))
	}
}

// ParseLevel maps a level name to a zap level. Unknown names mean info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func selectLogPath(appName, mode string) string {
	fileName := "nanoterm.log"
	if mode == "dev" {
		fileName = "nanoterm-debug.log"
	}

	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		path := filepath.Join(xdg, appName)
		_ = os.MkdirAll(path, 0o755)
		return filepath.Join(path, fileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".local", "state", appName)
		_ = os.MkdirAll(path, 0o755)
		return filepath.Join(path, fileName)
	}
	path := filepath.Join(os.TempDir(), appName)
	_ = os.MkdirAll(path, 0o755)
	return filepath.Join(path, fileName)
}
