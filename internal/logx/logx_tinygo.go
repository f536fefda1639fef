//go:build tinygo

package logx

import (
	"fmt"
	"strings"

	"nanoterm/hal"
)

// Logger writes key/value lines to the HAL logger.
type Logger struct {
	out   hal.Logger
	level int
	kv    []any
}

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

var noopLogger = &Logger{level: levelError + 1}

var logger *Logger

type Options struct {
	Level string
}

func L() *Logger {
	if logger == nil {
		return noopLogger
	}
	return logger
}

// Init installs a logger writing to out.
func Init(out hal.Logger, opts Options) {
	logger = &Logger{out: out, level: parseLevel(opts.Level)}
}

func Sync() {}

func parseLevel(s string) int {
	switch strings.ToLower(s) {
	case "debug":
		return levelDebug
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.out == nil {
		return noopLogger
	}
	kv := append(append([]any{}, l.kv...), args...)
	return &Logger{out: l.out, level: l.level, kv: kv}
}

func (l *Logger) Debugw(msg string, kv ...any) { l.write(levelDebug, "DEBUG", msg, kv) }
func (l *Logger) Infow(msg string, kv ...any)  { l.write(levelInfo, "INFO", msg, kv) }
func (l *Logger) Warnw(msg string, kv ...any)  { l.write(levelWarn, "WARN", msg, kv) }
func (l *Logger) Errorw(msg string, kv ...any) { l.write(levelError, "ERROR", msg, kv) }

func (l *Logger) write(level int, tag, msg string, kv []any) {
	if l == nil || l.out == nil || level < l.level {
		return
	}
	var b strings.Builder
	b.WriteString(tag)
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, set := range [][]any{l.kv, kv} {
		for i := 0; i+1 < len(set); i += 2 {
			fmt.Fprintf(&b, " %v=%v", set[i], set[i+1])
		}
	}
	l.out.WriteLineString(b.String())
}
