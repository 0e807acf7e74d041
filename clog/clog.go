package clog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type LogLevel uint

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
)

var colorTags = [...]string{
	"\033[34mDEBUG\033[0m",
	"\033[90mINFO\033[0m",
	"\033[93mWARNING\033[0m",
	"\033[91mERROR\033[0m",
}

var plainTags = [...]string{
	"DEBUG",
	"INFO",
	"WARNING",
	"ERROR",
}

var slogLevels = [...]slog.Level{
	slog.LevelDebug,
	slog.LevelInfo,
	slog.LevelWarn,
	slog.LevelError,
}

var (
	logMutex   sync.Mutex
	withColors bool
	minLevel   = new(slog.LevelVar)
	logger     = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       minLevel,
		ReplaceAttr: replaceLevel,
	}))
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) != 0 {
		return a
	}

	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	tag := plainTags[levelFromSlog(level)]
	if withColors {
		tag = colorTags[levelFromSlog(level)]
	}
	return slog.String(slog.LevelKey, tag)
}

func levelFromSlog(level slog.Level) LogLevel {
	switch {
	case level >= slog.LevelError:
		return ERROR
	case level >= slog.LevelWarn:
		return WARNING
	case level >= slog.LevelInfo:
		return INFO
	default:
		return DEBUG
	}
}

func (l LogLevel) String() string {
	if int(l) < len(plainTags) {
		return plainTags[l]
	}
	return fmt.Sprintf("LogLevel(%d)", uint(l))
}

func ParseLevel(s string) (LogLevel, error) {
	for i, tag := range plainTags {
		if strings.EqualFold(s, tag) {
			return LogLevel(i), nil
		}
	}
	if strings.EqualFold(s, "warn") {
		return WARNING, nil
	}
	return DEBUG, fmt.Errorf("unknown log level %q", s)
}

// SetOutput redirects all subsequent log lines to w.
func SetOutput(w io.Writer, colors bool) {
	logMutex.Lock()
	defer logMutex.Unlock()

	withColors = colors
	logger = newLogger(w)
}

func SetLevel(level LogLevel) {
	if level > ERROR {
		level = ERROR
	}
	minLevel.Set(slogLevels[level])
}

// With returns a structured logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	logMutex.Lock()
	defer logMutex.Unlock()
	return logger.With(args...)
}

func Log(level LogLevel, format string, v ...interface{}) {
	if level > ERROR {
		level = ERROR
	}

	logMutex.Lock()
	defer logMutex.Unlock()

	logger.Log(context.Background(), slogLevels[level], fmt.Sprintf(format, v...))
}

func Warning(format string, v ...interface{}) {
	Log(WARNING, format, v...)
}

func Error(format string, v ...interface{}) {
	Log(ERROR, format, v...)
}

func Fatal(format string, v ...interface{}) {
	Log(ERROR, format, v...)
	os.Exit(1)
}

func Info(format string, v ...interface{}) {
	Log(INFO, format, v...)
}

func Debug(format string, v ...interface{}) {
	Log(DEBUG, format, v...)
}
