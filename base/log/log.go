// Package log configures the process-wide structured logger used by every
// service/mgr.Manager, adapted from the teacher's base/log/slog.go: a
// log/slog default handler backed by github.com/lmittmann/tint for
// human-readable, leveled, optionally colored output.
package log

import (
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Severity mirrors the teacher's level vocabulary, minus "trace" (this
// program has no need for per-line protocol tracing).
type Severity int

const (
	Debug Severity = iota
	Info
	Warn
	Error
)

func (s Severity) toSlogLevel() slog.Level {
	switch s {
	case Debug:
		return slog.LevelDebug
	case Warn:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const timeFormat = "15:04:05.000"

// Setup installs a tint-backed slog.Handler as the default logger, writing
// to stdout, colorized only when stdout is a real terminal (spec.md does
// not define a log destination; stdout matches the teacher's default for
// a foreground process).
func Setup(level Severity) {
	out := io.Writer(os.Stdout)
	noColor := !isatty.IsTerminal(os.Stdout.Fd())
	if runtime.GOOS == "windows" && !noColor {
		out = colorable.NewColorable(os.Stdout)
	}

	handler := tint.NewHandler(out, &tint.Options{
		AddSource:  true,
		Level:      level.toSlogLevel(),
		TimeFormat: timeFormat,
		NoColor:    noColor,
	})
	slog.SetDefault(slog.New(handler))
}
