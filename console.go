package pinlog

import (
	"context"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/AdityaBavadekar/PinLog/internal/report"
)

// ConsoleFile configures a rotating file that receives a copy of everything
// mirrored to the console. Its tail is attached to crash reports.
type ConsoleFile struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// console is the dev-logging mirror.
type console struct {
	logger *slog.Logger
	file   *lumberjack.Logger
}

func newConsole(w io.Writer, cf *ConsoleFile) *console {
	if w == nil {
		w = os.Stderr
	}
	c := &console{}
	if cf != nil && cf.Path != "" {
		c.file = &lumberjack.Logger{
			Filename:   cf.Path,
			MaxSize:    cf.MaxSizeMB,
			MaxBackups: cf.MaxBackups,
			MaxAge:     cf.MaxAgeDays,
			Compress:   cf.Compress,
		}
		w = io.MultiWriter(w, c.file)
	}
	c.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return c
}

func slogLevel(l Level) slog.Level {
	switch l {
	case ERROR:
		return slog.LevelError
	case WARN:
		return slog.LevelWarn
	case INFO:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func (c *console) emit(level Level, tag, msg string, cause error) {
	attrs := []slog.Attr{slog.String("tag", tag)}
	if cause != nil {
		attrs = append(attrs, slog.String("error", cause.Error()))
	}
	c.logger.LogAttrs(context.Background(), slogLevel(level), msg, attrs...)
}

// tail returns the last n lines of the console file, if one is configured.
func (c *console) tail(n int) (string, bool) {
	if c.file == nil {
		return "", false
	}
	s, err := report.Tail(c.file.Filename, n)
	if err != nil {
		return "", false
	}
	return s, true
}

func (c *console) close() error {
	if c.file == nil {
		return nil
	}
	return c.file.Close()
}
