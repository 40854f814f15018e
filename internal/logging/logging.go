package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes leveled logs to stdout and a rotating file.
type Logger struct {
	*logrus.Logger
	file *lumberjack.Logger
}

// New creates a Logger writing to stdout and <dir>/binduty.log.
func New(dir, level string) (*Logger, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create logs folder failed: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "binduty.log"),
		MaxSize:    50,
		MaxBackups: 7,
		MaxAge:     30,
		Compress:   true,
	}
	l, err := NewWithWriter(io.MultiWriter(os.Stdout, file), level)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	l.file = file
	return l, nil
}

// NewWithWriter creates a Logger writing only to w.
func NewWithWriter(w io.Writer, level string) (*Logger, error) {
	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(lvl)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &Logger{Logger: base}, nil
}

// Discard returns a Logger that drops everything. Used in tests.
func Discard() *Logger {
	l, _ := NewWithWriter(io.Discard, "panic")
	return l
}

func (l *Logger) Close() {
	if l.file == nil {
		return
	}
	// Later writes must not reopen the rotated file.
	l.SetOutput(os.Stdout)
	if err := l.file.Close(); err != nil {
		l.Errorf("Failed to close log file: %v", err)
	}
}
