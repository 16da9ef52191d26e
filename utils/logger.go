package utils

import (
	"io"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions controls where and how verbosely the process logs.
type LogOptions struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Logger is the process-wide levelled logger, a printf-style facade over
// logrus so call sites read utils.L().Info("rows=%d", n).
type Logger struct {
	entry *log.Logger
	file  io.Closer
}

var (
	globalLogger *Logger
	logMu        sync.Mutex
)

// InitLogger (re)configures the global logger. Stdout is always a sink; a
// rotated log file is added when opt.File is set.
func InitLogger(opt LogOptions) *Logger {
	logMu.Lock()
	defer logMu.Unlock()

	if globalLogger != nil && globalLogger.file != nil {
		_ = globalLogger.file.Close()
	}

	l := log.New()
	l.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	level, err := log.ParseLevel(opt.Level)
	if err != nil {
		level = log.InfoLevel
	}
	l.SetLevel(level)

	var closer io.Closer
	if opt.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opt.File,
			MaxSize:    opt.MaxSizeMB,
			MaxBackups: opt.MaxBackups,
		}
		l.SetOutput(io.MultiWriter(os.Stdout, rotator))
		closer = rotator
	} else {
		l.SetOutput(os.Stdout)
	}

	globalLogger = &Logger{entry: l, file: closer}
	if err != nil && opt.Level != "" {
		globalLogger.Warn("unknown log level %q, using info", opt.Level)
	}
	return globalLogger
}

// L returns the global logger, initialising a stdout-only logger at info
// level on first use.
func L() *Logger {
	logMu.Lock()
	l := globalLogger
	logMu.Unlock()
	if l == nil {
		return InitLogger(LogOptions{Level: "info"})
	}
	return l
}

// SetOutput redirects the logger, e.g. to a buffer in tests.
func (l *Logger) SetOutput(w io.Writer) { l.entry.SetOutput(w) }

// Logrus exposes the underlying logger.
func (l *Logger) Logrus() *log.Logger { return l.entry }

// Close closes the log file, if any.
func (l *Logger) Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}

func (l *Logger) Debug(f string, a ...any) { l.entry.Debugf(f, a...) }
func (l *Logger) Info(f string, a ...any)  { l.entry.Infof(f, a...) }
func (l *Logger) Warn(f string, a ...any)  { l.entry.Warnf(f, a...) }
func (l *Logger) Error(f string, a ...any) { l.entry.Errorf(f, a...) }
func (l *Logger) Fatal(f string, a ...any) { l.entry.Fatalf(f, a...) }
