package core

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
)

// DefaultLogPath is used when a line is logged before Initialize was called.
const DefaultLogPath = "eae6320.log"

type LogLevel = log.Level

const (
	DebugLevel LogLevel = log.DebugLevel
	InfoLevel  LogLevel = log.InfoLevel
	WarnLevel  LogLevel = log.WarnLevel
	ErrorLevel LogLevel = log.ErrorLevel
)

// ParseLogLevel accepts "debug", "info", "warn" and "error".
func ParseLogLevel(level string) (LogLevel, error) {
	l, err := log.ParseLevel(level)
	if err != nil {
		return InfoLevel, eris.Wrapf(err, "invalid log level %q", level)
	}
	return l, nil
}

// Logger writes formatted lines to a single log file and mirrors them to the
// console. The file is opened lazily and its path can't change once opened.
// After CleanUp the file stays closed and lines only reach the console. The
// same goes after Initialize failed to open its file, so the default path is
// never used in place of the configured one.
type Logger struct {
	mu      sync.Mutex
	fs      afero.Fs
	console io.Writer
	file    afero.File
	path    string
	closed  bool
	failed  bool
	logger  *log.Logger
}

func NewLogger(fs afero.Fs, console io.Writer) *Logger {
	if console == nil {
		console = os.Stderr
	}
	l := log.NewWithOptions(console, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		CallerOffset:    1,
		Prefix:          "Engine 🏎️ ",
	})
	l.SetLevel(log.DebugLevel)
	return &Logger{
		fs:      fs,
		console: console,
		logger:  l,
	}
}

// Initialize opens the log file at path, truncating it. Asking for a
// different path once a file is open is logged as an error and ignored.
func (l *Logger) Initialize(path string) error {
	if path == "" {
		path = DefaultLogPath
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoggerClosed
	}
	if l.file != nil {
		current := l.path
		l.mu.Unlock()
		if current != path {
			l.logger.Errorf("An attempt was made to initialize logging with the path \"%s\" after the current log file had already been opened with \"%s\"", path, current)
		}
		return nil
	}
	err := l.open(path)
	l.failed = err != nil
	l.mu.Unlock()
	if err != nil {
		return err
	}

	l.logger.Infof("Opened log file \"%s\"", path)
	return nil
}

// open must be called with mu held.
func (l *Logger) open(path string) error {
	f, err := l.fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "failed to open log file \"%s\"", path)
	}
	l.file = f
	l.path = path
	l.logger.SetOutput(io.MultiWriter(f, l.console))
	return nil
}

func (l *Logger) ensureOpen() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil || l.closed || l.failed {
		return
	}
	if err := l.open(DefaultLogPath); err != nil {
		l.logger.Errorf("%s", err)
	}
}

// CleanUp closes the log file. It is safe to call more than once.
func (l *Logger) CleanUp() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	if l.file == nil {
		return nil
	}

	l.logger.Infof("Closing log file")
	l.logger.SetOutput(l.console)
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return eris.Wrapf(err, "failed to close log file \"%s\"", l.path)
	}
	return nil
}

func (l *Logger) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

func (l *Logger) SetLevel(level LogLevel) {
	l.logger.SetLevel(level)
}

func (l *Logger) SetPrefix(prefix string) {
	l.logger.SetPrefix(prefix)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.ensureOpen()
	l.logger.Debugf(msg, args...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.ensureOpen()
	l.logger.Infof(msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.ensureOpen()
	l.logger.Warnf(msg, args...)
}

// Error lines are flushed to disk immediately.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.ensureOpen()
	l.logger.Errorf(msg, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Sync()
	}
}
