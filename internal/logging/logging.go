package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

const prefix = "[j1939decode] "

var (
	logger  = log.New(os.Stderr, prefix, log.LstdFlags|log.Lmicroseconds)
	verbose atomic.Bool
)

func Logf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}

// Debugf logs only when verbose output is enabled.
func Debugf(format string, args ...interface{}) {
	if verbose.Load() {
		logger.Printf(format, args...)
	}
}

func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}

func SetVerbose(v bool) { verbose.Store(v) }

func Verbose() bool { return verbose.Load() }

// SetOutput redirects diagnostics, mostly for tests.
func SetOutput(w io.Writer) { logger.SetOutput(w) }

// FileOptions configures the rotated log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// SetupFile tees diagnostics into a size-rotated file next to stderr. The
// returned closer flushes and closes the file.
func SetupFile(opts FileOptions) (io.Closer, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	rotator := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, rotator))
	return rotator, nil
}
