// Package logging provides the logger used across gptoss. Components depend on
// the Logger interface; the CLI constructs the concrete logrus-backed value.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the subset of logrus.FieldLogger the tool relies on.
type Logger interface {
	// WithField creates a new logger with an additional field
	WithField(key string, value interface{}) Logger
	// WithFields creates a new logger with additional fields
	WithFields(fields map[string]interface{}) Logger
	// WithError creates a new logger with an error field
	WithError(err error) Logger

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Options controls how New configures the underlying logrus logger.
type Options struct {
	// Verbose enables debug level output.
	Verbose bool
	// JSON switches to the logrus JSON formatter.
	JSON bool
	// Level, when set, overrides Verbose. It accepts any logrus level name.
	Level string
	// Output defaults to os.Stderr so that logs never mix with the output of
	// the process attached inside the container.
	Output io.Writer
}

// New builds a logrus logger according to opts and returns it wrapped in the
// Logger interface.
func New(opts Options) Logger {
	logger := logrus.New()
	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	} else {
		logger.SetOutput(os.Stderr)
	}

	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	if level := strings.TrimSpace(opts.Level); level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			logger.SetLevel(lvl)
		}
	}
	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return NewLogrusAdapter(logger)
}

// Discard returns a logger that drops everything. Handy as a default for
// library types constructed without an explicit logger.
func Discard() Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewLogrusAdapter(logger)
}
