package raymarch

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// loggerSinks is shared by a logger and every child returned by Named.
type loggerSinks struct {
	mu    sync.Mutex
	debug bool
	out   *log.Logger
	err   *log.Logger
}

type DefaultLogger struct {
	sinks  *loggerSinks
	prefix string
}

// NewDefaultLogger writes debug and info to stdout, warnings and errors to
// stderr.
func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewLoggerTo(os.Stdout, os.Stderr, prefix, debug)
}

func NewLoggerTo(out, errOut io.Writer, prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		sinks: &loggerSinks{
			debug: debug,
			out:   log.New(out, "", flags),
			err:   log.New(errOut, "", flags),
		},
		prefix: prefix,
	}
}

// Named returns a logger tagged "[prefix/name]" that writes to the same
// streams and follows the same debug switch.
func (l *DefaultLogger) Named(name string) *DefaultLogger {
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "/" + name
	}
	return &DefaultLogger{sinks: l.sinks, prefix: prefix}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.sinks.mu.Lock()
	defer l.sinks.mu.Unlock()
	return l.sinks.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.sinks.mu.Lock()
	l.sinks.debug = enabled
	l.sinks.mu.Unlock()
}

// prefixf formats one record. Continuation lines of a multiline message
// (shader diagnostics, profiler tables) are indented under the header.
func (l *DefaultLogger) prefixf(level string, format string, args ...any) string {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	msg = strings.ReplaceAll(msg, "\n", "\n\t")
	if l.prefix != "" {
		return fmt.Sprintf("[%s] %s: %s", l.prefix, level, msg)
	}
	return fmt.Sprintf("%s: %s", level, msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.sinks.out.Print(l.prefixf("DEBUG", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.sinks.out.Print(l.prefixf("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.sinks.err.Print(l.prefixf("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.sinks.err.Print(l.prefixf("ERROR", format, args...))
}

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }

func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}
