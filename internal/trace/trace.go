// Package trace provides leveled operational logging for the preprocessor
// driver (include-stack pushes/pops, macro invocations entered/left under
// --verbose). It is independent of the core's diagnostic sink
// (internal/diag): trace is for a human watching stderr scroll by, diag is
// the structured, machine-inspectable error list.
package trace

import (
	"io"
	"log"

	"github.com/hashicorp/logutils"
)

// Logger filters a standard log.Logger by level, in the style of
// hashicorp/logutils: https://github.com/hashicorp/logutils.
type Logger struct {
	filter *logutils.LevelFilter
	std    *log.Logger
}

// New creates a Logger writing to w. When verbose is false, only WARN and
// ERROR records pass the filter; DEBUG and INFO are for --verbose runs.
func New(w io.Writer, verbose bool) *Logger {
	minLevel := logutils.LogLevel("WARN")
	if verbose {
		minLevel = logutils.LogLevel("DEBUG")
	}
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"},
		MinLevel: minLevel,
		Writer:   w,
	}
	return &Logger{
		filter: filter,
		std:    log.New(filter, "", 0),
	}
}

// Debugf logs a trace-level message (include pushes/pops, macro entry/exit).
func (l *Logger) Debugf(format string, args ...any) {
	l.std.Printf("[DEBUG] "+format, args...)
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.std.Printf("[INFO] "+format, args...)
}

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, args ...any) {
	l.std.Printf("[WARN] "+format, args...)
}

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, args ...any) {
	l.std.Printf("[ERROR] "+format, args...)
}
