// Package diag implements the preprocessor's diagnostic sink: an
// append-only list of leveled messages with enough source context to
// print the classic "file:line: level: message" + source-line + caret
// report.
package diag

import (
	"fmt"
	"io"
	"strings"
)

// Level is the severity of a diagnostic.
type Level int

const (
	Notice Level = iota
	Warning
	Error
	Fatal
)

// String returns the human-readable name used in reports.
func (l Level) String() string {
	switch l {
	case Notice:
		return "notice"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal error"
	default:
		return "unknown"
	}
}

// Location identifies a point in a source file.
type Location struct {
	File   string
	Line   int
	Column int
}

// Diagnostic is a single recorded error-list entry.
type Diagnostic struct {
	Level   Level
	File    string
	Message string
	Context string // copy of the offending source line, may be empty
	Loc     Location
}

// Sink accumulates diagnostics for a translation unit. It never aborts the
// token stream itself; callers decide what to do with Fatal entries.
type Sink struct {
	entries     []Diagnostic
	countByKind [4]int
}

// NewSink creates an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add records a diagnostic.
func (s *Sink) Add(level Level, loc Location, context, format string, args ...any) {
	d := Diagnostic{
		Level:   level,
		File:    loc.File,
		Message: fmt.Sprintf(format, args...),
		Context: context,
		Loc:     loc,
	}
	s.entries = append(s.entries, d)
	s.countByKind[level]++
}

// Notice records a Notice-level diagnostic.
func (s *Sink) Notice(loc Location, context, format string, args ...any) {
	s.Add(Notice, loc, context, format, args...)
}

// Warn records a Warning-level diagnostic.
func (s *Sink) Warn(loc Location, context, format string, args ...any) {
	s.Add(Warning, loc, context, format, args...)
}

// Error records an Error-level diagnostic.
func (s *Sink) Error(loc Location, context, format string, args ...any) {
	s.Add(Error, loc, context, format, args...)
}

// Fatal records a Fatal-level diagnostic. The caller is responsible for
// terminating the stream; Sink itself never panics or exits.
func (s *Sink) Fatal(loc Location, context, format string, args ...any) {
	s.Add(Fatal, loc, context, format, args...)
}

// Entries returns all recorded diagnostics in insertion order.
func (s *Sink) Entries() []Diagnostic {
	return s.entries
}

// Count returns the number of diagnostics recorded at the given level.
func (s *Sink) Count(level Level) int {
	if level < 0 || int(level) >= len(s.countByKind) {
		return 0
	}
	return s.countByKind[level]
}

// HasErrors reports whether any Error- or Fatal-level diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	return s.Count(Error) > 0 || s.Count(Fatal) > 0
}

// Dump writes every diagnostic to w in the canonical three-line format:
//
//	<filename>:<line>: <level>: <message>
//	<source line>
//	    ^
//
// The first line is always written; the source line and caret only when
// the diagnostic's Context is non-empty.
func (s *Sink) Dump(w io.Writer) {
	for _, d := range s.entries {
		fmt.Fprintf(w, "%s:%d: %s: %s\n", d.File, d.Loc.Line, d.Level, d.Message)
		if d.Context != "" {
			fmt.Fprintln(w, d.Context)
			fmt.Fprintln(w, caretLine(d.Context, d.Loc.Column))
		}
	}
}

// caretLine builds the "    ^" marker line, preserving tabs from src so
// the caret lines up with the offending column under any tab width.
func caretLine(src string, column int) string {
	var b strings.Builder
	for i := 0; i < column-1 && i < len(src); i++ {
		if src[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	for i := len(src); i < column-1; i++ {
		b.WriteByte(' ')
	}
	b.WriteByte('^')
	return b.String()
}
