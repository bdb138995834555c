// Include path handling: resolving <file> and "file" header-names to
// filesystem paths, detecting circular and repeat (#pragma once) includes.
package cpp

import (
	"bufio"
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IncludeKind distinguishes <file> from "file" includes.
type IncludeKind int

const (
	IncludeQuoted IncludeKind = iota
	IncludeAngled
)

// IncludeResolver resolves header-names to files on disk, per SPEC_FULL.md
// §5.2: a quoted include searches the including file's own directory
// first, then -I paths, then system paths; an angled include skips the
// including file's directory entirely.
type IncludeResolver struct {
	UserPaths      []string
	SystemPaths    []string
	CurrentDir     string
	includeStack   []string
	includedOnce   map[string]bool
	systemDetected bool
}

// NewIncludeResolver builds a resolver from -I and -isystem arguments.
// Any -isystem entry containing glob metacharacters is expanded via
// doublestar at construction time into its concrete matches (SPEC_FULL.md
// §5.4), so e.g. `-isystem '/opt/sdks/*/usr/include'` need not be
// re-specified per SDK version.
func NewIncludeResolver(userPaths, systemPaths []string) *IncludeResolver {
	r := &IncludeResolver{
		UserPaths:    append([]string{}, userPaths...),
		includedOnce: make(map[string]bool),
	}
	r.SystemPaths = expandSystemGlobs(systemPaths)
	return r
}

func expandSystemGlobs(paths []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range paths {
		if !strings.ContainsAny(p, "*?[") || !doublestar.ValidatePattern(p) {
			add(p)
			continue
		}
		matches, err := doublestar.FilepathGlob(p)
		if err != nil || len(matches) == 0 {
			add(p) // keep the literal pattern; Resolve will just never find it
			continue
		}
		for _, m := range matches {
			if dirExists(m) {
				add(m)
			}
		}
	}
	return out
}

// SetCurrentFile records the directory of the file currently being
// scanned, used as the first quoted-include search root.
func (r *IncludeResolver) SetCurrentFile(filename string) {
	r.CurrentDir = filepath.Dir(filename)
}

// DetectSystemPaths lazily appends compiler-reported (or OS-default)
// system include directories, once per resolver lifetime.
func (r *IncludeResolver) DetectSystemPaths() {
	if r.systemDetected {
		return
	}
	r.systemDetected = true
	if paths := queryCompilerIncludePaths(); len(paths) > 0 {
		r.SystemPaths = append(r.SystemPaths, paths...)
		return
	}
	r.SystemPaths = append(r.SystemPaths, getDefaultSystemPaths()...)
}

// Resolve finds filename on disk per kind's search order, returning an
// absolute path.
func (r *IncludeResolver) Resolve(filename string, kind IncludeKind) (string, error) {
	r.DetectSystemPaths()

	var searchPaths []string
	if kind == IncludeQuoted && r.CurrentDir != "" {
		searchPaths = append(searchPaths, r.CurrentDir)
	}
	searchPaths = append(searchPaths, r.UserPaths...)
	searchPaths = append(searchPaths, r.SystemPaths...)

	for _, dir := range searchPaths {
		full := filepath.Join(dir, filename)
		if _, err := os.Stat(full); err == nil {
			abs, err := filepath.Abs(full)
			if err != nil {
				abs = full
			}
			return abs, nil
		}
	}
	return "", &IncludeError{Filename: filename, Kind: kind}
}

// PushFile records path as being scanned, detecting circular includes.
func (r *IncludeResolver) PushFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, f := range r.includeStack {
		if f == abs {
			return &CircularIncludeError{Path: abs, Stack: r.includeStack}
		}
	}
	r.includeStack = append(r.includeStack, abs)
	return nil
}

// PopFile removes the innermost file from the include stack.
func (r *IncludeResolver) PopFile() {
	if len(r.includeStack) > 0 {
		r.includeStack = r.includeStack[:len(r.includeStack)-1]
	}
}

// IncludeStack returns the current include stack, outermost first.
func (r *IncludeResolver) IncludeStack() []string {
	return r.includeStack
}

// MarkPragmaOnce records path as carrying #pragma once.
func (r *IncludeResolver) MarkPragmaOnce(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	r.includedOnce[abs] = true
}

// IsAlreadyIncluded reports whether path carries #pragma once and has
// already been scanned once this run.
func (r *IncludeResolver) IsAlreadyIncluded(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return r.includedOnce[abs]
}

// IncludeDepth reports the current nesting depth.
func (r *IncludeResolver) IncludeDepth() int {
	return len(r.includeStack)
}

// MaxIncludeDepth bounds nesting to catch include cycles the path-based
// circular check might miss (e.g. via symlinked trees).
const MaxIncludeDepth = 200

// IncludeError reports a header-name that could not be resolved.
type IncludeError struct {
	Filename string
	Kind     IncludeKind
}

func (e *IncludeError) Error() string {
	kind := "quoted"
	if e.Kind == IncludeAngled {
		kind = "angled"
	}
	return "include file not found: " + e.Filename + " (" + kind + ")"
}

// CircularIncludeError reports a file that (transitively) includes itself.
type CircularIncludeError struct {
	Path  string
	Stack []string
}

func (e *CircularIncludeError) Error() string {
	var b strings.Builder
	b.WriteString("circular include detected: ")
	b.WriteString(e.Path)
	b.WriteString("\ninclude stack:\n")
	for i, f := range e.Stack {
		for j := 0; j < i; j++ {
			b.WriteString("  ")
		}
		b.WriteString("  ")
		b.WriteString(filepath.Base(f))
		b.WriteString("\n")
	}
	return b.String()
}

func queryCompilerIncludePaths() []string {
	for _, compiler := range []string{"cc", "gcc", "clang"} {
		if path, err := exec.LookPath(compiler); err == nil {
			if paths := queryCompiler(path); len(paths) > 0 {
				return paths
			}
		}
	}
	return nil
}

func queryCompiler(compiler string) []string {
	cmd := exec.Command(compiler, "-v", "-E", "-x", "c", "-")
	cmd.Stdin = strings.NewReader("")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	_ = cmd.Run()
	return parseCompilerOutput(stderr.String())
}

func parseCompilerOutput(output string) []string {
	var paths []string
	inList := false
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, "#include <...> search starts here:"),
			strings.Contains(line, `#include "..." search starts here:`):
			inList = true
			continue
		case strings.Contains(line, "End of search list"):
			inList = false
			continue
		}
		if !inList {
			continue
		}
		path := strings.TrimSpace(line)
		if strings.HasSuffix(path, " (framework directory)") {
			continue
		}
		if path != "" && dirExists(path) {
			paths = append(paths, path)
		}
	}
	return paths
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func getDefaultSystemPaths() []string {
	var paths []string
	switch runtime.GOOS {
	case "darwin":
		for _, p := range []string{
			"/Library/Developer/CommandLineTools/SDKs/MacOSX.sdk/usr/include",
			"/Applications/Xcode.app/Contents/Developer/Platforms/MacOSX.platform/Developer/SDKs/MacOSX.sdk/usr/include",
			"/usr/local/include",
		} {
			if dirExists(p) {
				paths = append(paths, p)
			}
		}
	case "linux":
		for _, p := range []string{"/usr/include", "/usr/local/include"} {
			if dirExists(p) {
				paths = append(paths, p)
			}
		}
		paths = append(paths, findGCCIncludePaths()...)
	default:
		for _, p := range []string{"/usr/include", "/usr/local/include"} {
			if dirExists(p) {
				paths = append(paths, p)
			}
		}
	}
	return paths
}

func findGCCIncludePaths() []string {
	var paths []string
	gccBase := "/usr/lib/gcc"
	if !dirExists(gccBase) {
		return paths
	}
	_ = filepath.Walk(gccBase, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() && info.Name() == "include" {
			paths = append(paths, path)
		}
		return nil
	})
	return paths
}
