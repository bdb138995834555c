package cpp

import (
	"github.com/go-cc/preproc/internal/diag"
	"github.com/go-cc/preproc/internal/trace"
)

// Options configures a Context for one translation unit.
type Options struct {
	Defines      []string // NAME or NAME=VALUE, applied before the first token is read
	Undefines    []string
	IncludePaths []string
	SystemPaths  []string // may contain glob patterns, expanded via doublestar
	KeepComments bool     // Non-goal by default; reserved for a future pass-through mode
	LineMarkers  bool     // emit GNU-style `# N "file"` markers across includes
	Tracer       *trace.Logger
}

// Context is one preprocessor run over a translation unit: the lexer
// driving the currently-open file, the symbol table, the conditional
// stack, the diagnostic sink, and the include resolver. It corresponds to
// original_source/src/include/cpp-internal.h's struct cpp.
type Context struct {
	symtab  *SymTab
	ifs     *ifStack
	diag    *diag.Sink
	resolve *IncludeResolver
	opts    Options
	tracer  *trace.Logger

	files []*fileRecord // include stack, innermost last
	// pending holds a single re-queued token, set by requeueToken when the
	// macro expander pushes back an unused lookahead token, so the next
	// rawNext() call returns it instead of pulling a fresh one from the
	// lexer (mirrors cpp_requeue_current in original_source/src/cpp.c).
	pending    *Token
	guardCache map[string]bool // absolute path -> "fully #pragma-once / include-guarded"

	// outQueue buffers the tail of the last expandNext() result: a single
	// logical unit (a macro call's full rescanned expansion) can yield many
	// tokens at once, but nextExpanded() is one-token-at-a-time.
	outQueue []Token
	// held is the lookahead token that ended the last string-literal
	// concatenation run in Next(), carried over to the following call.
	held *Token
}

// NewContext builds a Context with builtin macros and CLI defines/undefines
// already installed, ready to preprocess a file.
func NewContext(opts Options) *Context {
	ctx := &Context{
		symtab:     NewSymTab(),
		ifs:        newIfStack(),
		diag:       diag.NewSink(),
		opts:       opts,
		tracer:     opts.Tracer,
		guardCache: make(map[string]bool),
	}
	ctx.resolve = NewIncludeResolver(opts.IncludePaths, opts.SystemPaths)
	setupBuiltinMacros(ctx.symtab)
	ctx.applyCLIDefines()
	return ctx
}

// Diagnostics returns the accumulated error list for the run.
func (ctx *Context) Diagnostics() *diag.Sink { return ctx.diag }

func (ctx *Context) applyCLIDefines() {
	for _, spec := range ctx.opts.Defines {
		name, value := splitDefineSpec(spec)
		m := &Macro{Name: name, Kind: MacroObject}
		if value != "" {
			lex := NewLexer(value, "<command-line>")
			for _, t := range lex.AllTokens() {
				if t.Kind == EOF {
					break
				}
				m.Replacement = append(m.Replacement, t)
			}
		} else {
			m.Replacement = []Token{{Kind: PPNumber, Text: "1"}}
		}
		ctx.symtab.DefineMacro(name, m)
	}
	for _, name := range ctx.opts.Undefines {
		ctx.symtab.Undef(name)
	}
}

func splitDefineSpec(spec string) (name, value string) {
	for i := 0; i < len(spec); i++ {
		if spec[i] == '=' {
			return spec[:i], spec[i+1:]
		}
	}
	return spec, ""
}

func (ctx *Context) trace(format string, args ...any) {
	if ctx.tracer != nil {
		ctx.tracer.Debugf(format, args...)
	}
}
