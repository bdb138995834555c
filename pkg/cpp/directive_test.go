package cpp

import "testing"

func parseOneDirective(t *testing.T, line string) (Directive, *Context) {
	t.Helper()
	ctx := NewContext(Options{})
	ctx.pushFile("t.c", line+"\n")
	tok := ctx.curFile().next() // consume the leading '#'
	if tok.Kind != Hash {
		t.Fatalf("expected line to start with '#', got %v", tok.Kind)
	}
	d, ok := ctx.parseDirective(tok.Start)
	if !ok {
		t.Fatalf("parseDirective failed for %q", line)
	}
	return d, ctx
}

func TestParseDefineObjectLike(t *testing.T) {
	d, _ := parseOneDirective(t, "#define FOO 1 + 2")
	if d.Kind != DirDefine || d.Identifier != "FOO" || d.IsFuncLike {
		t.Fatalf("got %+v", d)
	}
	if len(d.Replacement) != 3 {
		t.Fatalf("replacement = %+v", d.Replacement)
	}
}

func TestParseDefineFunctionLikeWithVariadic(t *testing.T) {
	d, _ := parseOneDirective(t, "#define LOG(fmt, ...) fmt")
	if !d.IsFuncLike || !d.IsVariadic {
		t.Fatalf("got %+v", d)
	}
	if len(d.Params) != 1 || d.Params[0] != "fmt" {
		t.Fatalf("params = %+v", d.Params)
	}
}

func TestParseDefineFunctionLikeRequiresNoSpaceBeforeParen(t *testing.T) {
	// a space before '(' means the '(' is part of the replacement list, not
	// a parameter list -- this makes FOO an object-like macro.
	d, _ := parseOneDirective(t, "#define FOO (x) x")
	if d.IsFuncLike {
		t.Fatalf("expected object-like macro, got %+v", d)
	}
}

func TestParseUndef(t *testing.T) {
	d, _ := parseOneDirective(t, "#undef FOO")
	if d.Kind != DirUndef || d.Identifier != "FOO" {
		t.Fatalf("got %+v", d)
	}
}

func TestParseIncludeQuoted(t *testing.T) {
	d, _ := parseOneDirective(t, `#include "foo.h"`)
	if d.Kind != DirInclude || d.HeaderName != "foo.h" || d.HeaderKind != HeaderQ {
		t.Fatalf("got %+v", d)
	}
}

func TestParseIncludeAngled(t *testing.T) {
	d, _ := parseOneDirective(t, `#include <foo.h>`)
	if d.Kind != DirInclude || d.HeaderName != "foo.h" || d.HeaderKind != HeaderH {
		t.Fatalf("got %+v", d)
	}
}

func TestParseIncludeAngledPathWithDoubleSlashIsNotACommentInHeaderMode(t *testing.T) {
	// Without header-name mode, the lexer's ordinary comment scanning
	// would treat "//" as a line comment and swallow the rest of the
	// directive line, including the closing '>'.
	d, _ := parseOneDirective(t, `#include <sys//stat.h>`)
	if d.Kind != DirInclude || d.HeaderName != "sys//stat.h" || d.HeaderKind != HeaderH {
		t.Fatalf("got %+v", d)
	}
}

func TestParseIncludeQuotedPathWithApostropheIsNotACharConstInHeaderMode(t *testing.T) {
	// Without header-name mode, the lexer's ordinary string/char scanning
	// would misparse an embedded "'" as the start of a character constant.
	d, _ := parseOneDirective(t, `#include "foo's/bar.h"`)
	if d.Kind != DirInclude || d.HeaderName != "foo's/bar.h" || d.HeaderKind != HeaderQ {
		t.Fatalf("got %+v", d)
	}
}

func TestParseErrorMessage(t *testing.T) {
	d, _ := parseOneDirective(t, "#error something broke")
	if d.Kind != DirError || d.Message != "something broke" {
		t.Fatalf("got %+v", d)
	}
}

func TestParseEmptyDirective(t *testing.T) {
	d, _ := parseOneDirective(t, "#")
	if d.Kind != DirEmpty {
		t.Fatalf("got %+v", d)
	}
}

func TestDetectIncludeGuard(t *testing.T) {
	guard, ok := detectIncludeGuard("#ifndef FOO_H\n#define FOO_H\n")
	if !ok || guard != "FOO_H" {
		t.Fatalf("detectIncludeGuard = %q, %v", guard, ok)
	}
	if _, ok := detectIncludeGuard("int x;\n"); ok {
		t.Error("expected no guard detected for a plain declaration")
	}
}

func TestDirectiveKindAlwaysProcessed(t *testing.T) {
	for _, k := range []DirectiveKind{DirIf, DirIfdef, DirIfndef, DirElif, DirElse, DirEndif} {
		if !k.alwaysProcessed() {
			t.Errorf("%v should always be processed even while skipping", k)
		}
	}
	if DirDefine.alwaysProcessed() {
		t.Error("DirDefine must not be processed while skipping")
	}
}
