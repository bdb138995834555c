package cpp

import "testing"

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	lex := NewLexer(src, "test.c")
	toks := lex.AllTokens()
	return toks[:len(toks)-1] // drop trailing EOF for assertions
}

func TestLexerBasicPunctuatorsAndIdentifiers(t *testing.T) {
	toks := lexAll(t, "int x = 1 + 2;")
	want := []Kind{Name, Name, Assign, PPNumber, Plus, PPNumber, Semicolon}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexerLongestPunctuatorMatch(t *testing.T) {
	toks := lexAll(t, "a <<= b")
	if len(toks) != 3 || toks[1].Kind != ShlEq {
		t.Fatalf("expected a single ShlEq token, got %+v", toks)
	}
}

func TestLexerCommentsBecomeWhitespaceNotTokens(t *testing.T) {
	toks := lexAll(t, "a /* comment */ b // trailing\nc")
	if len(toks) != 3 {
		t.Fatalf("expected 3 name tokens, got %d: %+v", len(toks), toks)
	}
	if !toks[1].AfterWhite() || !toks[2].AfterWhite() {
		t.Error("tokens following a comment must carry AfterWhite")
	}
}

func TestLexerLineSplice(t *testing.T) {
	toks := lexAll(t, "ab\\\ncd")
	if len(toks) != 1 || toks[0].Text != "abcd" {
		t.Fatalf("backslash-newline should splice into one identifier, got %+v", toks)
	}
}

func TestLexerStringAndCharLiterals(t *testing.T) {
	toks := lexAll(t, `"hi\"there" 'a' u8"x" L'y'`)
	if len(toks) != 4 {
		t.Fatalf("expected 4 literal tokens, got %+v", toks)
	}
	if toks[0].Kind != StringLit || toks[0].Value != `hi\"there` {
		t.Errorf("string literal: %+v", toks[0])
	}
	if toks[1].Kind != CharConst || toks[1].Value != "a" {
		t.Errorf("char const: %+v", toks[1])
	}
	if toks[2].Kind != StringLit || toks[2].Enc != EncU8 {
		t.Errorf("u8 string: %+v", toks[2])
	}
	if toks[3].Kind != CharConst || toks[3].Enc != EncL {
		t.Errorf("L char: %+v", toks[3])
	}
}

func TestLexerPPNumberAcceptsExponentSign(t *testing.T) {
	toks := lexAll(t, "1.5e+10f")
	if len(toks) != 1 || toks[0].Kind != PPNumber || toks[0].Text != "1.5e+10f" {
		t.Fatalf("expected one pp-number spanning the exponent, got %+v", toks)
	}
}

func TestLexerEmitEOLsToggle(t *testing.T) {
	lex := NewLexer("a\nb", "test.c")
	lex.EmitEOLs = true
	first := lex.NextToken()
	second := lex.NextToken()
	if first.Kind != Name || second.Kind != EOL {
		t.Fatalf("with EmitEOLs set, expected Name then EOL, got %v, %v", first.Kind, second.Kind)
	}
}

func TestScanHeaderNameAngledAndQuoted(t *testing.T) {
	lex := NewLexer(`<foo/bar.h>`, "test.c")
	tok := lex.ScanHeaderName()
	if tok.Kind != HeaderH || tok.Value != "foo/bar.h" {
		t.Fatalf("angled header-name: %+v", tok)
	}

	lex2 := NewLexer(`"foo.h"`, "test.c")
	tok2 := lex2.ScanHeaderName()
	if tok2.Kind != HeaderQ || tok2.Value != "foo.h" {
		t.Fatalf("quoted header-name: %+v", tok2)
	}
}

func TestTokensToStringPreservesSingleSpaces(t *testing.T) {
	toks := lexAll(t, "a   +    b")
	got := TokensToString(toks)
	want := "a + b"
	if got != want {
		t.Errorf("TokensToString = %q, want %q", got, want)
	}
}

func TestIsIdentifier(t *testing.T) {
	cases := map[string]bool{
		"foo":  true,
		"_bar": true,
		"a1":   true,
		"1a":   false,
		"":     false,
		"a-b":  false,
	}
	for s, want := range cases {
		if got := IsIdentifier(s); got != want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", s, got, want)
		}
	}
}
