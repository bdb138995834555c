// Package cpp implements a standalone C11 preprocessor: lexer, directive
// processor, macro engine, symbol table and include-stack driver.
package cpp

import "github.com/go-cc/preproc/internal/diag"

// Kind identifies the lexical category of a preprocessing token, per 6.4.
type Kind int

const (
	EOF Kind = iota
	EOL         // significant only when the lexer's emit-eols mode is on
	Name
	PPNumber
	CharConst
	StringLit
	HeaderH // <file> recognized after #include
	HeaderQ // "file" recognized after #include
	Placemarker
	Other // any single byte the lexer doesn't otherwise recognize

	// Punctuators (6.4.6). The lexer's longest-prefix match order is the
	// punctuators table below, not this enumeration.
	punctuatorBegin
	LBracket
	RBracket
	LParen
	RParen
	LBrace
	RBrace
	Dot
	Arrow
	Inc
	Dec
	Amp
	Star
	Plus
	Minus
	Tilde
	Not
	Slash
	Percent
	Shl
	Shr
	Lt
	Gt
	Le
	Ge
	EqEq
	Neq
	Caret
	Pipe
	AndAnd
	OrOr
	Question
	Colon
	Semicolon
	Ellipsis
	Assign
	StarEq
	SlashEq
	PercentEq
	PlusEq
	MinusEq
	ShlEq
	ShrEq
	AndEq
	CaretEq
	PipeEq
	Comma
	Hash
	HashHash
	punctuatorEnd
)

var punctuatorNames = map[Kind]string{
	LBracket: "[", RBracket: "]", LParen: "(", RParen: ")",
	LBrace: "{", RBrace: "}", Dot: ".", Arrow: "->",
	Inc: "++", Dec: "--", Amp: "&", Star: "*",
	Plus: "+", Minus: "-", Tilde: "~", Not: "!",
	Slash: "/", Percent: "%", Shl: "<<", Shr: ">>",
	Lt: "<", Gt: ">", Le: "<=", Ge: ">=",
	EqEq: "==", Neq: "!=", Caret: "^", Pipe: "|",
	AndAnd: "&&", OrOr: "||", Question: "?", Colon: ":",
	Semicolon: ";", Ellipsis: "...", Assign: "=", StarEq: "*=",
	SlashEq: "/=", PercentEq: "%=", PlusEq: "+=", MinusEq: "-=",
	ShlEq: "<<=", ShrEq: ">>=", AndEq: "&=", CaretEq: "^=",
	PipeEq: "|=", Comma: ",", Hash: "#", HashHash: "##",
}

// punctuators lists every punctuator, longest first, so the lexer can
// match by longest prefix.
var punctuators = []struct {
	text string
	kind Kind
}{
	{"...", Ellipsis},
	{"<<=", ShlEq}, {">>=", ShrEq},
	{"->", Arrow}, {"++", Inc}, {"--", Dec}, {"<<", Shl}, {">>", Shr},
	{"<=", Le}, {">=", Ge}, {"==", EqEq}, {"!=", Neq},
	{"&&", AndAnd}, {"||", OrOr}, {"##", HashHash},
	{"*=", StarEq}, {"/=", SlashEq}, {"%=", PercentEq}, {"+=", PlusEq},
	{"-=", MinusEq}, {"&=", AndEq}, {"^=", CaretEq}, {"|=", PipeEq},
	{"[", LBracket}, {"]", RBracket}, {"(", LParen}, {")", RParen},
	{"{", LBrace}, {"}", RBrace}, {".", Dot}, {"&", Amp}, {"*", Star},
	{"+", Plus}, {"-", Minus}, {"~", Tilde}, {"!", Not}, {"/", Slash},
	{"%", Percent}, {"<", Lt}, {">", Gt}, {"^", Caret}, {"|", Pipe},
	{"?", Question}, {":", Colon}, {";", Semicolon}, {"=", Assign},
	{",", Comma}, {"#", Hash},
}

// IsPunctuator reports whether k is one of the 48 punctuator kinds (the
// C11 punctuators without digraphs).
func (k Kind) IsPunctuator() bool {
	return k > punctuatorBegin && k < punctuatorEnd
}

// String returns a human-readable name for k, used in diagnostics.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of file"
	case EOL:
		return "end of line"
	case Name:
		return "identifier"
	case PPNumber:
		return "number"
	case CharConst:
		return "character constant"
	case StringLit:
		return "string literal"
	case HeaderH:
		return "header-name"
	case HeaderQ:
		return "header-name"
	case Placemarker:
		return "placemarker"
	}
	if name, ok := punctuatorNames[k]; ok {
		return "'" + name + "'"
	}
	return "unknown token"
}

// EncPrefix is the string/char-const encoding prefix (6.4.5).
type EncPrefix int

const (
	EncNone EncPrefix = iota
	EncL
	EncU
	EncUpperU
	EncU8
)

// Location is a 1-based position within a named file.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) diagLoc() diag.Location {
	return diag.Location{File: l.File, Line: l.Line, Column: l.Column}
}

// Flags carried by a token. See spec §3 Invariants.
type Flags uint8

const (
	AtBOL Flags = 1 << iota
	AfterWhite
	NoExpand
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// Token is a single preprocessing token. Payload fields are only
// meaningful for the kinds that specify them; see the Kind documentation.
type Token struct {
	Kind  Kind
	Text  string // verbatim spelling, always populated
	Value string // payload without delimiters: name string, header-name body, or string/char-const body with escapes as written

	Symbol *Symbol // symbol slot for Name tokens; the lexer and expander never set it, so it is nil on the tokens they produce
	Enc    EncPrefix

	Start, End Location
	Flags      Flags
}

// AtBOL reports whether t begins a logical source line.
func (t Token) AtBOL() bool { return t.Flags.has(AtBOL) }

// AfterWhite reports whether t was preceded by whitespace or a comment.
func (t Token) AfterWhite() bool { return t.Flags.has(AfterWhite) }

// NoExpand reports whether t must never be macro-expanded, even if its
// symbol currently resolves to a macro.
func (t Token) NoExpand() bool { return t.Flags.has(NoExpand) }

func (t *Token) setFlag(bit Flags, v bool) {
	if v {
		t.Flags |= bit
	} else {
		t.Flags &^= bit
	}
}

// SetNoExpand marks or unmarks t as permanently non-expandable.
func (t *Token) SetNoExpand(v bool) { t.setFlag(NoExpand, v) }

// Is reports whether t has the given kind.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// IsEOFOrEOL reports whether t terminates a directive line.
func (t Token) IsEOFOrEOL() bool { return t.Kind == EOF || t.Kind == EOL }

// IsName reports whether t is an identifier-kind token.
func (t Token) IsName() bool { return t.Kind == Name }

// IsMacro reports whether t is a Name token whose current symbol
// definition is a macro (regardless of expandability). It reads t.Symbol
// only, so it is false for tokens from the lexer, which leave Symbol nil.
func (t Token) IsMacro() bool {
	return t.Kind == Name && t.Symbol != nil && t.Symbol.Current() != nil &&
		t.Symbol.Current().Kind == DefMacro
}

// Spelling returns the token's literal source text.
func (t Token) Spelling() string { return t.Text }

// NewEOF builds the EOF sentinel token at loc. Per spec, the EOF sentinel
// is reused as a guard and is never itself freed while active.
func NewEOF(loc Location) Token {
	return Token{Kind: EOF, Text: "", Start: loc, End: loc, Flags: AtBOL}
}
