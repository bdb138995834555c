package cpp

import (
	"fmt"
	"strings"
)

// tokenSource is a pull stream of raw tokens with one-token pushback, used
// to let macro rescanning seamlessly borrow tokens from whatever comes
// after the text being expanded — exactly as 6.10.3.4p1 requires
// ("rescanned... together with all the subsequent preprocessing tokens of
// the source file"), without the whole translation unit needing to live
// in one slice.
type tokenSource interface {
	next() Token
	pushback(Token)
}

// fileSource is the top-level source: the context's live include stack,
// via rawNext/requeueToken.
type fileSource struct{ ctx *Context }

func (s fileSource) next() Token        { return s.ctx.rawNext() }
func (s fileSource) pushback(t Token)   { s.ctx.requeueToken(t) }

// chainSource re-scans a bounded local queue (a macro's replacement list,
// or an expression's token list), falling through to parent once the
// local queue runs dry — so a function-like macro whose name is the last
// token of a replacement list still finds its '(' in whatever follows.
// A pushback lands back on whichever side it logically came from: the
// local queue if the token was read from it, the parent otherwise.
type chainSource struct {
	queue  []Token
	parent tokenSource

	// lastLocal records whether the most recent next() came from queue.
	lastLocal bool
}

func (c *chainSource) next() Token {
	if len(c.queue) > 0 {
		t := c.queue[0]
		c.queue = c.queue[1:]
		c.lastLocal = true
		return t
	}
	c.lastLocal = false
	return c.parent.next()
}

func (c *chainSource) pushback(t Token) {
	if c.lastLocal || len(c.queue) > 0 {
		c.queue = append([]Token{t}, c.queue...)
		return
	}
	c.parent.pushback(t)
}

// nullSource never yields anything beyond EOF and discards pushback; used
// to bound expansion of a #if expression or a macro argument to exactly
// its own tokens; doing so is no defect because C11 never actually pulls
// an expression or an argument's own expansion past its own boundary.
type nullSource struct{}

func (nullSource) next() Token     { return Token{Kind: EOF} }
func (nullSource) pushback(Token)  {}

// expandSequence fully macro-expands a bounded token slice in isolation
// (a #if expression, an argument, a CLI -D value) — no lookahead past its
// own end.
func (ctx *Context) expandSequence(tokens []Token) []Token {
	src := &chainSource{queue: append([]Token{}, tokens...), parent: nullSource{}}
	var out []Token
	for len(src.queue) > 0 {
		out = append(out, ctx.expandNext(src)...)
	}
	return out
}

// expandNext reads exactly one lexical unit from src and returns its
// fully rescanned expansion: a single passthrough token, the painted
// (permanently non-expanding) form of a self-referencing macro name, or
// the recursively-expanded replacement of a macro call.
func (ctx *Context) expandNext(src tokenSource) []Token {
	t := src.next()
	if t.Kind == EOF || !t.IsName() || t.NoExpand() {
		return []Token{t}
	}

	sym := ctx.symtab.Find(t.Text)
	if sym == nil {
		return []Token{t}
	}
	def := sym.Current()
	if def == nil || def.Kind != DefMacro {
		return []Token{t}
	}
	m := def.Macro

	if m.IsExpanding {
		painted := t
		painted.SetNoExpand(true)
		return []Token{painted}
	}

	if m.Builtin != nil {
		return m.Builtin(t.Start)
	}

	if !m.IsFunctionLike() {
		return ctx.rescan(m, cloneAt(m.Replacement, t.Start), src)
	}

	next := src.next()
	if next.Kind != LParen {
		src.pushback(next)
		return []Token{t}
	}

	args, err := ctx.gatherArgs(src, m)
	if err != nil {
		ctx.diag.Error(t.Start.diagLoc(), "", "%s", err.Error())
		return []Token{t}
	}

	replacement := ctx.substituteArgs(m, args, t.Start)
	return ctx.rescan(m, replacement, src)
}

// rescan re-expands a macro's (already argument-substituted and pasted)
// replacement list, chained onto src so a trailing function-like name can
// still find its '(' past the replacement's own end, and guards against
// the macro re-expanding itself per 6.10.3.4p2 via IsExpanding.
func (ctx *Context) rescan(m *Macro, replacement []Token, src tokenSource) []Token {
	replacement = ctx.pasteAll(replacement)
	chained := &chainSource{queue: replacement, parent: src}

	ctx.trace("entering macro %s", m.Name)
	m.IsExpanding = true
	var out []Token
	for len(chained.queue) > 0 {
		out = append(out, ctx.expandNext(chained)...)
	}
	m.IsExpanding = false
	ctx.trace("leaving macro %s", m.Name)
	return out
}

// gatherArgs reads a function-like macro call's parenthesized argument
// list from src (the opening '(' already consumed), splitting on
// depth-1 commas. Args flowing through a tokenSource rather than a fixed
// slice means an argument list may legitimately span into whatever
// follows (e.g. into the next #include'd file), matching the standard's
// "rest of the source file" rescanning model instead of an artificial
// single-file boundary.
func (ctx *Context) gatherArgs(src tokenSource, m *Macro) ([][]Token, error) {
	depth := 1
	var args [][]Token
	var cur []Token
	for {
		t := src.next()
		if t.Kind == EOF {
			return nil, errUnterminatedArgs
		}
		switch t.Kind {
		case LParen:
			depth++
			cur = append(cur, t)
		case RParen:
			depth--
			if depth == 0 {
				if len(cur) > 0 || len(args) > 0 || m.MinArgs() > 0 {
					args = append(args, cur)
				}
				return args, validateArgCount(m, args)
			}
			cur = append(cur, t)
		case Comma:
			if depth == 1 && len(args) < len(m.Params) || (depth == 1 && !m.IsVariadic) {
				args = append(args, cur)
				cur = nil
			} else {
				cur = append(cur, t)
			}
		default:
			cur = append(cur, t)
		}
	}
}

func cloneAt(src []Token, loc Location) []Token {
	out := make([]Token, len(src))
	for i, t := range src {
		t.Start, t.End = loc, loc
		out[i] = t
	}
	return out
}

var errUnterminatedArgs = fmt.Errorf("unterminated macro argument list")

func validateArgCount(m *Macro, args [][]Token) error {
	if m.IsVariadic {
		if len(args) < len(m.Params) {
			return fmt.Errorf("macro %q requires at least %d arguments, got %d", m.Name, len(m.Params), len(args))
		}
		return nil
	}
	if len(args) != len(m.Params) {
		return fmt.Errorf("macro %q requires %d arguments, got %d", m.Name, len(m.Params), len(args))
	}
	return nil
}

// substituteArgs walks m's replacement list, handling # stringification
// and parameter substitution (macro-expanding an argument separately at
// each of its uses, except where it's an operand of # or ## per 6.10.3.1).
// The first token substituted for a parameter takes the parameter's own
// AfterWhite flag, so spacing follows the replacement list.
func (ctx *Context) substituteArgs(m *Macro, rawArgs [][]Token, loc Location) []Token {
	argOf := func(idx int) []Token {
		if idx < 0 || idx >= len(rawArgs) {
			return nil
		}
		return rawArgs[idx]
	}
	expandedArg := func(idx int) []Token {
		if idx < 0 || idx >= len(rawArgs) {
			return nil
		}
		return ctx.expandSequence(rawArgs[idx])
	}
	var out []Token
	repl := m.Replacement
	for i := 0; i < len(repl); i++ {
		t := repl[i]

		if t.Kind == Hash && i+1 < len(repl) && repl[i+1].IsName() {
			idx := m.ParamIndex(repl[i+1].Text)
			if idx >= 0 {
				var tokens []Token
				if idx == len(m.Params) && m.IsVariadic {
					tokens = joinVAArgs(rawArgs, len(m.Params))
				} else {
					tokens = argOf(idx)
				}
				out = append(out, stringify(tokens, loc))
				i++
				continue
			}
		}

		if t.IsName() {
			idx := m.ParamIndex(t.Text)
			if idx >= 0 {
				adjacentPaste := (i > 0 && repl[i-1].Kind == HashHash) ||
					(i+1 < len(repl) && repl[i+1].Kind == HashHash)
				var tokens []Token
				switch {
				case idx == len(m.Params) && m.IsVariadic:
					if adjacentPaste {
						tokens = joinVAArgs(rawArgs, len(m.Params))
					} else {
						tokens = ctx.expandSequence(joinVAArgs(rawArgs, len(m.Params)))
					}
				case adjacentPaste:
					tokens = argOf(idx)
				default:
					tokens = expandedArg(idx)
				}
				if len(tokens) == 0 {
					out = append(out, Token{Kind: Placemarker, Start: loc, End: loc})
				} else {
					sub := cloneAt(tokens, loc)
					sub[0].setFlag(AfterWhite, t.AfterWhite())
					out = append(out, sub...)
				}
				continue
			}
		}

		cp := t
		cp.Start, cp.End = loc, loc
		out = append(out, cp)
	}
	return out
}

func joinVAArgs(args [][]Token, fixedParams int) []Token {
	if len(args) <= fixedParams {
		return nil
	}
	var out []Token
	for i, a := range args[fixedParams:] {
		if i > 0 {
			comma := Token{Kind: Comma, Text: ","}
			out = append(out, comma)
		}
		out = append(out, a...)
	}
	return out
}

// stringify implements the # operator (6.10.3.2): whitespace between
// tokens of the argument collapses to one space, leading/trailing
// whitespace is dropped, and '"'/'\' inside string and char-const
// spellings are backslash-escaped.
func stringify(tokens []Token, loc Location) Token {
	var b strings.Builder
	b.WriteByte('"')
	for i, t := range tokens {
		if i > 0 && t.AfterWhite() {
			b.WriteByte(' ')
		}
		if t.Kind == StringLit || t.Kind == CharConst {
			for _, c := range t.Text {
				if c == '"' || c == '\\' {
					b.WriteByte('\\')
				}
				b.WriteRune(c)
			}
		} else {
			b.WriteString(t.Text)
		}
	}
	b.WriteByte('"')
	text := b.String()
	return Token{Kind: StringLit, Text: text, Value: text[1 : len(text)-1], Start: loc, End: loc}
}

// pasteAll resolves every ## operator in tokens (6.10.3.3), re-lexing the
// concatenation of each pasted pair's spellings. A paste that doesn't
// yield exactly one token keeps whatever the re-lex produced and emits a
// single diagnostic, rather than discarding it (SPEC_FULL.md §5.3).
func (ctx *Context) pasteAll(tokens []Token) []Token {
	var out []Token
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.Kind != HashHash {
			out = append(out, t)
			continue
		}
		if len(out) == 0 || i+1 >= len(tokens) {
			continue // malformed, already diagnosed at #define time
		}
		left := out[len(out)-1]
		right := tokens[i+1]
		out = out[:len(out)-1]
		out = append(out, ctx.paste(left, right)...)
		i++ // consume right; loop's i++ advances past it
	}

	var filtered []Token
	for _, t := range out {
		if t.Kind != Placemarker {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// paste concatenates the spelling of left and right and re-lexes the
// result, per original_source/src/cpp-macros.c's paste().
func (ctx *Context) paste(left, right Token) []Token {
	if left.Kind == Placemarker {
		return []Token{right}
	}
	if right.Kind == Placemarker {
		return []Token{left}
	}

	text := left.Text + right.Text
	toks := relex(text, left.Start)
	if len(toks) != 1 {
		ctx.diag.Error(left.Start.diagLoc(), "", "pasting %q and %q does not give a valid preprocessing token", left.Text, right.Text)
	}
	if len(toks) == 0 {
		return []Token{{Kind: Placemarker, Start: left.Start, End: left.Start}}
	}
	return toks
}

// relex tokenizes a synthetic fragment of text (the result of ##), used
// only for pasted operands which are never directive lines.
func relex(text string, loc Location) []Token {
	lex := NewLexer(text, loc.File)
	var out []Token
	for {
		t := lex.NextToken()
		if t.Kind == EOF {
			break
		}
		t.Start, t.End = loc, loc
		out = append(out, t)
	}
	return out
}

