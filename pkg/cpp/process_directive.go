package cpp

// readLineTokens collects every token up to (but not including) the
// line's EOL/EOF. The caller must already have the current file's lexer
// in EmitEOLs mode.
func (ctx *Context) readLineTokens(f *fileRecord) []Token {
	var toks []Token
	for {
		t := f.next()
		if t.Kind == EOL || t.Kind == EOF {
			if t.Kind == EOF {
				f.requeue(t) // let the outer loop see EOF too
			}
			break
		}
		toks = append(toks, t)
	}
	return toks
}

// parseDirective parses a directive line (the '#' itself already
// consumed) into a Directive, or returns ok=false with a diagnostic
// already recorded if the line isn't a recognized directive name (a lone
// '#' is DirEmpty, a no-op). The directive name is read before the rest
// of the line so that, for `#include`, the lexer can be switched to
// header-name mode before its argument is scanned (matching spec §4.1's
// inside-include flag: "When a #include directive-name token is
// encountered, the lexer is switched to header-name mode for the rest of
// the logical line").
func (ctx *Context) parseDirective(hashLoc Location) (Directive, bool) {
	f := ctx.curFile()
	f.lexer.EmitEOLs = true
	defer func() { f.lexer.EmitEOLs = false }()

	nameTok := f.next()
	if nameTok.Kind == EOL || nameTok.Kind == EOF {
		if nameTok.Kind == EOF {
			f.requeue(nameTok)
		}
		return Directive{Kind: DirEmpty, Loc: hashLoc}, true
	}

	if !nameTok.IsName() {
		ctx.diag.Error(hashLoc.diagLoc(), "", "invalid preprocessing directive")
		ctx.readLineTokens(f)
		return Directive{}, false
	}
	kind, known := directiveNames[nameTok.Text]
	if !known {
		ctx.diag.Error(hashLoc.diagLoc(), "", "unknown preprocessing directive %q", nameTok.Text)
		ctx.readLineTokens(f)
		return Directive{}, false
	}

	if kind == DirInclude {
		f.lexer.SetHeaderMode(true)
	}
	rest := ctx.readLineTokens(f)
	f.lexer.SetHeaderMode(false)

	d := Directive{Kind: kind, Loc: hashLoc}

	switch kind {
	case DirDefine:
		ctx.parseDefineBody(&d, rest)
	case DirUndef:
		if len(rest) == 0 || !rest[0].IsName() {
			ctx.diag.Error(hashLoc.diagLoc(), "", "#undef requires an identifier")
			return d, false
		}
		d.Identifier = rest[0].Text
	case DirIfdef, DirIfndef:
		if len(rest) == 0 || !rest[0].IsName() {
			ctx.diag.Error(hashLoc.diagLoc(), "", "%s requires an identifier", nameTok.Text)
			return d, false
		}
		d.Identifier = rest[0].Text
	case DirIf, DirElif:
		d.Expression = rest
	case DirInclude:
		ctx.parseIncludeBody(&d, rest, hashLoc)
	case DirLine:
		ctx.parseLineBody(&d, rest)
	case DirError, DirWarning:
		d.Message = TokensToString(rest)
	case DirPragma:
		d.PragmaTokens = rest
	case DirElse, DirEndif:
		// no payload
	}
	return d, true
}

func (ctx *Context) parseDefineBody(d *Directive, rest []Token) {
	if len(rest) == 0 || !rest[0].IsName() {
		ctx.diag.Error(d.Loc.diagLoc(), "", "#define requires an identifier")
		return
	}
	d.Identifier = rest[0].Text
	i := 1

	if i < len(rest) && rest[i].Kind == LParen && !rest[i].AfterWhite() {
		d.IsFuncLike = true
		i++
		for i < len(rest) && rest[i].Kind != RParen {
			switch {
			case rest[i].Kind == Ellipsis:
				d.IsVariadic = true
				i++
			case rest[i].IsName():
				d.Params = append(d.Params, rest[i].Text)
				i++
			case rest[i].Kind == Comma:
				i++
			default:
				ctx.diag.Error(rest[i].Start.diagLoc(), "", "unexpected token in macro parameter list")
				i++
			}
		}
		if i < len(rest) && rest[i].Kind == RParen {
			i++
		} else {
			ctx.diag.Error(d.Loc.diagLoc(), "", "missing ')' in macro parameter list")
		}
	}

	d.Replacement = rest[i:]
	if n := len(d.Replacement); n > 0 && (d.Replacement[0].Kind == HashHash || d.Replacement[n-1].Kind == HashHash) {
		ctx.diag.Error(d.Loc.diagLoc(), "", "'##' cannot appear at either end of a macro replacement list")
	}
}

func (ctx *Context) parseIncludeBody(d *Directive, rest []Token, loc Location) {
	if len(rest) == 1 && (rest[0].Kind == HeaderH || rest[0].Kind == HeaderQ) {
		d.HeaderName = rest[0].Value
		d.HeaderKind = rest[0].Kind
		return
	}
	// Macro-expanded form: #include FOOBAR, where FOOBAR expands to a
	// <...> or "..." sequence. Keep the raw tokens; handleInclude (via
	// resolveHeaderName) expands and re-parses them as a header-name.
	d.IncludeExpr = rest
}

func (ctx *Context) parseLineBody(d *Directive, rest []Token) {
	expanded := ctx.expandSequence(rest)
	if len(expanded) > 0 && expanded[0].Kind == PPNumber {
		d.LineNum = int(mustParsePPNumber(expanded[0].Text))
	}
	if len(expanded) > 1 && expanded[1].Kind == StringLit {
		d.FileName = expanded[1].Value
	}
}

func mustParsePPNumber(s string) int64 {
	n, err := parsePPNumber(s)
	if err != nil {
		return 0
	}
	return n
}

// dispatchDirective executes d, updating the if-stack, symbol table,
// include stack or diagnostic sink as appropriate. Conditional directives
// are always processed, even while skipping, so nesting stays correct;
// everything else is a no-op while the enclosing branch is inactive.
func (ctx *Context) dispatchDirective(d Directive) {
	if !d.Kind.alwaysProcessed() && ctx.ifs.Skipping() {
		return
	}

	switch d.Kind {
	case DirEmpty:
		// no-op
	case DirDefine:
		ctx.handleDefine(d)
	case DirUndef:
		ctx.symtab.Undef(d.Identifier)
	case DirInclude:
		ctx.handleInclude(d)
	case DirIf:
		cond, err := ctx.evalConstExpr(d.Expression, d.Loc)
		if err != nil {
			ctx.diag.Error(d.Loc.diagLoc(), "", "#if: %s", err)
			cond = false
		}
		ctx.ifs.PushIf(cond)
	case DirIfdef:
		ctx.ifs.PushIf(ctx.isDefined(d.Identifier))
	case DirIfndef:
		ctx.ifs.PushIf(!ctx.isDefined(d.Identifier))
	case DirElif:
		if ctx.ifs.AtBottom() {
			ctx.diag.Error(d.Loc.diagLoc(), "", "#elif without matching #if")
			return
		}
		cond, err := ctx.evalConstExpr(d.Expression, d.Loc)
		if err != nil {
			ctx.diag.Error(d.Loc.diagLoc(), "", "#elif: %s", err)
			cond = false
		}
		ctx.ifs.Elif(cond)
	case DirElse:
		if ctx.ifs.AtBottom() {
			ctx.diag.Error(d.Loc.diagLoc(), "", "#else without matching #if")
			return
		}
		ctx.ifs.Else()
	case DirEndif:
		if !ctx.ifs.EndIf() {
			ctx.diag.Error(d.Loc.diagLoc(), "", "#endif without matching #if")
		}
	case DirLine:
		if f := ctx.curFile(); f != nil && d.LineNum > 0 {
			f.lexer.line = d.LineNum
			if d.FileName != "" {
				f.filename = d.FileName
				f.lexer.filename = d.FileName
			}
		}
	case DirError:
		ctx.diag.Error(d.Loc.diagLoc(), "", "#error %s", d.Message)
	case DirWarning:
		ctx.diag.Warn(d.Loc.diagLoc(), "", "#warning %s", d.Message)
	case DirPragma:
		ctx.handlePragma(d)
	}
}

func (ctx *Context) isDefined(name string) bool {
	sym := ctx.symtab.Find(name)
	return sym != nil && sym.IsMacro()
}

func (ctx *Context) handleDefine(d Directive) {
	kind := MacroObject
	if d.IsFuncLike {
		kind = MacroFunction
	}
	m := &Macro{
		Name: d.Identifier, Kind: kind,
		Params: d.Params, IsVariadic: d.IsVariadic,
		Replacement: d.Replacement,
	}

	sym := ctx.symtab.Lookup(d.Identifier)
	if existing := sym.Current(); existing != nil && existing.Kind == DefMacro {
		if !existing.Macro.Redefines(m) {
			ctx.diag.Warn(d.Loc.diagLoc(), "", "%q redefined", d.Identifier)
		}
	}
	ctx.symtab.DefineMacro(d.Identifier, m)
}

func (ctx *Context) handlePragma(d Directive) {
	if len(d.PragmaTokens) == 1 && d.PragmaTokens[0].IsName() && d.PragmaTokens[0].Text == "once" {
		if f := ctx.curFile(); f != nil {
			ctx.resolve.MarkPragmaOnce(f.filename)
		}
		return
	}
	// Other pragmas pass through as recognized no-ops (Non-goal).
}

// detectIncludeGuard scans the first few tokens of newly-opened content
// for the `#ifndef GUARD` / `#define GUARD` pattern and returns GUARD.
// handleInclude only records a match in guardCache: a repeat #include of
// a guarded file is still opened and scanned, and its body is dropped by
// ordinary #ifndef processing.
func detectIncludeGuard(content string) (guard string, ok bool) {
	lex := NewLexer(content, "<guard-scan>")
	toks := make([]Token, 0, 8)
	for i := 0; i < 8; i++ {
		t := lex.NextToken()
		if t.Kind == EOF {
			break
		}
		toks = append(toks, t)
	}
	if len(toks) < 2 {
		return "", false
	}
	if toks[0].Kind != Hash {
		return "", false
	}
	if !(toks[1].IsName() && toks[1].Text == "ifndef") {
		return "", false
	}
	if len(toks) < 3 || !toks[2].IsName() {
		return "", false
	}
	if len(toks) < 6 || toks[3].Kind != Hash || !(toks[4].IsName() && toks[4].Text == "define") ||
		!toks[5].IsName() || toks[5].Text != toks[2].Text {
		return "", false
	}
	return toks[2].Text, true
}
