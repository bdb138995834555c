package cpp

// DefKind distinguishes what a symbol is currently bound to. A symbol can
// be redefined within a nested scope (e.g. a macro parameter shadowing a
// file-scope macro for the duration of its body's expansion); SymTab keeps
// the full stack so leaving a scope restores whatever was shadowed.
type DefKind int

const (
	DefDirective DefKind = iota
	DefMacro
	DefMacroArg
	DefKeyword
	DefUndef
)

// Def is one binding of a symbol, pushed when the symbol is defined and
// popped when its owning scope ends. A later definition of the same
// symbol is pushed on top and shadows it rather than replacing it (C11
// 6.10.3p2's redefinition rules are checked by the caller before pushing).
type Def struct {
	Symbol *Symbol
	Kind   DefKind

	Directive DirectiveKind // valid when Kind == DefDirective
	Macro     *Macro        // valid when Kind == DefMacro
	MacroArg  *MacroArg     // valid when Kind == DefMacroArg
}

// Symbol is an interned identifier. It owns a stack of Defs; Current
// returns the top, i.e. the definition presently visible.
type Symbol struct {
	Name  string
	stack []*Def
}

// Current returns the innermost visible definition of sym, or nil if sym
// has no definition at all. After #undef it returns the DefUndef binding
// (DefUndef is still a definition, just one that says "not a macro here").
func (s *Symbol) Current() *Def {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// IsMacro reports whether sym currently names a macro.
func (s *Symbol) IsMacro() bool {
	d := s.Current()
	return d != nil && d.Kind == DefMacro
}

func (s *Symbol) push(d *Def) {
	s.stack = append(s.stack, d)
}

func (s *Symbol) pop() {
	s.stack = s.stack[:len(s.stack)-1]
}

// scope records, in push order, every Def introduced while it was the
// innermost scope, so SymTab.EndScope can pop them LIFO.
type scope struct {
	defs []*Def
}

// SymTab is the preprocessor's symbol table: a flat name->Symbol map plus
// a stack of lexical scopes. File scope is the permanent bottom frame and
// is never popped (mirrors original_source/src/include/symbol.h's
// symtab.file_scope, which the real scope stack always bottoms out on).
type SymTab struct {
	symbols   map[string]*Symbol
	scopes    []*scope
	fileScope *scope
}

// NewSymTab creates a symbol table with just the file scope active.
func NewSymTab() *SymTab {
	fs := &scope{}
	return &SymTab{
		symbols:   make(map[string]*Symbol),
		scopes:    []*scope{fs},
		fileScope: fs,
	}
}

// Lookup returns the interned Symbol for name, creating it (with no
// definitions yet) if this is the first reference.
func (t *SymTab) Lookup(name string) *Symbol {
	if sym, ok := t.symbols[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name}
	t.symbols[name] = sym
	return sym
}

// Find returns the interned Symbol for name, or nil if name was never
// looked up or defined.
func (t *SymTab) Find(name string) *Symbol {
	return t.symbols[name]
}

// BeginScope pushes a new, empty scope, making it the innermost one.
func (t *SymTab) BeginScope() {
	t.scopes = append(t.scopes, &scope{})
}

// EndScope pops the innermost scope, undoing every definition pushed
// while it was active, in reverse order. It is an error to end the file
// scope; callers must not unbalance Begin/EndScope pairs.
func (t *SymTab) EndScope() {
	if len(t.scopes) <= 1 {
		return // file scope is never popped
	}
	cur := t.scopes[len(t.scopes)-1]
	for i := len(cur.defs) - 1; i >= 0; i-- {
		cur.defs[i].Symbol.pop()
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Define pushes a new Def for sym onto both the symbol's own def stack and
// the innermost scope's tracking list, so EndScope can undo it later.
func (t *SymTab) Define(sym *Symbol, d *Def) {
	d.Symbol = sym
	sym.push(d)
	cur := t.scopes[len(t.scopes)-1]
	cur.defs = append(cur.defs, d)
}

// DefineMacro is a convenience wrapper binding name to m in the current
// scope, returning the Def for callers that need to inspect it.
func (t *SymTab) DefineMacro(name string, m *Macro) *Def {
	sym := t.Lookup(name)
	d := &Def{Kind: DefMacro, Macro: m}
	t.Define(sym, d)
	return d
}

// Undef pushes a DefUndef binding, shadowing whatever macro definition was
// visible (mirrors C11 6.10.3.5: #undef on a never-defined name is valid
// and a no-op beyond this shadow).
func (t *SymTab) Undef(name string) {
	sym := t.Lookup(name)
	t.Define(sym, &Def{Kind: DefUndef})
}

// Depth reports the number of currently active scopes, file scope
// included (so a fresh SymTab reports 1).
func (t *SymTab) Depth() int {
	return len(t.scopes)
}
