package cpp

// DirectiveKind enumerates the preprocessing directives recognized after a
// bol '#', mirroring original_source/src/include/cpp-internal.h's
// enum cpp_directive.
type DirectiveKind int

const (
	DirDefine DirectiveKind = iota
	DirUndef
	DirInclude
	DirIf
	DirIfdef
	DirIfndef
	DirElif
	DirElse
	DirEndif
	DirLine
	DirError
	DirWarning
	DirPragma
	DirEmpty // a lone '#' on its own line, a no-op per 6.10.7
)

// directiveNames mirrors original_source/src/cpp.c's directives[] table.
var directiveNames = map[string]DirectiveKind{
	"define":  DirDefine,
	"undef":   DirUndef,
	"include": DirInclude,
	"if":      DirIf,
	"ifdef":   DirIfdef,
	"ifndef":  DirIfndef,
	"elif":    DirElif,
	"else":    DirElse,
	"endif":   DirEndif,
	"line":    DirLine,
	"error":   DirError,
	"warning": DirWarning, // GNU extension, widely supported
	"pragma":  DirPragma,
}

// alwaysProcessed reports whether a directive of this kind must be parsed
// and dispatched even while the enclosing conditional branch is inactive.
// Only the conditional directives themselves qualify: the if-stack must
// keep tracking nesting so a skipped #if...#endif doesn't confuse an
// #else that belongs to an outer, active block.
func (k DirectiveKind) alwaysProcessed() bool {
	switch k {
	case DirIf, DirIfdef, DirIfndef, DirElif, DirElse, DirEndif:
		return true
	default:
		return false
	}
}

// Directive is a single parsed directive line, carrying only the fields
// relevant to its Kind.
type Directive struct {
	Kind DirectiveKind
	Loc  Location

	Identifier string // #define/#undef/#ifdef/#ifndef name

	// #define
	Params      []string
	IsVariadic  bool
	IsFuncLike  bool
	Replacement []Token

	// #if / #elif
	Expression []Token

	// #include
	HeaderName string
	HeaderKind Kind // HeaderH or HeaderQ
	IncludeExpr []Token // when the header-name wasn't lexed directly and needs macro expansion first

	// #line
	LineNum  int
	FileName string

	// #error / #warning
	Message string

	// #pragma
	PragmaTokens []Token
}
