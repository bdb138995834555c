package cpp

import (
	"fmt"
	"path/filepath"
	"time"
)

// setupBuiltinMacros installs the standard predefined macros, grounded on
// original_source/src/cpp-macros.c's cpp_setup_builtin_macros: __STDC__,
// __STDC_VERSION__ and __STDC_HOSTED__ as static replacement lists,
// __FILE__/__LINE__/__DATE__/__TIME__ as dynamic handlers since their
// value depends on where they're expanded, not where they're "defined".
func setupBuiltinMacros(st *SymTab) {
	def := func(name string, text string, kind Kind) {
		st.DefineMacro(name, &Macro{
			Name: name, Kind: MacroObject,
			Replacement: []Token{{Kind: kind, Text: text}},
		})
	}
	def("__STDC__", "1", PPNumber)
	def("__STDC_VERSION__", "201112L", PPNumber)
	def("__STDC_HOSTED__", "0", PPNumber)

	st.DefineMacro("__FILE__", &Macro{Name: "__FILE__", Kind: MacroObject, Builtin: builtinFile})
	st.DefineMacro("__LINE__", &Macro{Name: "__LINE__", Kind: MacroObject, Builtin: builtinLine})
	st.DefineMacro("__DATE__", &Macro{Name: "__DATE__", Kind: MacroObject, Builtin: builtinDate})
	st.DefineMacro("__TIME__", &Macro{Name: "__TIME__", Kind: MacroObject, Builtin: builtinTime})
}

func builtinFile(loc Location) []Token {
	text := fmt.Sprintf("%q", filepath.ToSlash(loc.File))
	return []Token{{Kind: StringLit, Text: text, Value: loc.File, Start: loc, End: loc}}
}

func builtinLine(loc Location) []Token {
	text := fmt.Sprintf("%d", loc.Line)
	return []Token{{Kind: PPNumber, Text: text, Start: loc, End: loc}}
}

func builtinDate(loc Location) []Token {
	text := fmt.Sprintf("%q", time.Now().Format("Jan  2 2006"))
	return []Token{{Kind: StringLit, Text: text, Start: loc, End: loc}}
}

func builtinTime(loc Location) []Token {
	text := fmt.Sprintf("%q", time.Now().Format("15:04:05"))
	return []Token{{Kind: StringLit, Text: text, Start: loc, End: loc}}
}
