package cpp

import "testing"

func TestStringifyCollapsesWhitespace(t *testing.T) {
	lex := NewLexer(`hello   "world"`, "t.c")
	toks := lex.AllTokens()
	toks = toks[:len(toks)-1]
	got := stringify(toks, Location{})
	want := `"hello \"world\""`
	if got.Text != want {
		t.Errorf("stringify() = %q, want %q", got.Text, want)
	}
}

func TestPasteJoinsTwoIdentifiers(t *testing.T) {
	ctx := NewContext(Options{})
	left := Token{Kind: Name, Text: "foo"}
	right := Token{Kind: Name, Text: "bar"}
	out := ctx.paste(left, right)
	if len(out) != 1 || out[0].Kind != Name || out[0].Text != "foobar" {
		t.Fatalf("paste(foo, bar) = %+v", out)
	}
}

func TestPasteInvalidCombinationKeepsResultAndDiagnoses(t *testing.T) {
	ctx := NewContext(Options{})
	left := Token{Kind: Plus, Text: "+"}
	right := Token{Kind: Slash, Text: "/"}
	out := ctx.paste(left, right)
	if len(out) != 2 {
		t.Fatalf("expected the two unmergeable tokens kept as-is, got %+v", out)
	}
	if !ctx.diag.HasErrors() {
		t.Error("expected a diagnostic for an invalid paste")
	}
}

func TestJoinVAArgsPreservesCommas(t *testing.T) {
	args := [][]Token{
		{{Kind: Name, Text: "fmt"}},
		{{Kind: PPNumber, Text: "1"}},
		{{Kind: PPNumber, Text: "2"}},
	}
	out := joinVAArgs(args, 1)
	if len(out) != 3 || out[1].Kind != Comma {
		t.Fatalf("joinVAArgs = %+v", out)
	}
}

func TestExpandSequenceIsBoundedToItsOwnTokens(t *testing.T) {
	ctx := NewContext(Options{})
	ctx.symtab.DefineMacro("F", &Macro{
		Name: "F", Kind: MacroFunction, Params: nil,
		Replacement: []Token{{Kind: Name, Text: "F", Value: "F"}},
	})
	// F is function-like but this slice ends right after its name, with no
	// '(' at all (simulating an expression boundary) -- expandSequence must
	// not treat this as a self-call and must not reach past its own slice.
	out := ctx.expandSequence([]Token{{Kind: Name, Text: "F", Value: "F"}})
	if len(out) != 1 || out[0].Text != "F" {
		t.Fatalf("expected bare macro name passed through unexpanded, got %+v", out)
	}
}
