// Package scenarios holds end-to-end scenario fixtures for the
// preprocessor, loaded from YAML in the style of the teacher's
// integration.yaml tests.
package scenarios

import (
	"os"
	"strings"
	"testing"

	"github.com/go-cc/preproc/pkg/cpp"
	"gopkg.in/yaml.v3"
)

// ScenarioSpec is one input/output-shape pair from spec.md's end-to-end
// scenarios: object-like macros, #/## operators, self-reference
// suppression, conditional inclusion, variadics, and string concatenation.
type ScenarioSpec struct {
	Name  string `yaml:"name"`
	Input string `yaml:"input"`
	Want  string `yaml:"want"`
}

// ScenarioFile is the scenarios.yaml file structure.
type ScenarioFile struct {
	Tests []ScenarioSpec `yaml:"tests"`
}

// normalizeTokenStream strips all whitespace so a scenario's "want" (one
// token per word, spec.md's readable form) can be compared against the
// preprocessor's real output, which keeps the source's own spacing instead
// of inserting a separator between every token.
func normalizeTokenStream(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func TestScenarios(t *testing.T) {
	data, err := os.ReadFile("testdata/scenarios.yaml")
	if err != nil {
		t.Fatalf("reading scenarios.yaml: %v", err)
	}
	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		t.Fatalf("unmarshaling scenarios.yaml: %v", err)
	}
	if len(file.Tests) == 0 {
		t.Fatal("scenarios.yaml defines no tests")
	}

	for _, tc := range file.Tests {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			ctx := cpp.NewContext(cpp.Options{})
			got, err := ctx.PreprocessString(tc.Input, tc.Name+".c")
			if err != nil {
				t.Fatalf("PreprocessString: %v", err)
			}
			if ctx.Diagnostics().HasErrors() {
				var b strings.Builder
				ctx.Diagnostics().Dump(&b)
				t.Fatalf("unexpected diagnostics:\n%s", b.String())
			}
			if normalizeTokenStream(got) != normalizeTokenStream(tc.Want) {
				t.Errorf("got %q, want %q (normalized: %q vs %q)",
					got, tc.Want, normalizeTokenStream(got), normalizeTokenStream(tc.Want))
			}
		})
	}
}
