package patternops

import (
	"testing"

	"github.com/patternforge/patternforge/internal/compiler"
	"github.com/patternforge/patternforge/internal/langregistry"
	"github.com/patternforge/patternforge/internal/region"
	"github.com/patternforge/patternforge/internal/textcontainer"
)

func goInfo() langregistry.Info {
	info, _ := langregistry.FromFileName("main.go")
	return info
}

// S1 — comment scope exclusion.
func TestRegexWithIndexScopeExclusion(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    int
	}{
		{"double-quoted url plus trailing comment", `var url = "https://contoso.com"; // contoso.com`, 1},
		{"single-quoted url plus trailing comment", `var url = 'https://contoso.com'; // contoso.com`, 1},
		{"block comment only", `/* https://contoso.com */`, 0},
		{"block comment then code", `/* https://contoso.com */ var url = "https://contoso.com"`, 1},
		{"line comment only", `// var url = 'https://contoso.com';`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			container := textcontainer.New(tc.content, goInfo())
			clause := &compiler.Clause{
				Kind:   compiler.ClauseRegex,
				Label:  "0",
				Data:   []string{"contoso\\.com"},
				Scopes: region.NewScopeSet([]region.Scope{region.ScopeCode}),
			}
			caps := RegexWithIndex(container, clause)
			if len(caps) != tc.want {
				t.Errorf("content=%q: got %d captures, want %d", tc.content, len(caps), tc.want)
			}
		})
	}
}

func TestSubstringIndexWordBoundaries(t *testing.T) {
	content := "catcall cat concat cat."
	container := textcontainer.New(content, goInfo())
	clause := &compiler.Clause{
		Kind:              compiler.ClauseSubstring,
		Label:             "0",
		Data:              []string{"cat"},
		UseWordBoundaries: true,
		Scopes:            region.NewScopeSet(nil),
	}
	caps := SubstringIndex(container, clause)
	if len(caps) != 2 {
		t.Fatalf("got %d captures, want 2 (the two standalone \"cat\" occurrences)", len(caps))
	}
}

func TestSubstringIndexCaseInsensitive(t *testing.T) {
	content := "Secret SECRET secret"
	container := textcontainer.New(content, goInfo())
	clause := &compiler.Clause{
		Kind:      compiler.ClauseSubstring,
		Label:     "0",
		Data:      []string{"secret"},
		Arguments: []string{"i"},
		Scopes:    region.NewScopeSet(nil),
	}
	caps := SubstringIndex(container, clause)
	if len(caps) != 3 {
		t.Fatalf("got %d captures, want 3", len(caps))
	}
}

func TestRegexWithIndexSkipsEmptyMatches(t *testing.T) {
	content := "abc"
	container := textcontainer.New(content, goInfo())
	clause := &compiler.Clause{
		Kind:   compiler.ClauseRegex,
		Label:  "0",
		Data:   []string{"x*"},
		Scopes: region.NewScopeSet(nil),
	}
	caps := RegexWithIndex(container, clause)
	if len(caps) != 0 {
		t.Errorf("expected zero-length matches to be skipped, got %d", len(caps))
	}
}

// S5 — condition finding-region(before=3, after=3): primary hit at line
// 10, condition pattern present at line 12 fires, only at line 14 does not.
func TestWithinFindingRegion(t *testing.T) {
	makeContent := func(conditionLine int) string {
		lines := make([]string, 20)
		for i := range lines {
			lines[i] = "x"
		}
		lines[9] = "primary_pattern"  // line 10
		lines[conditionLine-1] = "condition_pattern"
		joined := ""
		for i, l := range lines {
			if i > 0 {
				joined += "\n"
			}
			joined += l
		}
		return joined
	}

	clause := &compiler.Clause{
		Kind:    compiler.ClauseWithin,
		Before:  3,
		After:   3,
	}

	t.Run("condition within region fires", func(t *testing.T) {
		content := makeContent(12)
		container := textcontainer.New(content, goInfo())
		parent := []Capture{{Boundary: region.Boundary{Index: indexOfLine(container, 10), Length: 1}}}
		sub := []Capture{{Boundary: region.Boundary{Index: indexOfLine(container, 12), Length: 1}}}
		matched, _ := Within(container, clause, sub, parent)
		if !matched {
			t.Error("expected condition at line 12 to satisfy finding-region(3,3) around line 10")
		}
	})

	t.Run("condition outside region does not fire", func(t *testing.T) {
		content := makeContent(14)
		container := textcontainer.New(content, goInfo())
		parent := []Capture{{Boundary: region.Boundary{Index: indexOfLine(container, 10), Length: 1}}}
		sub := []Capture{{Boundary: region.Boundary{Index: indexOfLine(container, 14), Length: 1}}}
		matched, _ := Within(container, clause, sub, parent)
		if matched {
			t.Error("expected condition at line 14 to fall outside finding-region(3,3) around line 10")
		}
	})
}

// indexOfLine finds the byte offset of the first character on the given
// 1-indexed line by scanning GetLocation; fine for the short fixtures
// these tests build.
func indexOfLine(tc *textcontainer.Container, line int) int {
	for idx := 0; idx < len(tc.Content()); idx++ {
		if tc.GetLocation(idx).Line == line {
			return idx
		}
	}
	return 0
}

func TestWithinInvert(t *testing.T) {
	container := textcontainer.New("no bad words here", goInfo())
	clause := &compiler.Clause{Kind: compiler.ClauseWithin, SameFile: true, Invert: true}

	matched, caps := Within(container, clause, nil, nil)
	if !matched {
		t.Error("invert of an empty sub-capture set over same-file should report matched=true")
	}
	if len(caps) != 0 {
		t.Error("inverted match must report an empty capture set")
	}
}
