package textcontainer

import (
	"testing"

	"github.com/patternforge/patternforge/internal/langregistry"
	"github.com/patternforge/patternforge/internal/region"
)

func goLang(t *testing.T) langregistry.Info {
	t.Helper()
	info, ok := langregistry.FromFileName("main.go")
	if !ok {
		t.Fatal("expected main.go to resolve")
	}
	return info
}

func TestGetLineBoundary(t *testing.T) {
	c := New("abc\ndef\nghi", goLang(t))

	b := c.GetLineBoundary(0)
	if b.Index != 0 || b.Length != 4 {
		t.Errorf("line 1 boundary = %+v, want {0 4}", b)
	}

	b = c.GetLineBoundary(5)
	if b.Index != 4 || b.Length != 4 {
		t.Errorf("line 2 boundary = %+v, want {4 4}", b)
	}

	b = c.GetLineBoundary(9)
	if b.Index != 8 || b.Length != 3 {
		t.Errorf("line 3 boundary = %+v, want {8 3}", b)
	}
}

func TestGetLocation(t *testing.T) {
	c := New("abc\ndef", goLang(t))

	loc := c.GetLocation(0)
	if loc.Line != 1 || loc.Column != 1 {
		t.Errorf("GetLocation(0) = %v, want 1:1", loc)
	}

	loc = c.GetLocation(4)
	if loc.Line != 2 || loc.Column != 1 {
		t.Errorf("GetLocation(4) = %v, want 2:1", loc)
	}

	loc = c.GetLocation(6)
	if loc.Line != 2 || loc.Column != 3 {
		t.Errorf("GetLocation(6) = %v, want 2:3", loc)
	}
}

func TestGetLineContent(t *testing.T) {
	c := New("first\nsecond\n", goLang(t))

	if got := c.GetLineContent(1); got != "first\n" {
		t.Errorf("line 1 = %q, want %q", got, "first\n")
	}
	if got := c.GetLineContent(2); got != "second\n" {
		t.Errorf("line 2 = %q, want %q", got, "second\n")
	}
	// out of range clamps to last line
	if got := c.GetLineContent(99); got != "second\n" {
		t.Errorf("out-of-range line = %q, want clamp to last line", got)
	}
}

func TestGetBoundaryText(t *testing.T) {
	c := New("hello world", goLang(t))
	got := c.GetBoundaryText(region.Boundary{Index: 6, Length: 5})
	if got != "world" {
		t.Errorf("GetBoundaryText = %q, want %q", got, "world")
	}

	// clamps past end of content
	got = c.GetBoundaryText(region.Boundary{Index: 6, Length: 999})
	if got != "world" {
		t.Errorf("clamped GetBoundaryText = %q, want %q", got, "world")
	}
}

func TestIsCommentedMultiLine(t *testing.T) {
	content := "a\n/* comment\nspans lines */\nb"
	c := New(content, goLang(t))

	commentStart := len("a\n")
	if !c.IsCommented(commentStart) {
		t.Error("expected start of block comment to be commented")
	}
	mid := commentStart + 5
	if !c.IsCommented(mid) {
		t.Error("expected middle of block comment to be commented")
	}
	if c.IsCommented(0) {
		t.Error("expected offset 0 ('a') to not be commented")
	}
	lastLine := len(content) - 1
	if c.IsCommented(lastLine) {
		t.Error("expected 'b' on the last line to not be commented")
	}
}

func TestIsCommentedInline(t *testing.T) {
	content := "x := 1 // trailing comment\ny := 2"
	c := New(content, goLang(t))

	codeOffset := 0
	if c.IsCommented(codeOffset) {
		t.Error("expected start of line to not be commented")
	}

	commentOffset := len("x := 1 ")
	if !c.IsCommented(commentOffset) {
		t.Error("expected '// trailing comment' to be commented")
	}

	nextLineOffset := len("x := 1 // trailing comment\n")
	if c.IsCommented(nextLineOffset) {
		t.Error("expected second line to not be commented")
	}
}

func TestIsCommentedClampsOutOfRange(t *testing.T) {
	c := New("abc", goLang(t))
	if c.IsCommented(-5) != c.IsCommented(0) {
		t.Error("negative offset should clamp to 0")
	}
	if c.IsCommented(999) != c.IsCommented(2) {
		t.Error("overflowing offset should clamp to last byte")
	}
}

func TestIsCommentedEmptyContent(t *testing.T) {
	c := New("", goLang(t))
	if c.IsCommented(0) {
		t.Error("empty content should never be commented")
	}
}

func TestScopeMatch(t *testing.T) {
	content := "code() // note\nmore()"
	c := New(content, goLang(t))

	codeBoundary := region.Boundary{Index: 0, Length: 4}
	commentBoundary := region.Boundary{Index: len("code() "), Length: 6}

	all := region.NewScopeSet([]region.Scope{region.ScopeAll})
	if !c.ScopeMatch(all, codeBoundary) || !c.ScopeMatch(all, commentBoundary) {
		t.Error("ScopeAll should accept everything")
	}

	codeOnly := region.NewScopeSet([]region.Scope{region.ScopeCode})
	if !c.ScopeMatch(codeOnly, codeBoundary) {
		t.Error("code-only scope should accept a code boundary")
	}
	if c.ScopeMatch(codeOnly, commentBoundary) {
		t.Error("code-only scope should reject a comment boundary")
	}

	commentOnly := region.NewScopeSet([]region.Scope{region.ScopeComment})
	if c.ScopeMatch(commentOnly, codeBoundary) {
		t.Error("comment-only scope should reject a code boundary")
	}
	if !c.ScopeMatch(commentOnly, commentBoundary) {
		t.Error("comment-only scope should accept a comment boundary")
	}
}

func TestScopeMatchLanguageWithoutComments(t *testing.T) {
	jsonInfo, _ := langregistry.FromFileName("data.json")
	c := New(`{"a": 1}`, jsonInfo)
	codeOnly := region.NewScopeSet([]region.Scope{region.ScopeCode})
	if !c.ScopeMatch(codeOnly, region.Boundary{Index: 0, Length: 1}) {
		t.Error("a language with no comment syntax should always scope-match")
	}
}
