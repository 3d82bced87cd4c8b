package processor

import (
	"context"
	"testing"

	"github.com/patternforge/patternforge/internal/compiler"
	"github.com/patternforge/patternforge/internal/langregistry"
	"github.com/patternforge/patternforge/internal/region"
	"github.com/patternforge/patternforge/internal/rules"
)

func goInfo() langregistry.Info {
	info, _ := langregistry.FromFileName("main.go")
	return info
}

func newProcessor(t *testing.T, rs []*rules.Rule, opts Options) *Processor {
	t.Helper()
	catalog, violations := rules.NewCatalog(derefAll(rs))
	if len(violations) != 0 {
		t.Fatalf("unexpected catalog violations: %v", violations)
	}
	compiled, violations := compiler.CompileCatalog(catalog.Rules())
	if len(violations) != 0 {
		t.Fatalf("unexpected compile violations: %v", violations)
	}
	return New(catalog, compiled, opts)
}

func derefAll(rs []*rules.Rule) []rules.Rule {
	out := make([]rules.Rule, len(rs))
	for i, r := range rs {
		out[i] = *r
		out[i].Enabled = true
	}
	return out
}

func TestAnalyzeFileEmitsMatch(t *testing.T) {
	r := &rules.Rule{
		ID:       "R1",
		Name:     "hardcoded secret",
		Severity: rules.SeverityCritical,
		Tags:     []string{"security.secrets"},
		Patterns: []rules.SearchPattern{
			{Pattern: "API_KEY", Type: rules.PatternTypeSubstring, Confidence: rules.ConfidenceHigh, Scopes: region.NewScopeSet(nil)},
		},
	}
	p := newProcessor(t, []*rules.Rule{r}, DefaultOptions())

	content := "const x = 1\nconst API_KEY = \"abc\"\nconst y = 2\n"
	res, err := p.AnalyzeFile(context.Background(), content, FileMetadata{Name: "main.go", Path: "main.go"}, goInfo(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", res.Status)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("matches = %v, want 1", res.Matches)
	}
	m := res.Matches[0]
	if m.RuleID != "R1" || m.Confidence != "high" || m.Start.Line != 2 {
		t.Errorf("unexpected match: %+v", m)
	}
}

func TestAnalyzeFileConfidenceFilterDrops(t *testing.T) {
	r := &rules.Rule{
		ID: "R1",
		Patterns: []rules.SearchPattern{
			{Pattern: "needle", Type: rules.PatternTypeSubstring, Confidence: rules.ConfidenceLow, Scopes: region.NewScopeSet(nil)},
		},
	}
	p := newProcessor(t, []*rules.Rule{r}, DefaultOptions()) // default filter is High|Medium

	res, err := p.AnalyzeFile(context.Background(), "needle here", FileMetadata{Name: "a.go"}, goInfo(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 0 {
		t.Errorf("matches = %v, want 0 (low confidence filtered out)", res.Matches)
	}
}

func TestAnalyzeFileUniqueTagsOnlyOneWitnessPerTag(t *testing.T) {
	r := &rules.Rule{
		ID:   "R1",
		Tags: []string{"dup"},
		Patterns: []rules.SearchPattern{
			{Pattern: "needle", Type: rules.PatternTypeSubstring, Confidence: rules.ConfidenceHigh, Scopes: region.NewScopeSet(nil)},
		},
	}
	opts := DefaultOptions()
	opts.UniqueTagsOnly = true
	p := newProcessor(t, []*rules.Rule{r}, opts)

	tagFilter := rules.NewTagFilter()
	content := "needle one, needle two, needle three"
	res, err := p.AnalyzeFile(context.Background(), content, FileMetadata{Name: "a.go"}, goInfo(), tagFilter, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 1 {
		t.Errorf("matches = %v, want 1 witness for tag %q", res.Matches, "dup")
	}
}

func TestAnalyzeFileOverlapResolutionKeepsLonger(t *testing.T) {
	r := &rules.Rule{
		ID: "R1",
		Patterns: []rules.SearchPattern{
			{Pattern: "needleX", Type: rules.PatternTypeSubstring, Confidence: rules.ConfidenceHigh, Scopes: region.NewScopeSet(nil)},
			{Pattern: "needle", Type: rules.PatternTypeSubstring, Confidence: rules.ConfidenceHigh, Scopes: region.NewScopeSet(nil)},
		},
	}
	p := newProcessor(t, []*rules.Rule{r}, DefaultOptions())

	res, err := p.AnalyzeFile(context.Background(), "needleX", FileMetadata{Name: "a.go"}, goInfo(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("matches = %v, want 1 (overlap resolved to the longer boundary)", res.Matches)
	}
	if res.Matches[0].Boundary.Length != len("needleX") {
		t.Errorf("kept boundary length = %d, want %d", res.Matches[0].Boundary.Length, len("needleX"))
	}
}

func TestAnalyzeFileCancellation(t *testing.T) {
	r := &rules.Rule{
		ID: "R1",
		Patterns: []rules.SearchPattern{
			{Pattern: "needle", Type: rules.PatternTypeSubstring, Confidence: rules.ConfidenceHigh, Scopes: region.NewScopeSet(nil)},
		},
	}
	p := newProcessor(t, []*rules.Rule{r}, DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := p.AnalyzeFile(ctx, "needle here", FileMetadata{Name: "a.go"}, goInfo(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusCanceled {
		t.Errorf("status = %v, want StatusCanceled", res.Status)
	}
}

func TestAnalyzeFileTimeoutDiscardsMatches(t *testing.T) {
	r := &rules.Rule{
		ID: "R1",
		Patterns: []rules.SearchPattern{
			{Pattern: "needle", Type: rules.PatternTypeSubstring, Confidence: rules.ConfidenceHigh, Scopes: region.NewScopeSet(nil)},
		},
	}
	opts := DefaultOptions()
	opts.FileTimeoutMS = 1
	p := newProcessor(t, []*rules.Rule{r}, opts)

	// Give the deadline time to have already elapsed by the time the loop
	// checks it.
	res, err := p.AnalyzeFile(context.Background(), "needle here", FileMetadata{Name: "a.go"}, goInfo(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusOK && res.Status != StatusTimedOut {
		t.Fatalf("unexpected status: %v", res.Status)
	}
	if res.Status == StatusTimedOut && len(res.Matches) != 0 {
		t.Errorf("timed-out result must carry zero matches, got %v", res.Matches)
	}
}

func TestExtractExcerptTrimsCommonIndent(t *testing.T) {
	// built indirectly via AnalyzeFile's excerpt field.
	r := &rules.Rule{
		ID: "R1",
		Patterns: []rules.SearchPattern{
			{Pattern: "needle", Type: rules.PatternTypeSubstring, Confidence: rules.ConfidenceHigh, Scopes: region.NewScopeSet(nil)},
		},
	}
	opts := DefaultOptions()
	opts.ContextLines = 1
	p := newProcessor(t, []*rules.Rule{r}, opts)

	content := "    line one\n    needle here\n    line three\n"
	res, err := p.AnalyzeFile(context.Background(), content, FileMetadata{Name: "a.go"}, goInfo(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("matches = %v, want 1", res.Matches)
	}
	if got := res.Matches[0].Excerpt; got == "" || got[0] == ' ' {
		t.Errorf("excerpt = %q, want common indent trimmed", got)
	}
}
