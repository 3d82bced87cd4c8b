// Package rules provides rule engine benchmarks.
package rules

import (
	"fmt"
	"testing"
)

// createTestRules generates rules for benchmarking.
func createTestRules(count int) []Rule {
	rules := make([]Rule, count)
	severities := []Severity{SeverityManualReview, SeverityBestPractice, SeverityModerate, SeverityImportant, SeverityCritical}
	languageSets := [][]string{{"go"}, {"python"}, {"go", "python"}, {"javascript"}}

	for i := 0; i < count; i++ {
		rules[i] = Rule{
			ID:          fmt.Sprintf("RULE-%03d", i),
			Name:        fmt.Sprintf("Test Rule %d", i),
			Description: fmt.Sprintf("Description for rule %d with some text", i),
			Severity:    severities[i%len(severities)],
			Tags:        []string{fmt.Sprintf("category.group%d", i%5)},
			AppliesTo:   languageSets[i%len(languageSets)],
			Enabled:     i%5 != 0, // 80% enabled
			Patterns: []SearchPattern{
				{Pattern: fmt.Sprintf("needle%d", i), Type: PatternTypeSubstring, Confidence: ConfidenceMedium},
			},
		}
	}

	return rules
}

// BenchmarkNewCatalog_Small measures catalog construction with few rules.
func BenchmarkNewCatalog_Small(b *testing.B) {
	rules := createTestRules(10)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = NewCatalog(rules)
	}
}

// BenchmarkNewCatalog_Large measures catalog construction with many rules.
func BenchmarkNewCatalog_Large(b *testing.B) {
	rules := createTestRules(500)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = NewCatalog(rules)
	}
}

// BenchmarkSelectForFile measures per-file rule selection.
func BenchmarkSelectForFile(b *testing.B) {
	rules := createTestRules(200)
	cat, _ := NewCatalog(rules)
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = cat.SelectForFile("go", "main.go")
	}
}

// BenchmarkFilterBySeverity measures severity filtering.
func BenchmarkFilterBySeverity(b *testing.B) {
	rules := createTestRules(200)
	cat, _ := NewCatalog(rules)
	ptrs := cat.Rules()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = FilterBySeverity(ptrs, SeverityImportant)
	}
}

// BenchmarkTagFilterAllSeen measures the tags-only dedup hot path.
func BenchmarkTagFilterAllSeen(b *testing.B) {
	f := NewTagFilter()
	tags := []string{"category.group0", "category.group1", "category.group2"}
	f.Record(tags[:2])
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = f.AllSeen(tags)
	}
}

// BenchmarkParseRulesBytes measures deserializing the embedded default
// catalog, the steady-state cost paid once per process start.
func BenchmarkParseRulesBytes(b *testing.B) {
	loader := NewLoader("")
	data, err := embeddedRules.ReadFile("defaults/builtin.json")
	if err != nil {
		b.Fatal(err)
	}
	_ = loader
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _, _ = parseRulesBytes(data)
	}
}
