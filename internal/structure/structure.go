// Package structure builds a lightweight index of a file's function and
// type boundaries so the Rule Processor can report which symbol
// encloses a match. It is a trimmed adaptation of the teacher's
// internal/ast source parser: the same line-by-line regex scanning and
// brace/indentation block-end heuristics, stripped down to start/end
// line extraction only — no imports, parameters, doc comments, or diff
// support, none of which the Rule Processor needs.
package structure

import (
	"strings"

	"github.com/patternforge/patternforge/internal/langregistry"
)

// Symbol is one named, line-bounded function or type declaration.
type Symbol struct {
	Kind      string // "function", "type", "class", "interface", "struct", "trait"
	Name      string
	StartLine int // 1-indexed, inclusive
	EndLine   int // 1-indexed, inclusive
}

// Index answers enclosing-symbol lookups for a single file.
type Index struct {
	symbols []Symbol
}

// BuildIndex scans content for function/type boundaries using the scanner
// registered for lang.Name, falling back to a brace-counting generic
// scanner for languages with no dedicated one.
func BuildIndex(content string, lang langregistry.Info) *Index {
	lines := strings.Split(content, "\n")

	var symbols []Symbol
	switch lang.Name {
	case "go":
		symbols = scanGo(lines)
	case "javascript", "typescript":
		symbols = scanJSTS(lines)
	case "python":
		symbols = scanPython(lines)
	case "java":
		symbols = scanJava(lines)
	case "rust":
		symbols = scanRust(lines)
	default:
		symbols = scanGeneric(lines)
	}

	return &Index{symbols: symbols}
}

// Enclosing returns the innermost symbol (smallest line span) containing
// line, if any.
func (idx *Index) Enclosing(line int) (string, bool) {
	best := -1
	bestSpan := -1
	for i, s := range idx.symbols {
		if line < s.StartLine || line > s.EndLine {
			continue
		}
		span := s.EndLine - s.StartLine
		if best == -1 || span < bestSpan {
			best = i
			bestSpan = span
		}
	}
	if best == -1 {
		return "", false
	}
	return idx.symbols[best].Name, true
}

// findBraceBlockEnd returns the line (0-indexed) where the brace opened by
// startIdx's line closes, adapted from the teacher's findFunctionEnd.
func findBraceBlockEnd(lines []string, startIdx int) int {
	depth := 0
	started := false
	for i := startIdx; i < len(lines); i++ {
		line := lines[i]
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if strings.Contains(line, "{") {
			started = true
		}
		if started && depth == 0 {
			return i
		}
	}
	return len(lines) - 1
}

// findIndentBlockEnd returns the line (0-indexed) where a Python-style
// indented block started at startIdx ends, adapted from the teacher's
// findPythonBlockEnd.
func findIndentBlockEnd(lines []string, startIdx int) int {
	if startIdx >= len(lines) {
		return startIdx
	}
	defLine := lines[startIdx]
	defIndent := len(defLine) - len(strings.TrimLeft(defLine, " \t"))

	for i := startIdx + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := len(lines[i]) - len(strings.TrimLeft(lines[i], " \t"))
		if indent <= defIndent {
			return i - 1
		}
	}
	return len(lines) - 1
}
