package processor

import (
	"strings"

	"github.com/patternforge/patternforge/internal/textcontainer"
)

// ExtractExcerpt returns contextLines lines of context on either side of
// startLine, with the common leading whitespace across the window trimmed.
// contextLines == -1 disables excerpt extraction entirely.
func ExtractExcerpt(tc *textcontainer.Container, startLine, contextLines int) string {
	if contextLines < 0 {
		return ""
	}

	from := startLine - contextLines
	to := startLine + contextLines
	if from < 1 {
		from = 1
	}
	if last := tc.LineCount(); to > last {
		to = last
	}
	if from > to {
		return ""
	}

	lines := make([]string, 0, to-from+1)
	for line := from; line <= to; line++ {
		lines = append(lines, strings.TrimRight(tc.GetLineContent(line), "\r\n"))
	}

	prefix := commonLeadingWhitespace(lines)
	if prefix != "" {
		for i, l := range lines {
			lines[i] = strings.TrimPrefix(l, prefix)
		}
	}

	return strings.Join(lines, "\n")
}

func commonLeadingWhitespace(lines []string) string {
	var prefix string
	have := false
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lead := leadingWhitespace(l)
		if !have {
			prefix = lead
			have = true
			continue
		}
		prefix = commonPrefix(prefix, lead)
	}
	return prefix
}

func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
