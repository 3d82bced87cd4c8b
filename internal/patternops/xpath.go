package patternops

import (
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/patternforge/patternforge/internal/region"
)

// localNameStep matches one "/*[local-name(.)='x']" path segment, or a
// plain "/tag" segment.
var localNameStep = regexp.MustCompile(`^\*\[local-name\(\.\)='([^']+)'\]$`)

// ProjectXPaths evaluates each namespace-agnostic local-name XPath against
// content and returns the Boundary of each matched element's text content
// within the original bytes. No XPath library exists anywhere in the
// retrieved pack; this implements exactly the
// "/*[local-name(.)='x']/..." production the spec and its reference
// catalogs exercise, scoped to encoding/xml.
func ProjectXPaths(content string, paths []string) []region.Boundary {
	var out []region.Boundary
	for _, path := range paths {
		steps := parseXPathSteps(path)
		if len(steps) == 0 {
			continue
		}
		out = append(out, matchXPath(content, steps)...)
	}
	return out
}

func parseXPathSteps(path string) []string {
	var steps []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if m := localNameStep.FindStringSubmatch(seg); m != nil {
			steps = append(steps, m[1])
			continue
		}
		steps = append(steps, seg)
	}
	return steps
}

// matchXPath walks the XML token stream, tracking the stack of local
// element names (namespace prefixes stripped), and collects the text
// boundary of every element whose full ancestor path (root-to-leaf)
// equals steps.
func matchXPath(content string, steps []string) []region.Boundary {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.Strict = false

	var stack []string
	var out []region.Boundary
	var collecting bool
	var textBuf strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, localName(t.Name.Local))
			if pathMatches(stack, steps) {
				collecting = true
				textBuf.Reset()
			}
		case xml.CharData:
			if collecting {
				textBuf.Write(t)
			}
		case xml.EndElement:
			if collecting && pathMatches(stack, steps) {
				text := textBuf.String()
				if b, ok := locateLiteral(content, text); ok {
					out = append(out, b)
				}
				collecting = false
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return out
}

func localName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func pathMatches(stack, steps []string) bool {
	if len(stack) != len(steps) {
		return false
	}
	for i, s := range steps {
		if stack[i] != s {
			return false
		}
	}
	return true
}

func locateLiteral(content, literal string) (region.Boundary, bool) {
	if literal == "" {
		return region.Boundary{}, false
	}
	idx := strings.Index(content, literal)
	if idx < 0 {
		return region.Boundary{}, false
	}
	return region.Boundary{Index: idx, Length: len(literal)}, true
}
