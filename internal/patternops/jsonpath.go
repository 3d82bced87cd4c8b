package patternops

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/patternforge/patternforge/internal/region"
)

var (
	jsonPathWildcardIndex = regexp.MustCompile(`\[\*\]`)
	jsonPathNumericIndex  = regexp.MustCompile(`\[(\d+)\]`)
	jsonPathDotRun        = regexp.MustCompile(`\.{2,}`)
)

// ProjectJSONPaths evaluates each path (in the canonical JSONPath dialect
// documented in the rule schema, e.g. "$.books[*].title") against content
// and returns the Boundary of each selected node's literal text within
// content. A node whose literal text cannot be located (e.g. a number
// re-serialized with different formatting) is skipped rather than
// erroring: JSONPath pre-projection degrades to "finds nothing for that
// path", never a hard failure, per the spec's error-handling table for
// unparseable documents.
func ProjectJSONPaths(content string, paths []string) []region.Boundary {
	var out []region.Boundary
	for _, path := range paths {
		result := gjson.Get(content, toGJSONPath(path))
		if !result.Exists() {
			continue
		}
		out = append(out, locateJSONNodes(content, result)...)
	}
	return out
}

// toGJSONPath translates the canonical JSONPath forms the rule schema
// documents ("$.", "[*]", "[n]") into gjson's own dialect, where "$" has
// no special meaning, array wildcards are "#", and indices are dotted
// segments: "$.books[*].title" becomes "books.#.title".
func toGJSONPath(path string) string {
	p := strings.TrimPrefix(path, "$")
	p = jsonPathWildcardIndex.ReplaceAllString(p, ".#")
	p = jsonPathNumericIndex.ReplaceAllString(p, ".$1")
	p = jsonPathDotRun.ReplaceAllString(p, ".")
	p = strings.Trim(p, ".")
	if p == "" {
		return "@this"
	}
	return p
}

// locateJSONNodes flattens a (possibly array/multi-match) gjson.Result
// into the boundaries of its individual scalar/literal occurrences.
func locateJSONNodes(content string, result gjson.Result) []region.Boundary {
	if result.IsArray() {
		var out []region.Boundary
		result.ForEach(func(_, value gjson.Result) bool {
			out = append(out, locateJSONNodes(content, value)...)
			return true
		})
		return out
	}

	literal := jsonLiteralText(result)
	if literal == "" {
		return nil
	}

	var out []region.Boundary
	search := content
	offset := 0
	for {
		idx := strings.Index(search, literal)
		if idx < 0 {
			break
		}
		abs := offset + idx
		out = append(out, region.Boundary{Index: abs, Length: len(literal)})
		offset = abs + len(literal)
		if offset >= len(content) {
			break
		}
		search = content[offset:]
	}
	return out
}

// jsonLiteralText renders the value the way it would appear verbatim in
// the source JSON: quoted for strings, raw otherwise.
func jsonLiteralText(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strconv.Quote(v.Str)
	case gjson.Number:
		return v.Raw
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	case gjson.Null:
		return "null"
	default:
		return v.Raw
	}
}
