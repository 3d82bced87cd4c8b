package structure

import "regexp"

var (
	goFuncPattern = regexp.MustCompile(`^func\s+(?:\(\w+\s+[^)]+\)\s+)?(\w+)\s*\(`)
	goTypePattern = regexp.MustCompile(`^type\s+(\w+)\s+(?:struct|interface)\s*\{?`)
)

func scanGo(lines []string) []Symbol {
	var out []Symbol
	for i, line := range lines {
		if m := goFuncPattern.FindStringSubmatch(line); m != nil {
			end := findBraceBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "function", Name: m[1], StartLine: i + 1, EndLine: end + 1})
			continue
		}
		if m := goTypePattern.FindStringSubmatch(line); m != nil {
			end := findBraceBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "type", Name: m[1], StartLine: i + 1, EndLine: end + 1})
		}
	}
	return out
}

var (
	jstsFuncPattern  = regexp.MustCompile(`^(?:export\s+)?(?:async\s+)?function\s+(\w+)`)
	jstsArrowPattern = regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?\([^)]*\)\s*(?::\s*\w+)?\s*=>`)
	jstsClassPattern = regexp.MustCompile(`^(?:export\s+)?class\s+(\w+)`)
)

func scanJSTS(lines []string) []Symbol {
	var out []Symbol
	for i, line := range lines {
		switch {
		case jstsFuncPattern.MatchString(line):
			m := jstsFuncPattern.FindStringSubmatch(line)
			end := findBraceBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "function", Name: m[1], StartLine: i + 1, EndLine: end + 1})
		case jstsArrowPattern.MatchString(line):
			m := jstsArrowPattern.FindStringSubmatch(line)
			end := findBraceBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "function", Name: m[1], StartLine: i + 1, EndLine: end + 1})
		case jstsClassPattern.MatchString(line):
			m := jstsClassPattern.FindStringSubmatch(line)
			end := findBraceBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "class", Name: m[1], StartLine: i + 1, EndLine: end + 1})
		}
	}
	return out
}

// pyFuncPattern/pyClassPattern allow leading indentation, unlike the
// teacher's brace-language patterns: Python methods are nested by
// indentation rather than braces, so a method def is never at column 0.
var (
	pyFuncPattern  = regexp.MustCompile(`^\s*(?:async\s+)?def\s+(\w+)\s*\(`)
	pyClassPattern = regexp.MustCompile(`^\s*class\s+(\w+)`)
)

func scanPython(lines []string) []Symbol {
	var out []Symbol
	for i, line := range lines {
		if m := pyFuncPattern.FindStringSubmatch(line); m != nil {
			end := findIndentBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "function", Name: m[1], StartLine: i + 1, EndLine: end + 1})
			continue
		}
		if m := pyClassPattern.FindStringSubmatch(line); m != nil {
			end := findIndentBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "class", Name: m[1], StartLine: i + 1, EndLine: end + 1})
		}
	}
	return out
}

var (
	javaClassPattern     = regexp.MustCompile(`^(?:public\s+)?(?:abstract\s+)?class\s+(\w+)`)
	javaInterfacePattern = regexp.MustCompile(`^(?:public\s+)?interface\s+(\w+)`)
	javaMethodPattern    = regexp.MustCompile(`^\s*(?:public|private|protected)?\s*(?:static\s+)?(?:final\s+)?\w+(?:<[^>]+>)?\s+(\w+)\s*\(`)
)

func scanJava(lines []string) []Symbol {
	var out []Symbol
	for i, line := range lines {
		switch {
		case javaClassPattern.MatchString(line):
			m := javaClassPattern.FindStringSubmatch(line)
			end := findBraceBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "class", Name: m[1], StartLine: i + 1, EndLine: end + 1})
		case javaInterfacePattern.MatchString(line):
			m := javaInterfacePattern.FindStringSubmatch(line)
			end := findBraceBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "interface", Name: m[1], StartLine: i + 1, EndLine: end + 1})
		case javaMethodPattern.MatchString(line):
			m := javaMethodPattern.FindStringSubmatch(line)
			end := findBraceBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "function", Name: m[1], StartLine: i + 1, EndLine: end + 1})
		}
	}
	return out
}

var (
	rustFnPattern     = regexp.MustCompile(`^(?:pub\s+)?(?:async\s+)?fn\s+(\w+)`)
	rustStructPattern = regexp.MustCompile(`^(?:pub\s+)?struct\s+(\w+)`)
	rustImplPattern   = regexp.MustCompile(`^impl(?:<[^>]+>)?\s+(\w+)`)
	rustTraitPattern  = regexp.MustCompile(`^(?:pub\s+)?trait\s+(\w+)`)
)

func scanRust(lines []string) []Symbol {
	var out []Symbol
	for i, line := range lines {
		switch {
		case rustFnPattern.MatchString(line):
			m := rustFnPattern.FindStringSubmatch(line)
			end := findBraceBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "function", Name: m[1], StartLine: i + 1, EndLine: end + 1})
		case rustStructPattern.MatchString(line):
			m := rustStructPattern.FindStringSubmatch(line)
			end := findBraceBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "struct", Name: m[1], StartLine: i + 1, EndLine: end + 1})
		case rustImplPattern.MatchString(line):
			m := rustImplPattern.FindStringSubmatch(line)
			end := findBraceBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "type", Name: m[1], StartLine: i + 1, EndLine: end + 1})
		case rustTraitPattern.MatchString(line):
			m := rustTraitPattern.FindStringSubmatch(line)
			end := findBraceBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "trait", Name: m[1], StartLine: i + 1, EndLine: end + 1})
		}
	}
	return out
}

var (
	genericFuncPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(?:func|function|def|fn|sub)\s+(\w+)`),
		regexp.MustCompile(`^(?:public|private|protected)?\s*(?:static\s+)?\w+\s+(\w+)\s*\(`),
	}
	genericClassPattern = regexp.MustCompile(`^(?:class|struct|type)\s+(\w+)`)
)

func scanGeneric(lines []string) []Symbol {
	var out []Symbol
	for i, line := range lines {
		matched := false
		for _, p := range genericFuncPatterns {
			if m := p.FindStringSubmatch(line); m != nil {
				end := findBraceBlockEnd(lines, i)
				out = append(out, Symbol{Kind: "function", Name: m[1], StartLine: i + 1, EndLine: end + 1})
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if m := genericClassPattern.FindStringSubmatch(line); m != nil {
			end := findBraceBlockEnd(lines, i)
			out = append(out, Symbol{Kind: "type", Name: m[1], StartLine: i + 1, EndLine: end + 1})
		}
	}
	return out
}
