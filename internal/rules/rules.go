package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Catalog is an immutable, indexed collection of rules: the unit the
// compiler consumes and the processor queries by language or file name.
type Catalog struct {
	all        []*Rule
	byLanguage map[string][]*Rule
	byFileName []fileNameRule
	universal  []*Rule
}

type fileNameRule struct {
	re   *regexp.Regexp
	rule *Rule
}

// NewCatalog builds a Catalog from loaded rules, compiling each rule's
// AppliesToFileRegex and indexing by language/filename/universal. Rules
// whose file-name regex fails to compile are dropped with a violation.
func NewCatalog(loaded []Rule) (*Catalog, []Violation) {
	cat := &Catalog{
		byLanguage: make(map[string][]*Rule),
	}
	var violations []Violation

	for i := range loaded {
		r := loaded[i]
		if !r.Enabled {
			continue
		}
		rp := &loaded[i]

		var compiledAny bool
		var fileRes []*regexp.Regexp
		for _, pat := range r.AppliesToFileRegex {
			re, err := regexp.Compile(pat)
			if err != nil {
				violations = append(violations, Violation{
					RuleID: r.ID,
					Reason: fmt.Sprintf("invalid applies_to_file_regex %q: %v", pat, err),
				})
				continue
			}
			fileRes = append(fileRes, re)
			compiledAny = true
		}
		if len(r.AppliesToFileRegex) > 0 && !compiledAny {
			// every file regex was invalid; treat as universal-by-language
			// only, never as a filename match.
			fileRes = nil
		}

		cat.all = append(cat.all, rp)

		switch {
		case rp.Universal():
			cat.universal = append(cat.universal, rp)
		default:
			for _, lang := range rp.AppliesTo {
				key := strings.ToLower(lang)
				cat.byLanguage[key] = append(cat.byLanguage[key], rp)
			}
			for _, re := range fileRes {
				cat.byFileName = append(cat.byFileName, fileNameRule{re: re, rule: rp})
			}
		}
	}

	return cat, violations
}

// Rules returns every enabled rule in the catalog, in load order.
func (c *Catalog) Rules() []*Rule {
	return c.all
}

// UniversalRules returns rules with neither a language nor a file-name
// restriction.
func (c *Catalog) UniversalRules() []*Rule {
	return c.universal
}

// ByLanguage returns rules restricted to the given language name.
func (c *Catalog) ByLanguage(lang string) []*Rule {
	return c.byLanguage[strings.ToLower(lang)]
}

// ByFilename returns rules whose applies_to_file_regex matches name.
func (c *Catalog) ByFilename(name string) []*Rule {
	var out []*Rule
	for _, fr := range c.byFileName {
		if fr.re.MatchString(name) {
			out = append(out, fr.rule)
		}
	}
	return out
}

// SelectForFile returns the deduplicated union of universal rules,
// language-restricted rules, and file-name-restricted rules applicable to
// a single file, preserving catalog order.
func (c *Catalog) SelectForFile(lang, fileName string) []*Rule {
	seen := make(map[string]bool)
	var out []*Rule
	add := func(rs []*Rule) {
		for _, r := range rs {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			out = append(out, r)
		}
	}
	add(c.universal)
	add(c.ByLanguage(lang))
	add(c.ByFilename(fileName))
	return out
}

// Violation records a rule, clause, or catalog-level validation failure
// encountered during loading or compilation. The catalog remains usable
// without the invalid rule.
type Violation struct {
	RuleID string
	Clause string
	Reason string
}

func (v Violation) Error() string {
	if v.Clause != "" {
		return fmt.Sprintf("rule %s clause %s: %s", v.RuleID, v.Clause, v.Reason)
	}
	return fmt.Sprintf("rule %s: %s", v.RuleID, v.Reason)
}
