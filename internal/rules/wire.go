package rules

import "github.com/patternforge/patternforge/internal/region"

// The structs below mirror the bit-exact JSON rule schema from the spec.
// Unknown fields are ignored by encoding/json by default; unknown
// enum-ish values (pattern type, search_in) cause the containing
// pattern/condition to be dropped, surfaced as a Violation rather than an
// error, so the rest of the catalog still loads.

type wireCatalog = []wireRule

type wireRule struct {
	ID                 string          `json:"id" yaml:"id"`
	Name               string          `json:"name" yaml:"name"`
	Description        string          `json:"description" yaml:"description"`
	Tags               []string        `json:"tags" yaml:"tags"`
	Severity           string          `json:"severity" yaml:"severity"`
	AppliesTo          []string        `json:"applies_to" yaml:"applies_to"`
	AppliesToFileRegex []string        `json:"applies_to_file_regex" yaml:"applies_to_file_regex"`
	Patterns           []wirePattern   `json:"patterns" yaml:"patterns"`
	Conditions         []wireCondition `json:"conditions" yaml:"conditions"`
}

type wirePattern struct {
	Pattern    string   `json:"pattern" yaml:"pattern"`
	Type       string   `json:"type" yaml:"type"`
	Confidence string   `json:"confidence" yaml:"confidence"`
	Scopes     []string `json:"scopes" yaml:"scopes"`
	Modifiers  []string `json:"modifiers" yaml:"modifiers"`
	XPaths     []string `json:"xpaths" yaml:"xpaths"`
	JSONPaths  []string `json:"jsonpaths" yaml:"jsonpaths"`
}

type wireCondition struct {
	Pattern       wirePattern `json:"pattern" yaml:"pattern"`
	SearchIn      string      `json:"search_in" yaml:"search_in"`
	NegateFinding bool        `json:"negate_finding" yaml:"negate_finding"`
}

// toRule converts a wireRule into the compiler-facing Rule, dropping
// patterns/conditions with unrecognized type/search_in values and
// recording a Violation for each drop.
func (w wireRule) toRule() (Rule, []Violation) {
	var violations []Violation

	r := Rule{
		ID:                 w.ID,
		Name:               w.Name,
		Description:        w.Description,
		Tags:               append([]string(nil), w.Tags...),
		Severity:           ParseSeverity(w.Severity),
		AppliesTo:          append([]string(nil), w.AppliesTo...),
		AppliesToFileRegex: append([]string(nil), w.AppliesToFileRegex...),
		Enabled:            true,
	}

	for _, wp := range w.Patterns {
		sp, ok := wp.toSearchPattern()
		if !ok {
			violations = append(violations, Violation{
				RuleID: w.ID,
				Reason: "pattern has unrecognized type " + wp.Type + ", dropped",
			})
			continue
		}
		r.Patterns = append(r.Patterns, sp)
	}

	for _, wc := range w.Conditions {
		sp, ok := wc.Pattern.toSearchPattern()
		if !ok {
			violations = append(violations, Violation{
				RuleID: w.ID,
				Reason: "condition pattern has unrecognized type " + wc.Pattern.Type + ", dropped",
			})
			continue
		}
		sel, ok := parseSelector(wc.SearchIn)
		if !ok {
			violations = append(violations, Violation{
				RuleID: w.ID,
				Reason: "condition has unrecognized search_in " + wc.SearchIn + ", dropped",
			})
			continue
		}
		r.Conditions = append(r.Conditions, SearchCondition{
			Pattern:       sp,
			SearchIn:      sel,
			NegateFinding: wc.NegateFinding,
		})
	}

	return r, violations
}

func (wp wirePattern) toSearchPattern() (SearchPattern, bool) {
	pt, ok := ParsePatternType(wp.Type)
	if !ok {
		return SearchPattern{}, false
	}
	mods := make(map[string]bool, len(wp.Modifiers))
	for _, m := range wp.Modifiers {
		mods[m] = true
	}
	scopes := make([]region.Scope, 0, len(wp.Scopes))
	for _, s := range wp.Scopes {
		switch normalizeEnum(s) {
		case "code":
			scopes = append(scopes, region.ScopeCode)
		case "comment":
			scopes = append(scopes, region.ScopeComment)
		default:
			scopes = append(scopes, region.ScopeAll)
		}
	}
	return SearchPattern{
		Pattern:    wp.Pattern,
		Type:       pt,
		Confidence: ParseConfidence(wp.Confidence),
		Modifiers:  mods,
		Scopes:     region.NewScopeSet(scopes),
		JSONPaths:  append([]string(nil), wp.JSONPaths...),
		XPaths:     append([]string(nil), wp.XPaths...),
	}, true
}
