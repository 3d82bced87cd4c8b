package rules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InheritConfig configures rule inheritance for one catalog level: which
// parent sources to merge in, and per-rule enable/disable/override
// instructions applied after the merge.
type InheritConfig struct {
	// InheritFrom lists parent sources (HTTPS URLs or local paths),
	// lowest priority first; a later source's rules win on ID collision.
	InheritFrom []string

	// Overrides maps rule ID to field overrides applied after merge.
	Overrides map[string]RuleOverride

	// Disable/Enable list rule IDs to toggle Rule.Enabled after merge.
	Disable []string
	Enable  []string
}

// RuleOverride holds the fields a catalog level may override on an
// inherited rule.
type RuleOverride struct {
	Severity *Severity
	Tags     []string
}

// HierarchicalLoader loads and merges rule catalogs from a base source plus
// a priority-ordered chain of parent sources, local or remote.
type HierarchicalLoader struct {
	baseLoader *Loader
	fetcher    *RemoteFetcher
	cache      map[string][]Rule
}

// NewHierarchicalLoader creates a loader rooted at rulesDir for the base
// catalog, fetching remote parents at up to rps requests/second.
func NewHierarchicalLoader(rulesDir string, rps int) *HierarchicalLoader {
	return &HierarchicalLoader{
		baseLoader: NewLoader(rulesDir),
		fetcher:    NewRemoteFetcher(rps),
		cache:      make(map[string][]Rule),
	}
}

// LoadWithInheritance loads the base catalog, merges in each parent source
// (parent rules win on ID collision, later sources outrank earlier ones),
// applies per-rule overrides and enable/disable, and compiles the result
// into a Catalog. A parent source that fails to load is skipped with a
// Violation; the call itself only fails if the base catalog fails to load.
func (hl *HierarchicalLoader) LoadWithInheritance(ctx context.Context, cfg InheritConfig) (*Catalog, []Violation, error) {
	baseRules, violations, err := hl.baseLoader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading base rules: %w", err)
	}

	rulesMap := make(map[string]Rule, len(baseRules))
	order := make([]string, 0, len(baseRules))
	for _, r := range baseRules {
		if _, exists := rulesMap[r.ID]; !exists {
			order = append(order, r.ID)
		}
		rulesMap[r.ID] = r
	}

	for _, source := range cfg.InheritFrom {
		parentRules, err := hl.loadFromSource(ctx, source)
		if err != nil {
			violations = append(violations, Violation{Reason: fmt.Sprintf("inherit from %s: %v", source, err)})
			continue
		}
		for _, r := range parentRules {
			if _, exists := rulesMap[r.ID]; !exists {
				order = append(order, r.ID)
			}
			rulesMap[r.ID] = r
		}
	}

	for id, ov := range cfg.Overrides {
		if r, ok := rulesMap[id]; ok {
			rulesMap[id] = applyOverride(r, ov)
		}
	}
	applyEnableDisable(rulesMap, cfg.Enable, cfg.Disable)

	result := make([]Rule, 0, len(order))
	for _, id := range order {
		result = append(result, rulesMap[id])
	}

	cat, catViolations := NewCatalog(result)
	return cat, append(violations, catViolations...), nil
}

func (hl *HierarchicalLoader) loadFromSource(ctx context.Context, source string) ([]Rule, error) {
	if cached, ok := hl.cache[source]; ok {
		return cached, nil
	}

	var data []byte
	var err error
	if isURL(source) {
		data, err = hl.fetcher.Fetch(ctx, source)
	} else {
		data, err = hl.loadFromFile(source)
	}
	if err != nil {
		return nil, err
	}

	rs, _, err := parseRulesBytes(data)
	if err != nil {
		return nil, err
	}

	hl.cache[source] = rs
	return rs, nil
}

func (hl *HierarchicalLoader) loadFromFile(path string) ([]byte, error) {
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(cwd, path)
	}
	return os.ReadFile(path) //nolint:gosec // path comes from configured inheritance chain
}

func applyOverride(r Rule, ov RuleOverride) Rule {
	if ov.Severity != nil {
		r.Severity = *ov.Severity
	}
	if ov.Tags != nil {
		r.Tags = append([]string(nil), ov.Tags...)
	}
	return r
}

func applyEnableDisable(rulesMap map[string]Rule, enable, disable []string) {
	for _, id := range enable {
		if r, ok := rulesMap[id]; ok {
			r.Enabled = true
			rulesMap[id] = r
		}
	}
	for _, id := range disable {
		if r, ok := rulesMap[id]; ok {
			r.Enabled = false
			rulesMap[id] = r
		}
	}
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// ValidateInheritConfig rejects a configuration with an empty or
// non-HTTPS remote source.
func ValidateInheritConfig(cfg InheritConfig) error {
	for _, source := range cfg.InheritFrom {
		if source == "" {
			return fmt.Errorf("empty source in inherit_from")
		}
		if strings.HasPrefix(source, "http://") {
			return fmt.Errorf("insecure URL (must use HTTPS): %s", source)
		}
	}
	return nil
}
