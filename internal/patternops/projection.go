package patternops

import "github.com/patternforge/patternforge/internal/region"

// projectedRegions resolves a clause's JSONPath/XPath pre-projection, if
// any. active is false when the clause carries neither, meaning the
// caller should search the whole content unrestricted.
func projectedRegions(content string, jsonPaths, xPaths []string) (regions []region.Boundary, active bool) {
	if len(jsonPaths) == 0 && len(xPaths) == 0 {
		return nil, false
	}
	regions = append(regions, ProjectJSONPaths(content, jsonPaths)...)
	regions = append(regions, ProjectXPaths(content, xPaths)...)
	return regions, true
}
