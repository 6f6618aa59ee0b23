package catalog

import "strings"

// ParseCategoryPath splits a raw category field into a root-to-leaf path.
// Two forms appear in scraped data and both are supported:
//
//	"Living Room|Sectional|Stationary"
//	"category:Living Room|category:Sectional"
//
// Segments are trimmed and empty ones dropped. Other facet tags
// (e.g. "brand:Acme") are ignored.
func ParseCategoryPath(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var path []string
	for _, segment := range strings.Split(raw, "|") {
		segment = strings.TrimSpace(segment)
		if key, value, ok := strings.Cut(segment, ":"); ok {
			if !strings.EqualFold(strings.TrimSpace(key), "category") {
				continue
			}
			segment = strings.TrimSpace(value)
		}
		if segment != "" {
			path = append(path, segment)
		}
	}
	return path
}
