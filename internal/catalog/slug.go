package catalog

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	invalidChars  = regexp.MustCompile(`[^a-z0-9\-_]`)
)

// Normalize derives a durable code/slug from a display name: lowercased,
// whitespace runs become a hyphen, anything outside [a-z0-9-_] is stripped,
// leading/trailing hyphens trimmed. The same name always yields the same
// code, which is what makes re-runs find existing entries instead of
// duplicating them.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = invalidChars.ReplaceAllString(s, "")
	return strings.Trim(s, "-")
}

// optionCode normalizes an option value ("Matte Black" -> "matte-black").
func optionCode(value string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "-")
}

// normAttrKey strips WooCommerce attribute prefixes and casefolds:
// attribute_pa_color -> color.
func normAttrKey(key string) string {
	k := strings.TrimSpace(key)
	for _, prefix := range []string{"attribute_pa_", "attribute_"} {
		if len(k) >= len(prefix) && strings.EqualFold(k[:len(prefix)], prefix) {
			k = k[len(prefix):]
			break
		}
	}
	return strings.ToLower(strings.TrimSpace(k))
}

// titleCase uppercases the first letter only, for option group display names.
func titleCase(code string) string {
	if code == "" {
		return code
	}
	return strings.ToUpper(code[:1]) + code[1:]
}
