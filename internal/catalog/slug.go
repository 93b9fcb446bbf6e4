package catalog

import (
	"regexp"
	"strings"
)

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases value and collapses every run of non-alphanumerics into one dash.
func Slugify(value string) string {
	slug := nonSlugRe.ReplaceAllString(strings.ToLower(value), "-")
	return strings.Trim(slug, "-")
}
