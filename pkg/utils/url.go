package utils

import (
	"regexp"
	"strings"
)

var schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://`)

// NormalizeURL prefixes https:// when the value carries no scheme.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" || schemePrefix.MatchString(u) {
		return u
	}
	return "https://" + u
}
