package textutil

import (
	"net/url"
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName produces the canonical lowercase form of a display name
// used for equality checks and fuzzy matching.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// CollapseSpace trims a string and collapses runs of whitespace
// (including newlines and tabs) into single spaces.
func CollapseSpace(s string) string {
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.Trim(s, " ")
}

// Slug converts a wiki page title into its stable identifier form:
// percent escapes decoded, spaces replaced with underscores.
// "Ringed%20Sabre" and "Ringed Sabre" produce the same slug.
func Slug(title string) string {
	decoded, err := url.PathUnescape(title)
	if err == nil {
		title = decoded
	}
	title = CollapseSpace(title)
	title = strings.ReplaceAll(title, " ", "_")
	return title
}

// SnakeCase converts a human readable label like "Sell Value" or
// "Required Strength Level" into a field key like "required_strength_level".
func SnakeCase(label string) string {
	label = strings.ToLower(CollapseSpace(label))
	var b strings.Builder
	lastUnderscore := false
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ' || r == '-' || r == '_' || r == '.' || r == '/':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
