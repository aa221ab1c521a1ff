package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName produces the identity key for a subject. Keys are
// case- and whitespace-insensitive so the same person scraped from two
// sources lands on one row.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

var citationTail = regexp.MustCompile(`(?i)\s*(?:website|twitter)\b.*$`)

// StripCitationTail removes the "Website: ..."/"Twitter: ..." boilerplate
// some profile pages append after the real field value.
func StripCitationTail(s string) string {
	return strings.TrimSpace(citationTail.ReplaceAllString(s, ""))
}

var orgUnitPrefix = regexp.MustCompile(`(?i)\b(?:department|school|college|institute|center|centre|laboratory|division) of [^,]+,\s*`)

// ShortForm derives the abbreviated variant of a long free-text field.
// If an organizational-unit phrase followed by a comma appears, the text
// after it is kept (so "Department of Physics, Example University"
// becomes "Example University"); otherwise the text is truncated at the
// first comma.
func ShortForm(s string) string {
	if loc := orgUnitPrefix.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	if i := strings.Index(s, ","); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
