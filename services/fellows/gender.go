package fellows

import "regexp"

// pronoun-frequency heuristic, not grammatical parsing. biographies
// using singular "they", joint profiles of two people, or third-person
// references to other individuals are expected failure modes, corrected
// later via the manual override layer.
var (
	masculineMarkers = regexp.MustCompile(`(?i)\b(?:he|his|him|himself)\b`)
	feminineMarkers  = regexp.MustCompile(`(?i)\b(?:she|her|hers|herself)\b`)
)

// InferGender classifies a biography by which pronoun set it uses.
// if exactly one set matches, that category wins; both or neither
// matching abstains with Unknown.
func InferGender(bio string) Gender {
	masc := masculineMarkers.MatchString(bio)
	fem := feminineMarkers.MatchString(bio)
	switch {
	case masc && !fem:
		return GenderMen
	case fem && !masc:
		return GenderWomen
	default:
		return GenderUnknown
	}
}
