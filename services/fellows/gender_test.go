package fellows

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInferGender(t *testing.T) {
	testCases := []struct {
		bio      string
		expected Gender
	}{
		{
			bio:      "He was born in Texas. His research focuses on networks.",
			expected: GenderMen,
		},
		{
			bio:      "She founded the organization in 2001.",
			expected: GenderWomen,
		},
		{
			bio:      "They are a researcher working on climate models.",
			expected: GenderUnknown,
		},
		{
			// joint profile mentioning both pronoun sets abstains
			bio:      "He composes the scores while she directs the films.",
			expected: GenderUnknown,
		},
		{
			bio:      "",
			expected: GenderUnknown,
		},
		{
			// word boundaries: "theory" and "shelter" contain no markers
			bio:      "Theory of shelter design in the Hebrides.",
			expected: GenderUnknown,
		},
		{
			// markers match case-insensitively at sentence starts
			bio:      "Her latest book won a prize.",
			expected: GenderWomen,
		},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, InferGender(tc.bio), tc.bio)
	}
}
