package chunk

import "testing"

func TestIsCitationDense(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{
			name:     "bracket citations",
			text:     "as shown in [1] and refined by [2], later extended in [3] with stronger assumptions on the prior",
			expected: true,
		},
		{
			name:     "too short to judge",
			text:     "[1] [2] [3]",
			expected: false,
		},
		{
			name:     "years plus venues",
			text:     "IEEE Transactions papers from 2019, 2020 and 2021 appear alongside a Journal survey of the field",
			expected: true,
		},
		{
			name:     "repeated arxiv mentions",
			text:     "available as an arXiv preprint, superseding the earlier arXiv version of the same manuscript",
			expected: true,
		},
		{
			name:     "ordinary prose",
			text:     "The encoder maps each chunk to a dense vector and the retriever ranks candidates by cosine similarity before generation.",
			expected: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsCitationDense(test.text); got != test.expected {
				t.Fatalf("IsCitationDense(%q) = %v, expected %v", test.text, got, test.expected)
			}
		})
	}
}
