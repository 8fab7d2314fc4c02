package chunk

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	bracketCitation = regexp.MustCompile(`\[\d+(?:,\s*\d+)*\]`)
	arxivMention    = regexp.MustCompile(`(?i)arXiv`)
	yearMention     = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	doiOrURL        = regexp.MustCompile(`(?i)\bdoi:|https?://`)

	citationVenues = []string{
		"ieee", "acm", "cvpr", "iccv", "eccv", "neurips", "icml", "iclr",
		"aaai", "ijcai", "preprint", "proceedings", "conference", "journal",
		"transactions", "vol.", "pp.", "eds.", "research", "review",
	}
)

// IsCitationDense is the second, narrower noise pass run after
// splitting. The structural rules in the classifier miss reference
// entries that splitting fragmented mid-entry, but citation markers,
// years and venue names survive fragmentation, so raw density still
// identifies them.
func IsCitationDense(text string) bool {
	length := utf8.RuneCountInString(text)
	if length < 50 {
		return false
	}

	citations := len(bracketCitation.FindAllString(text, -1))
	arxiv := len(arxivMention.FindAllString(text, -1))
	years := len(yearMention.FindAllString(text, -1))

	lower := strings.ToLower(text)
	venues := 0
	for _, venue := range citationVenues {
		if strings.Contains(lower, venue) {
			venues++
		}
	}

	// Year plus venue density marks references even without [N] markers.
	if years >= 3 && venues >= 2 {
		return true
	}
	if citations >= 3 {
		return true
	}
	if arxiv >= 2 {
		return true
	}
	if doiOrURL.MatchString(text) && citations >= 1 && years >= 2 {
		return true
	}

	// Years count as half a citation feature each.
	density := (float64(citations) + float64(arxiv) + float64(years)*0.5) / (float64(length) / 100)
	return density > 1.0
}
