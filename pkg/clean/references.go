package clean

import (
	"regexp"
	"strings"

	"github.com/papermind-ai/papermind/pkg/common"
	"github.com/papermind-ai/papermind/pkg/logger"
)

// headingScanLines bounds how deep into a page we look for a section
// heading. Real headings sit at the top of a page; scanning further
// only produces false positives from running text.
const headingScanLines = 10

// referenceHeadings are the exact (case-folded) section titles that
// start a bibliography.
var referenceHeadings = map[string]bool{
	"references":   true,
	"reference":    true,
	"bibliography": true,
	"参考文献":         true,
}

// numberedHeading matches decorated variants of the same titles, e.g.
// "7. References", "VII References", "[7] Bibliography". Input is
// lowercased before matching.
var numberedHeading = regexp.MustCompile(`^(\d+|[ivxl]+|\[\d+\])[.)]?\s*(references|reference|bibliography|参考文献)$`)

// TruncateReferences drops the reference section and everything after
// it. Pages are scanned in order; the first page whose leading lines
// contain a bibliography heading marks the cut, and that page is
// dropped along with all later pages. Appendices behind the references
// are discarded deliberately: they carry no extractable content worth
// the citation noise. When no heading is found the input is returned
// unchanged, so the operation is idempotent.
func TruncateReferences(pages []common.Page) []common.Page {
	for i, page := range pages {
		if pageStartsReferences(page.Text) {
			logger.Info("[Clean] Truncating reference section",
				"source", page.SourceFile, "page", page.PageNumber, "kept_pages", i)
			return pages[:i]
		}
	}
	return pages
}

func pageStartsReferences(text string) bool {
	lines := strings.Split(text, "\n")
	if len(lines) > headingScanLines {
		lines = lines[:headingScanLines]
	}
	for _, line := range lines {
		if isReferenceHeading(line) {
			return true
		}
	}
	return false
}

func isReferenceHeading(line string) bool {
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return false
	}
	if referenceHeadings[line] {
		return true
	}
	return numberedHeading.MatchString(line)
}
