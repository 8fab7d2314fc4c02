// Package clean repairs and filters raw document text before chunking.
//
// PDF extraction output is messy: broken encodings, /uniXXXX escape
// artifacts, page-number boilerplate and runaway whitespace. The
// normalizer runs a fixed-order pipeline over each page; order matters
// because encoding repair must happen before any pattern matching and
// whitespace collapse must happen last.
package clean

import (
	"regexp"
	"strings"
)

var (
	// PDF extractors emit unresolved glyphs as /uni escape sequences,
	// sometimes with several 4-hex code points glued together. Matching
	// whole 4-char groups keeps trailing OCR digits out of the escape so
	// the digit-run pass can remove them with their leading neighbors.
	uniEscape = regexp.MustCompile(`/uni(?:[0-9a-fA-F]{4})+`)

	// C0 control characters except tab, newline and carriage return.
	controlChars = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f]")

	// Long digit runs are almost always extraction garbage (glued page
	// coordinates, OCR noise), never prose.
	digitRuns = regexp.MustCompile(`[0-9]{5,}`)

	pageBoilerplateCN = regexp.MustCompile(`第\s*\d+\s*页`)
	pageBoilerplateEN = regexp.MustCompile(`(?i)page\s*\d+\s*(of\s*\d+)?`)

	excessiveNewlines = regexp.MustCompile(`\n{3,}`)
	excessiveSpaces   = regexp.MustCompile(` {3,}`)
)

// Clean normalizes one page of raw extracted text. Malformed input never
// fails: every step degrades to removing the offending bytes.
func Clean(text string) string {
	text = repairEncoding(text)
	text = stripEscapeArtifacts(text)
	text = stripControlChars(text)
	text = stripDigitRuns(text)
	text = stripPageBoilerplate(text)
	text = collapseWhitespace(text)
	return strings.TrimSpace(text)
}

// repairEncoding drops invalid UTF-8 sequences, which is where unpaired
// surrogates from broken PDF text extraction end up. Must run first:
// invalid bytes break the regex steps that follow.
func repairEncoding(text string) string {
	return strings.ToValidUTF8(text, "")
}

func stripEscapeArtifacts(text string) string {
	return uniEscape.ReplaceAllString(text, "")
}

func stripControlChars(text string) string {
	return controlChars.ReplaceAllString(text, "")
}

func stripDigitRuns(text string) string {
	return digitRuns.ReplaceAllString(text, "")
}

func stripPageBoilerplate(text string) string {
	text = pageBoilerplateCN.ReplaceAllString(text, "")
	return pageBoilerplateEN.ReplaceAllString(text, "")
}

// collapseWhitespace runs last because the earlier removals can leave
// fresh blank runs behind.
func collapseWhitespace(text string) string {
	text = excessiveNewlines.ReplaceAllString(text, "\n\n")
	return excessiveSpaces.ReplaceAllString(text, " ")
}
