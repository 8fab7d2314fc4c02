package chunk

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reason strings reported by the classifier. First matching rule wins,
// so the reason for a given input is deterministic.
const (
	ReasonTooShort       = "too-short"
	ReasonLowSignal      = "low-signal"
	ReasonAuthorList     = "author-list"
	ReasonReferenceList  = "reference-list"
	ReasonTitlePage      = "title-page"
	ReasonFigureTable    = "figure-table"
	ReasonAcknowledgment = "acknowledgment"
	ReasonConfigDump     = "config-dump"
	ReasonKeyValue       = "key-value"
	ReasonRepetition     = "repetition"
	ReasonCitationDense  = "citation-dense"
)

const (
	minChunkRunes      = 100
	minMeaningfulRatio = 0.7
)

var (
	// Reference-list indicators.
	nameInitialPattern = regexp.MustCompile(`\b[A-Z]\.\s*[A-Z][a-z]+|\b[A-Z][a-z]+,\s*[A-Z]\.`)
	volumeIssuePattern = regexp.MustCompile(`\b\d+\(\d+\):`)
	pageRangePattern   = regexp.MustCompile(`pp\.\s*\d+\s*[-–]\s*\d+`)
	yearPunctPattern   = regexp.MustCompile(`\b(?:19|20)\d{2}[.,;)]`)
	authorChainPattern = regexp.MustCompile(`[A-Z][a-z]+,\s*[A-Z]\.,\s*(?:and\s+)?[A-Z][a-z]+`)
	venueKeywords      = []string{"transactions on", "proceedings of", "arxiv:", "journal of", "conference on"}

	// Title-page indicators.
	nameSuperscript    = regexp.MustCompile(`\b[A-Z][a-z]+\d{1,2}\b`)
	digitInstitution   = regexp.MustCompile(`\b\d(?:University|Institute|Laboratory|Department|College|School)`)
	abstractOpener     = regexp.MustCompile(`(?i)abstract\s+(?:we|how|this|in)\b`)
	titleWithAffiliat  = regexp.MustCompile(`(?s)[^\n]{10,}:[^\n]+\n.*\b[A-Z][a-z]+\d`)
	emailPattern       = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.]+`)

	// Figure/table indicators.
	captionPattern     = regexp.MustCompile(`(?i)\b(?:figure|fig\.|table)\s*\d+`)
	subfigureLabel     = regexp.MustCompile(`\([a-z]\)`)
	decimalTriple      = regexp.MustCompile(`\d+\.\d+\s+\d+\.\d+\s+\d+\.\d+`)
	decimalPair        = regexp.MustCompile(`\d+\.\d+\s+\d+\.\d+`)
	errorMarginPattern = regexp.MustCompile(`±\s*\d+\.\d+`)

	// Acknowledgment indicators.
	fundingKeywords = []string{
		"grant no", "supported by", "funded by", "acknowledg",
		"national science foundation", "nsf", "darpa", "in part by",
	}
	grantNumberPattern = regexp.MustCompile(`\b[A-Z]{2,}-?\d{4,}\b`)

	// Structured-config and repetition indicators.
	configKeyPattern  = regexp.MustCompile(`\b\w+_\w+:\s|<\w+>`)
	identifierNumber  = regexp.MustCompile(`\b[A-Za-z]+_\d+\b`)
)

// Classifier decides whether a chunk is substantive content or noise.
// It is a pure function of the input text; instances carry no state
// and are safe for concurrent use.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// rule pairs a reason with its trigger. Evaluation order is fixed so
// the reported reason never depends on anything but the input.
type rule struct {
	reason  string
	matches func(text string) bool
}

var rules = []rule{
	{ReasonTooShort, isTooShort},
	{ReasonLowSignal, hasLowMeaningfulRatio},
	{ReasonAuthorList, isAuthorList},
	{ReasonReferenceList, isReferenceList},
	{ReasonTitlePage, isTitlePage},
	{ReasonFigureTable, isFigureTable},
	{ReasonAcknowledgment, isAcknowledgment},
	{ReasonConfigDump, isConfigDump},
	{ReasonKeyValue, isKeyValueDense},
	{ReasonRepetition, isDegenerateRepetition},
}

// Classify reports whether text is noise and, if so, which rule fired.
// It never fails: empty or malformed input falls under the too-short
// rule.
func (c *Classifier) Classify(text string) (bool, string) {
	for _, r := range rules {
		if r.matches(text) {
			return true, r.reason
		}
	}
	return false, ""
}

func isTooShort(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) < minChunkRunes
}

// hasLowMeaningfulRatio flags chunks dominated by symbol salad from
// formula or layout extraction. Letters (including CJK), digits, basic
// punctuation and whitespace count as meaningful.
func hasLowMeaningfulRatio(text string) bool {
	total := 0
	meaningful := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || isBasicPunct(r) {
			meaningful++
		}
	}
	if total == 0 {
		return false
	}
	return float64(meaningful)/float64(total) < minMeaningfulRatio
}

func isBasicPunct(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '!', '?', '(', ')', '[', ']', '\'', '"', '-',
		'。', '，', '；', '：', '！', '？', '（', '）', '【', '】':
		return true
	}
	return false
}

// isAuthorList catches the dense comma-separated name blocks that open
// multi-author papers.
func isAuthorList(text string) bool {
	segments := strings.Split(text, ",")
	commas := len(segments) - 1
	if commas < 15 {
		return false
	}
	totalLen := 0
	for _, segment := range segments {
		totalLen += utf8.RuneCountInString(strings.TrimSpace(segment))
	}
	if float64(totalLen)/float64(len(segments)) >= 25 {
		return false
	}
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return false
	}
	capitalized := 0
	for _, token := range tokens {
		r, _ := utf8.DecodeRuneInString(token)
		if unicode.IsUpper(r) {
			capitalized++
		}
	}
	return float64(capitalized)/float64(len(tokens)) > 0.6
}

func isReferenceList(text string) bool {
	lower := strings.ToLower(text)
	score := 0
	if len(nameInitialPattern.FindAllString(text, -1)) >= 3 {
		score += 2
	}
	if volumeIssuePattern.MatchString(text) || len(pageRangePattern.FindAllString(text, -1)) >= 2 {
		score += 2
	}
	if len(yearPunctPattern.FindAllString(text, -1)) >= 3 {
		score++
	}
	for _, keyword := range venueKeywords {
		if strings.Contains(lower, keyword) {
			score++
			break
		}
	}
	if len(authorChainPattern.FindAllString(text, -1)) >= 2 {
		score++
	}
	return score >= 3
}

func isTitlePage(text string) bool {
	score := 0
	if len(nameSuperscript.FindAllString(text, -1)) >= 2 {
		score += 2
	}
	if digitInstitution.MatchString(text) {
		score += 2
	}
	if abstractOpener.MatchString(text) {
		score++
	}
	if titleWithAffiliat.MatchString(text) {
		score += 2
	}
	if emailPattern.MatchString(text) {
		score++
	}
	return score >= 2
}

func isFigureTable(text string) bool {
	score := 0
	captions := len(captionPattern.FindAllString(text, -1))
	if captions >= 1 {
		score++
	}
	if captions >= 2 {
		score++
	}
	if len(subfigureLabel.FindAllString(text, -1)) >= 3 {
		score++
	}
	if decimalTriple.MatchString(text) {
		score += 2
	}
	if len(decimalPair.FindAllString(text, -1)) >= 3 {
		score++
	}
	if errorMarginPattern.MatchString(text) {
		score++
	}
	return score >= 2
}

func isAcknowledgment(text string) bool {
	lower := strings.ToLower(text)
	score := 0
	for _, keyword := range fundingKeywords {
		if strings.Contains(lower, keyword) {
			score++
		}
	}
	if grantNumberPattern.MatchString(text) {
		score += 2
	}
	return score >= 2
}

func isConfigDump(text string) bool {
	return len(configKeyPattern.FindAllString(text, -1)) >= 3
}

func isKeyValueDense(text string) bool {
	colons := strings.Count(text, ":") + strings.Count(text, "：")
	if colons <= 10 {
		return false
	}
	total := utf8.RuneCountInString(text)
	return float64(colons)/float64(total) > 0.03
}

// isDegenerateRepetition catches pathological extraction output like
// repeated joint_1 joint_2 ... token streams from embedded model files.
func isDegenerateRepetition(text string) bool {
	if len(identifierNumber.FindAllString(text, -1)) < 10 {
		return false
	}
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return false
	}
	unique := map[string]bool{}
	for _, token := range tokens {
		unique[token] = true
	}
	return float64(len(unique))/float64(len(tokens)) < 0.3
}
