package graph

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/papermind-ai/papermind/internal/util"
	"github.com/papermind-ai/papermind/pkg/common"
)

// openingBrackets start a parenthetical annotation. The text before
// the first of these is the merge key for canonicalization.
var openingBrackets = []string{"(", "[", "（", "【"}

// canonicalRegistry maps a lower-cased base name to the surface form
// chosen as canonical for it. It only grows: once a base name is seen,
// later candidates either replace the canonical form (higher score) or
// are folded into the existing one.
type canonicalRegistry struct {
	forms map[string]string
}

func newCanonicalRegistry() *canonicalRegistry {
	return &canonicalRegistry{forms: map[string]string{}}
}

// Normalize returns the canonical surface form for name, registering
// name as canonical if it is the best variant seen so far. "OLAF" and
// "OLAF (在线学习与反馈)" collapse to the annotated form regardless of
// the order they arrive in.
func (r *canonicalRegistry) Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	base := baseName(name)
	existing, seen := r.forms[base]
	if !seen {
		r.forms[base] = name
		return name
	}
	// Ties keep the existing form.
	if formScore(name) > formScore(existing) {
		r.forms[base] = name
		return name
	}
	return existing
}

// lookup resolves name to its canonical form without registering it.
// An unseen base name resolves to the trimmed input unchanged.
func (r *canonicalRegistry) lookup(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if existing, seen := r.forms[baseName(name)]; seen {
		return existing
	}
	return name
}

// rebuild reconstructs the registry from persisted per-document entity
// lists. Documents are replayed in sorted name order so the result is
// deterministic for a given file.
func (r *canonicalRegistry) rebuild(documents map[string]*common.EntityRecord) {
	r.forms = map[string]string{}
	names := make([]string, 0, len(documents))
	for name := range documents {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		record := documents[name]
		if record == nil {
			continue
		}
		for _, category := range common.Categories {
			for _, entity := range record.Category(category) {
				r.Normalize(entity)
			}
		}
	}
}

// baseName truncates at the first opening bracket, trims and lowers.
func baseName(name string) string {
	cut := len(name)
	for _, bracket := range openingBrackets {
		if i := strings.Index(name, bracket); i >= 0 && i < cut {
			cut = i
		}
	}
	return strings.ToLower(strings.TrimSpace(name[:cut]))
}

// formScore ranks candidate surface forms. CJK annotations carry the
// most information, parenthetical annotations come next, and longer
// strings beat shorter ones up to a cap so runaway strings cannot win
// on length alone.
func formScore(name string) int {
	score := 0
	if containsCJK(name) {
		score += 100
	}
	if strings.ContainsAny(name, "([（【") {
		score += 50
	}
	return score + util.Min(utf8.RuneCountInString(name), 80)
}

func containsCJK(name string) bool {
	for _, r := range name {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
