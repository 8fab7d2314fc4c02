// Package chunk turns cleaned document pages into retrieval-sized text
// chunks and filters out the noise that academic PDFs produce in bulk:
// author lists, reference entries, figure captions, page furniture.
package chunk

import (
	"strings"
	"unicode/utf8"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/papermind-ai/papermind/pkg/common"
	"github.com/papermind-ai/papermind/pkg/logger"
)

const (
	// DefaultChunkSize and DefaultOverlap are rune counts, not bytes,
	// so Chinese text is measured the same way as English.
	DefaultChunkSize = 600
	DefaultOverlap   = 100
)

// defaultSeparators is ordered from strongest to weakest boundary:
// paragraph, line, CJK sentence enders, Latin sentence enders,
// semicolons, spaces, and finally individual runes.
var defaultSeparators = []string{
	"\n\n", "\n", "。", "！", "？", ".", "!", "?", ";", "；", " ", "",
}

// Splitter splits text recursively along a separator hierarchy, then
// packs the fragments into chunks of at most ChunkSize runes with
// Overlap runes carried between consecutive chunks.
type Splitter struct {
	ChunkSize  int
	Overlap    int
	separators []string
}

func NewSplitter() *Splitter {
	return &Splitter{
		ChunkSize:  DefaultChunkSize,
		Overlap:    DefaultOverlap,
		separators: defaultSeparators,
	}
}

// Split breaks text into chunks. Fragments longer than ChunkSize are
// re-split with the next weaker separator, so a chunk never exceeds
// ChunkSize runes.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	separator := ""
	var remaining []string
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			separator = candidate
			remaining = separators[i+1:]
			break
		}
	}

	var fragments []string
	if separator == "" {
		fragments = splitRunes(text, s.ChunkSize)
	} else {
		fragments = strings.Split(text, separator)
	}

	var chunks []string
	var fits []string
	for _, fragment := range fragments {
		if utf8.RuneCountInString(fragment) < s.ChunkSize {
			fits = append(fits, fragment)
			continue
		}
		if len(fits) > 0 {
			chunks = append(chunks, s.pack(fits, separator)...)
			fits = nil
		}
		if len(remaining) == 0 {
			chunks = append(chunks, fragment)
		} else {
			chunks = append(chunks, s.split(fragment, remaining)...)
		}
	}
	if len(fits) > 0 {
		chunks = append(chunks, s.pack(fits, separator)...)
	}
	return chunks
}

// pack greedily joins fragments into chunks up to ChunkSize, keeping a
// tail of at most Overlap runes as the start of the next chunk.
func (s *Splitter) pack(fragments []string, separator string) []string {
	separatorLen := utf8.RuneCountInString(separator)

	var chunks []string
	var window []string
	size := 0

	flush := func() {
		joined := strings.TrimSpace(strings.Join(window, separator))
		if joined != "" {
			chunks = append(chunks, joined)
		}
	}

	for _, fragment := range fragments {
		fragmentLen := utf8.RuneCountInString(fragment)
		added := fragmentLen
		if len(window) > 0 {
			added += separatorLen
		}
		if size+added > s.ChunkSize && len(window) > 0 {
			flush()
			for len(window) > 0 && size > s.Overlap {
				size -= utf8.RuneCountInString(window[0])
				if len(window) > 1 {
					size -= separatorLen
				}
				window = window[1:]
			}
			added = fragmentLen
			if len(window) > 0 {
				added += separatorLen
			}
		}
		window = append(window, fragment)
		size += added
	}
	flush()
	return chunks
}

func splitRunes(text string, size int) []string {
	runes := []rune(text)
	var parts []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}

// SplitPages runs the splitter over every page and assembles chunks
// with provisional indices. Page boundaries are hard boundaries: a
// chunk never spans two pages.
func (s *Splitter) SplitPages(pages []common.Page) ([]common.Chunk, error) {
	var chunks []common.Chunk
	for _, page := range pages {
		for _, text := range s.Split(page.Text) {
			id, err := gonanoid.New()
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, common.Chunk{
				ID:         id,
				Text:       text,
				SourceFile: page.SourceFile,
				Page:       page.PageNumber,
				Index:      len(chunks),
			})
		}
	}
	return chunks, nil
}

// Prepare is the full chunking stage: split pages, classify every
// chunk, drop the noise, then reindex the survivors 0..n-1 so chunk
// order stays contiguous for downstream stores.
func (s *Splitter) Prepare(pages []common.Page, classifier *Classifier) ([]common.Chunk, error) {
	chunks, err := s.SplitPages(pages)
	if err != nil {
		return nil, err
	}

	dropped := map[string]int{}
	kept := make([]common.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if noise, reason := classifier.Classify(c.Text); noise {
			dropped[reason]++
			continue
		}
		if IsCitationDense(c.Text) {
			dropped[ReasonCitationDense]++
			continue
		}
		c.Index = len(kept)
		kept = append(kept, c)
	}

	if len(dropped) > 0 {
		logger.Info("[Chunk] Dropped noise chunks",
			"total", len(chunks), "kept", len(kept), "reasons", dropped)
	}
	return kept, nil
}
