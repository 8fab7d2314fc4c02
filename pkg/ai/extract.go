package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/sync/errgroup"

	"github.com/papermind-ai/papermind/internal/util"
	"github.com/papermind-ai/papermind/pkg/common"
	"github.com/papermind-ai/papermind/pkg/logger"
)

const (
	// DefaultMaxInputTokens caps the text sent per extraction request.
	// Entity-bearing content sits in the opening chunks, so truncating
	// here costs little recall.
	DefaultMaxInputTokens = 2000

	// DefaultExtractConcurrency bounds in-flight extraction requests.
	DefaultExtractConcurrency = 3

	// chunksPerDocument is how many leading chunks are aggregated into
	// one extraction request per source file.
	chunksPerDocument = 3

	// minExtractableRunes skips texts too short to carry entities.
	minExtractableRunes = 50

	extractRetries = 3
)

// Extractor drives LLM entity extraction over chunked documents.
type Extractor struct {
	client      Client
	maxTokens   int
	concurrency int
	encoding    *tiktoken.Tiktoken
}

type ExtractorParams struct {
	Client         Client
	MaxInputTokens int // 0 means DefaultMaxInputTokens
	Concurrency    int // 0 means DefaultExtractConcurrency
}

func NewExtractor(params ExtractorParams) (*Extractor, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("extractor requires an AI client")
	}
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("loading token encoding: %w", err)
	}
	maxTokens := params.MaxInputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxInputTokens
	}
	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultExtractConcurrency
	}
	return &Extractor{
		client:      params.Client,
		maxTokens:   maxTokens,
		concurrency: concurrency,
		encoding:    encoding,
	}, nil
}

// ExtractEntities extracts the five entity categories from one text.
// Transient model failures are retried; a text too short to carry
// entities yields an empty record without a model call.
func (e *Extractor) ExtractEntities(ctx context.Context, text string) (*common.EntityRecord, error) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minExtractableRunes {
		return &common.EntityRecord{}, nil
	}

	prompt := fmt.Sprintf(EntityExtractionPrompt,
		e.truncate(text),
		MaxKeywordsPerDoc, MaxMethodsPerDoc, MaxFieldsPerDoc,
		MaxDatasetsPerDoc, MaxApplicationsPerDoc)

	// Schema-enforced output first. Backends that reject a response
	// format fall through to plain completion and the tolerant parser.
	var record common.EntityRecord
	err := e.client.GenerateCompletionWithFormat(ctx, "entity_record",
		"Entities extracted from an academic document", prompt, &record,
		WithTemperature(0.3))
	if err == nil {
		return cleanRecord(&record), nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	logger.Debug("[AI] Structured extraction unavailable, falling back",
		"error", err)

	response, err := util.RetryWithContext(ctx, extractRetries, func(ctx context.Context) (string, error) {
		return e.client.GenerateCompletion(ctx, prompt, WithTemperature(0.3))
	})
	if err != nil {
		return nil, fmt.Errorf("entity extraction request: %w", err)
	}
	return ParseEntityRecord(response), nil
}

// ExtractFromChunks aggregates the leading chunks of one source file
// into a single extraction request.
func (e *Extractor) ExtractFromChunks(ctx context.Context, chunks []common.Chunk) (*common.EntityRecord, error) {
	take := util.Min(len(chunks), chunksPerDocument)
	texts := make([]string, 0, take)
	for _, chunk := range chunks[:take] {
		texts = append(texts, chunk.Text)
	}
	return e.ExtractEntities(ctx, strings.Join(texts, "\n\n"))
}

// ExtractFromDocuments runs extraction for every source file with
// bounded concurrency. A failed file degrades to an empty record so
// sibling documents still finish; only context cancellation aborts the
// whole run.
func (e *Extractor) ExtractFromDocuments(ctx context.Context, documents map[string][]common.Chunk) (map[string]*common.EntityRecord, error) {
	results := make(map[string]*common.EntityRecord, len(documents))
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.concurrency)
	for name, chunks := range documents {
		eg.Go(func() error {
			record, err := e.ExtractFromChunks(ctx, chunks)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("[AI] Extraction failed, using empty record",
					"document", name, "error", err)
				record = &common.EntityRecord{}
			}
			mu.Lock()
			results[name] = record
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// truncate trims text to the token budget, re-decoding the kept prefix.
func (e *Extractor) truncate(text string) string {
	tokens := e.encoding.Encode(text, nil, nil)
	if len(tokens) <= e.maxTokens {
		return text
	}
	return e.encoding.Decode(tokens[:e.maxTokens]) + "..."
}
