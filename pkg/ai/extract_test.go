package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/papermind-ai/papermind/pkg/common"
)

// fakeClient scripts completion responses for extractor tests.
type fakeClient struct {
	calls       atomic.Int64
	formatCalls atomic.Int64
	formatErr   error
	respond     func(prompt string) (string, error)
	embedding   []float32
}

func (f *fakeClient) GenerateCompletion(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	f.calls.Add(1)
	return f.respond(prompt)
}

func (f *fakeClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...GenerateOption) error {
	f.formatCalls.Add(1)
	if f.formatErr != nil {
		return f.formatErr
	}
	response, err := f.respond(prompt)
	if err != nil {
		return err
	}
	return UnmarshalFlexible(response, out)
}

func (f *fakeClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return f.embedding, nil
}

func (f *fakeClient) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i := range out {
		out[i] = f.embedding
	}
	return out, nil
}

func entityJSON(keyword string) string {
	return fmt.Sprintf(`{"keywords": [%q], "methods": [], "fields": [], "datasets": [], "applications": []}`, keyword)
}

func longText(marker string) string {
	return marker + " " + strings.Repeat("the method builds a knowledge graph from academic text ", 3)
}

func TestExtractEntities(t *testing.T) {
	client := &fakeClient{respond: func(prompt string) (string, error) {
		return entityJSON("knowledge graph"), nil
	}}
	extractor, err := NewExtractor(ExtractorParams{Client: client})
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	record, err := extractor.ExtractEntities(context.Background(), longText("doc"))
	if err != nil {
		t.Fatalf("ExtractEntities failed: %v", err)
	}
	if len(record.Keywords) != 1 || record.Keywords[0] != "knowledge graph" {
		t.Fatalf("keywords = %v", record.Keywords)
	}
	if client.formatCalls.Load() != 1 || client.calls.Load() != 0 {
		t.Fatalf("expected one schema-enforced call, got format=%d plain=%d",
			client.formatCalls.Load(), client.calls.Load())
	}
}

func TestExtractEntitiesFallsBackWithoutStructuredOutput(t *testing.T) {
	client := &fakeClient{
		formatErr: errors.New("response_format not supported"),
		respond: func(prompt string) (string, error) {
			return "```json\n" + entityJSON("fallback entity") + "\n```", nil
		},
	}
	extractor, err := NewExtractor(ExtractorParams{Client: client})
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	record, err := extractor.ExtractEntities(context.Background(), longText("doc"))
	if err != nil {
		t.Fatalf("ExtractEntities failed: %v", err)
	}
	if len(record.Keywords) != 1 || record.Keywords[0] != "fallback entity" {
		t.Fatalf("keywords = %v", record.Keywords)
	}
	if client.formatCalls.Load() != 1 || client.calls.Load() != 1 {
		t.Fatalf("expected one schema attempt then one plain call, got format=%d plain=%d",
			client.formatCalls.Load(), client.calls.Load())
	}
}

func TestExtractEntitiesShortTextSkipsModel(t *testing.T) {
	client := &fakeClient{respond: func(prompt string) (string, error) {
		return "", errors.New("should not be called")
	}}
	extractor, err := NewExtractor(ExtractorParams{Client: client})
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	record, err := extractor.ExtractEntities(context.Background(), "too short")
	if err != nil {
		t.Fatalf("ExtractEntities failed: %v", err)
	}
	if !record.IsEmpty() {
		t.Fatalf("expected empty record, got %+v", record)
	}
	if client.calls.Load() != 0 {
		t.Fatalf("model called %d times for short text", client.calls.Load())
	}
}

func TestExtractEntitiesRetriesTransientFailure(t *testing.T) {
	client := &fakeClient{}
	client.respond = func(prompt string) (string, error) {
		if client.calls.Load() < 2 {
			return "", errors.New("rate limited")
		}
		return entityJSON("retrieval"), nil
	}
	extractor, err := NewExtractor(ExtractorParams{Client: client})
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	record, err := extractor.ExtractEntities(context.Background(), longText("doc"))
	if err != nil {
		t.Fatalf("ExtractEntities failed: %v", err)
	}
	if len(record.Keywords) != 1 {
		t.Fatalf("keywords = %v", record.Keywords)
	}
	if client.calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", client.calls.Load())
	}
}

func TestExtractEntitiesTruncatesInput(t *testing.T) {
	var seen string
	client := &fakeClient{respond: func(prompt string) (string, error) {
		seen = prompt
		return entityJSON("x"), nil
	}}
	extractor, err := NewExtractor(ExtractorParams{Client: client, MaxInputTokens: 20})
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	text := strings.Repeat("entity extraction over long documents ", 100)
	if _, err := extractor.ExtractEntities(context.Background(), text); err != nil {
		t.Fatalf("ExtractEntities failed: %v", err)
	}
	if !strings.Contains(seen, "...") {
		t.Fatal("truncated input not marked with ellipsis")
	}
	if strings.Contains(seen, text) {
		t.Fatal("full text sent despite token cap")
	}
}

func TestExtractFromChunksAggregatesLeadingChunks(t *testing.T) {
	var seen string
	client := &fakeClient{respond: func(prompt string) (string, error) {
		seen = prompt
		return entityJSON("x"), nil
	}}
	extractor, err := NewExtractor(ExtractorParams{Client: client})
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	chunks := []common.Chunk{
		{Text: longText("first")},
		{Text: longText("second")},
		{Text: longText("third")},
		{Text: longText("fourth")},
	}
	if _, err := extractor.ExtractFromChunks(context.Background(), chunks); err != nil {
		t.Fatalf("ExtractFromChunks failed: %v", err)
	}
	for _, marker := range []string{"first", "second", "third"} {
		if !strings.Contains(seen, marker) {
			t.Fatalf("prompt missing chunk %q", marker)
		}
	}
	if strings.Contains(seen, "fourth") {
		t.Fatal("prompt includes chunk beyond the aggregation window")
	}
}

func TestExtractFromDocumentsPartialFailure(t *testing.T) {
	client := &fakeClient{}
	client.respond = func(prompt string) (string, error) {
		if strings.Contains(prompt, "bad") {
			return "", errors.New("model unavailable")
		}
		return entityJSON("good entity"), nil
	}
	extractor, err := NewExtractor(ExtractorParams{Client: client})
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	documents := map[string][]common.Chunk{
		"good.pdf": {{Text: longText("good")}},
		"bad.pdf":  {{Text: longText("bad")}},
	}
	results, err := extractor.ExtractFromDocuments(context.Background(), documents)
	if err != nil {
		t.Fatalf("ExtractFromDocuments failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("result count = %d", len(results))
	}
	if results["good.pdf"].IsEmpty() {
		t.Fatal("good document lost its entities")
	}
	if !results["bad.pdf"].IsEmpty() {
		t.Fatalf("failed document should degrade to empty record, got %+v", results["bad.pdf"])
	}
}
