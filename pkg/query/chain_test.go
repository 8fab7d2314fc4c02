package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/papermind-ai/papermind/pkg/ai"
	"github.com/papermind-ai/papermind/pkg/common"
	"github.com/papermind-ai/papermind/pkg/store"
)

type fakeRetriever struct {
	chunks    []store.ScoredChunk
	err       error
	lastQuery string
	lastLimit int
}

func (f *fakeRetriever) Retrieve(_ context.Context, query string, limit int) ([]store.ScoredChunk, error) {
	f.lastQuery = query
	f.lastLimit = limit
	return f.chunks, f.err
}

type fakeCompleter struct {
	response   string
	err        error
	lastPrompt string
	lastOpts   ai.GenerateOptions
}

func (f *fakeCompleter) GenerateCompletion(_ context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	f.lastPrompt = prompt
	f.lastOpts = ai.GenerateOptions{}
	for _, o := range opts {
		o(&f.lastOpts)
	}
	return f.response, f.err
}

func scored(source string, page int, text string, score float64) store.ScoredChunk {
	return store.ScoredChunk{
		Chunk: common.Chunk{
			ID:         "c-" + source,
			Text:       text,
			SourceFile: source,
			Page:       page,
		},
		Score: score,
	}
}

func TestAskGroundsAnswerInRetrievedChunks(t *testing.T) {
	retriever := &fakeRetriever{
		chunks: []store.ScoredChunk{
			scored("transformers.pdf", 2, "Attention layers replace recurrence.", 0.91),
			scored("survey.pdf", 5, "Retrieval augments generation with context.", 0.84),
			scored("transformers.pdf", 3, "Positional encodings carry order.", 0.80),
		},
	}
	completer := &fakeCompleter{response: "Attention replaces recurrence."}

	chain := NewChain(retriever, completer)
	answer, err := chain.Ask(context.Background(), "How do transformers handle order?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if answer.Text != "Attention replaces recurrence." {
		t.Fatalf("unexpected answer text %q", answer.Text)
	}
	for _, fragment := range []string{
		"Attention layers replace recurrence.",
		"Retrieval augments generation with context.",
		"[Source: transformers.pdf, page 2]",
		"How do transformers handle order?",
	} {
		if !strings.Contains(completer.lastPrompt, fragment) {
			t.Fatalf("prompt missing %q:\n%s", fragment, completer.lastPrompt)
		}
	}

	want := []string{"transformers.pdf", "survey.pdf"}
	if len(answer.Sources) != len(want) {
		t.Fatalf("Sources = %v, want %v", answer.Sources, want)
	}
	for i, source := range want {
		if answer.Sources[i] != source {
			t.Fatalf("Sources[%d] = %q, want %q", i, answer.Sources[i], source)
		}
	}
	if len(answer.Chunks) != 3 {
		t.Fatalf("expected 3 chunks in answer, got %d", len(answer.Chunks))
	}
}

func TestAskNoContextRefusesToInvent(t *testing.T) {
	retriever := &fakeRetriever{}
	completer := &fakeCompleter{response: "Nothing relevant in the knowledge base."}

	chain := NewChain(retriever, completer)
	answer, err := chain.Ask(context.Background(), "什么是量子纠缠？")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if !strings.Contains(completer.lastPrompt, "什么是量子纠缠？") {
		t.Fatalf("no-data prompt missing question:\n%s", completer.lastPrompt)
	}
	if strings.Contains(completer.lastPrompt, "# Context") {
		t.Fatalf("no-data path should not build a context section")
	}
	if len(answer.Sources) != 0 {
		t.Fatalf("expected no sources, got %v", answer.Sources)
	}
}

func TestAskTopK(t *testing.T) {
	retriever := &fakeRetriever{}
	completer := &fakeCompleter{response: "ok"}

	if _, err := NewChain(retriever, completer).Ask(context.Background(), "q"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if retriever.lastLimit != DefaultTopK {
		t.Fatalf("default limit = %d, want %d", retriever.lastLimit, DefaultTopK)
	}

	if _, err := NewChain(retriever, completer, WithTopK(7)).Ask(context.Background(), "q"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if retriever.lastLimit != 7 {
		t.Fatalf("limit = %d, want 7", retriever.lastLimit)
	}
}

func TestAskPassesModelAndSystemPrompts(t *testing.T) {
	retriever := &fakeRetriever{
		chunks: []store.ScoredChunk{scored("a.pdf", 1, "context text", 0.9)},
	}
	completer := &fakeCompleter{response: "ok"}

	chain := NewChain(retriever, completer,
		WithModel("deepseek-ai/DeepSeek-V3.2"),
		WithSystemPrompts("Answer concisely."),
	)
	if _, err := chain.Ask(context.Background(), "q"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if completer.lastOpts.Model != "deepseek-ai/DeepSeek-V3.2" {
		t.Fatalf("model = %q", completer.lastOpts.Model)
	}
	if len(completer.lastOpts.SystemPrompts) != 1 || completer.lastOpts.SystemPrompts[0] != "Answer concisely." {
		t.Fatalf("system prompts = %v", completer.lastOpts.SystemPrompts)
	}
}

func TestAskRetrieverError(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("index offline")}
	chain := NewChain(retriever, &fakeCompleter{})

	if _, err := chain.Ask(context.Background(), "q"); err == nil {
		t.Fatalf("expected error from failing retriever")
	}
}

func TestTraceCollectsSources(t *testing.T) {
	retriever := &fakeRetriever{
		chunks: []store.ScoredChunk{
			scored("b.pdf", 1, "beta", 0.9),
			scored("a.pdf", 2, "alpha", 0.8),
		},
	}
	trace := NewQueryTrace()
	chain := NewChain(retriever, &fakeCompleter{response: "ok"}, WithTracer(trace))

	if _, err := chain.Ask(context.Background(), "q"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	snapshot := trace.Snapshot()
	want := []string{"a.pdf", "b.pdf"}
	for i, file := range want {
		if snapshot.ConsideredSources[i] != file {
			t.Fatalf("ConsideredSources = %v, want %v", snapshot.ConsideredSources, want)
		}
		if snapshot.UsedSources[i] != file {
			t.Fatalf("UsedSources = %v, want %v", snapshot.UsedSources, want)
		}
	}
}
