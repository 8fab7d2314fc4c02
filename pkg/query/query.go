// Package query answers natural-language questions over the ingested
// corpus. Retrieval and completion sit behind explicit interfaces so
// the vector index and the model backend are swappable independently.
package query

import (
	"context"

	"github.com/papermind-ai/papermind/pkg/ai"
	"github.com/papermind-ai/papermind/pkg/store"
)

// Retriever finds the chunks most similar to a query string.
type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int) ([]store.ScoredChunk, error)
}

// Completer generates text from a prompt. ai.Client satisfies this.
type Completer interface {
	GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error)
}

// Answer is the result of one question against the corpus.
type Answer struct {
	Text    string              `json:"text"`
	Sources []string            `json:"sources"`
	Chunks  []store.ScoredChunk `json:"chunks,omitempty"`
}
