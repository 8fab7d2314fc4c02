package query

import (
	"context"
	"fmt"

	"github.com/papermind-ai/papermind/pkg/ai"
	"github.com/papermind-ai/papermind/pkg/logger"
	"github.com/papermind-ai/papermind/pkg/store"
)

// VectorRetriever embeds the query and searches the chunk store by
// cosine similarity. The same embedding model must be used for
// ingestion and retrieval or scores are meaningless.
type VectorRetriever struct {
	aiClient ai.Client
	storage  store.ChunkStorage
}

// NewVectorRetriever creates a Retriever backed by an embedding client
// and a chunk store.
//
// Example:
//
//	retriever := query.NewVectorRetriever(aiClient, chunkStorage)
func NewVectorRetriever(aiC ai.Client, s store.ChunkStorage) *VectorRetriever {
	return &VectorRetriever{
		aiClient: aiC,
		storage:  s,
	}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, query string, limit int) ([]store.ScoredChunk, error) {
	embedding, err := r.aiClient.GenerateEmbedding(ctx, []byte(query))
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	chunks, err := r.storage.SearchChunks(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}

	logger.Debug("[Query] Retrieved chunks", "query_len", len(query), "hits", len(chunks))
	return chunks, nil
}
