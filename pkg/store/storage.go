// Package store defines the persistence interface for document chunks
// and their embeddings.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/papermind-ai/papermind/pkg/common"
)

// ErrDocumentNotFound is returned by lookups of unknown documents.
var ErrDocumentNotFound = errors.New("document not found")

// Document is the stored record of one ingested file.
type Document struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	StorageKey string    `json:"storage_key"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScoredChunk is a retrieval hit with its similarity score.
type ScoredChunk struct {
	common.Chunk
	Score float64 `json:"score"`
}

// ChunkStorage persists chunks with embeddings and retrieves them by
// vector similarity.
type ChunkStorage interface {
	UpsertDocument(ctx context.Context, name string, storageKey string) (int64, error)
	SaveChunks(ctx context.Context, chunks []common.Chunk, embeddings [][]float32) error
	SearchChunks(ctx context.Context, embedding []float32, limit int) ([]ScoredChunk, error)
	DeleteDocument(ctx context.Context, name string) error
	GetDocument(ctx context.Context, name string) (*Document, error)
	ListDocuments(ctx context.Context) ([]Document, error)
}
